package classpath

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/javelin/pkg/classfile"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), ".javelin", "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t)

	want := ClassSummary{
		Name:        "com/example/Main",
		SuperName:   "java/lang/Object",
		Major:       61,
		Flags:       0x0021,
		FieldCount:  2,
		MethodCount: 3,
		SourceFile:  "Main.java",
	}
	digest := Digest([]byte("class bytes"))

	if err := c.Put(digest, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := c.Get(digest)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c := openTestCache(t)
	if _, err := c.Get(Digest([]byte("never stored"))); !errors.Is(err, ErrNotCached) {
		t.Errorf("Get error = %v, want ErrNotCached", err)
	}
}

func TestCachePutReplaces(t *testing.T) {
	c := openTestCache(t)
	digest := Digest([]byte("x"))

	if err := c.Put(digest, ClassSummary{Name: "Old"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(digest, ClassSummary{Name: "New"}); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(digest)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "New" {
		t.Errorf("Name after replace = %q, want New", got.Name)
	}
	if n, _ := c.Count(); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestDigestStable(t *testing.T) {
	a := Digest([]byte("same"))
	b := Digest([]byte("same"))
	if a != b {
		t.Errorf("Digest not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Digest length = %d, want 64 hex chars", len(a))
	}
	if Digest([]byte("other")) == a {
		t.Error("different inputs share a digest")
	}
}

func TestSummarize(t *testing.T) {
	cf := &classfile.ClassFile{
		MinorVersion: 0,
		MajorVersion: 61,
		AccessFlags:  classfile.ClassAccPublic | classfile.ClassAccSuper,
		ThisClass:    1,
		SuperClass:   3,
		ConstantPool: classfile.ConstantPool{
			&classfile.ConstantUnknownInfo{},
			&classfile.ConstantClassInfo{NameIndex: 2},
			&classfile.ConstantUtf8Info{Value: "com/example/Main"},
			&classfile.ConstantClassInfo{NameIndex: 4},
			&classfile.ConstantUtf8Info{Value: "java/lang/Object"},
			&classfile.ConstantUtf8Info{Value: "Main.java"},
		},
		Fields:  make([]classfile.FieldInfo, 2),
		Methods: make([]classfile.MethodInfo, 3),
		Attributes: []classfile.Attribute{
			&classfile.SourceFileAttribute{SourceFileIndex: 5},
		},
	}

	s := Summarize(cf)
	if s.Name != "com/example/Main" {
		t.Errorf("Name = %q", s.Name)
	}
	if s.SuperName != "java/lang/Object" {
		t.Errorf("SuperName = %q", s.SuperName)
	}
	if s.Major != 61 || s.Minor != 0 {
		t.Errorf("version = %d.%d, want 61.0", s.Major, s.Minor)
	}
	if s.FieldCount != 2 || s.MethodCount != 3 {
		t.Errorf("counts = %d fields, %d methods", s.FieldCount, s.MethodCount)
	}
	if s.SourceFile != "Main.java" {
		t.Errorf("SourceFile = %q", s.SourceFile)
	}
}
