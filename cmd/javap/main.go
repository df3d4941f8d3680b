// Javap-style inspector for JVM class files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/javelin/classpath"
	"github.com/chazu/javelin/manifest"
	"github.com/chazu/javelin/pkg/classfile"
	"github.com/chazu/javelin/pkg/javap"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	disassemble := flag.Bool("c", false, "Disassemble method bytecode")
	descriptors := flag.Bool("s", false, "Print internal type descriptors")
	lineNumbers := flag.Bool("l", false, "Print line number tables")
	constants := flag.Bool("constants", false, "Print the constant pool and final field initializers")
	sysinfo := flag.Bool("sysinfo", false, "Print path, size, SHA-256 checksum, and modification date")
	publicOnly := flag.Bool("public", false, "Show only public members")
	protectedVis := flag.Bool("protected", false, "Show protected and public members")
	packageVis := flag.Bool("package", false, "Show package, protected, and public members")
	privateVis := flag.Bool("private", false, "Show all members")
	cp := flag.String("cp", "", "Directories to search for classes (overrides javelin.toml)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: javap [options] <classes>\n\n")
		fmt.Fprintf(os.Stderr, "Prints declarations for the given classes. Each argument is a .class file\n")
		fmt.Fprintf(os.Stderr, "path, or a class name resolved against -cp or the javelin.toml classpath.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  javap Main.class                 # Declarations only\n")
		fmt.Fprintf(os.Stderr, "  javap -c -private Main.class     # Disassemble all members\n")
		fmt.Fprintf(os.Stderr, "  javap -cp build com.example.Main # Resolve by class name\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(2, nil)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "javap: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default(".")
	}

	opts := javap.Options{
		Disassemble: *disassemble,
		Descriptors: *descriptors,
		Lines:       *lineNumbers,
		Constants:   *constants,
	}
	opts.Visibility, err = pickVisibility(m, *publicOnly, *protectedVis, *packageVis, *privateVis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "javap: %v\n", err)
		os.Exit(1)
	}

	dirs := m.ClasspathDirs()
	if *cp != "" {
		dirs = filepath.SplitList(*cp)
	}
	path := classpath.New(dirs...)

	var cache *classpath.Cache
	if m.Cache.Enabled {
		cache, err = classpath.OpenCache(m.CachePath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "javap: cannot open cache: %v\n", err)
			os.Exit(1)
		}
	}

	failed := false
	for _, arg := range flag.Args() {
		out, err := show(arg, path, cache, opts, *sysinfo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "javap: %s: %v\n", arg, err)
			failed = true
			continue
		}
		fmt.Print(out)
	}

	if cache != nil {
		cache.Close()
	}
	if failed {
		os.Exit(1)
	}
}

// pickVisibility applies the widest level selected by flag, falling back
// to the manifest's output default.
func pickVisibility(m *manifest.Manifest, public, protected, pkg, private bool) (javap.Visibility, error) {
	switch {
	case private:
		return javap.Private, nil
	case pkg:
		return javap.Package, nil
	case protected:
		return javap.Protected, nil
	case public:
		return javap.Public, nil
	}
	v, err := javap.ParseVisibility(m.Output.Visibility)
	if err != nil {
		return 0, fmt.Errorf("javelin.toml output.visibility: %w", err)
	}
	return v, nil
}

// show renders one argument, either a .class file path or a class name
// resolved through the classpath.
func show(arg string, path *classpath.Path, cache *classpath.Cache, opts javap.Options, sysinfo bool) (string, error) {
	file := arg
	if !strings.HasSuffix(arg, ".class") {
		resolved, err := path.FileFor(arg)
		if err != nil {
			return "", err
		}
		file = resolved
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	cf, err := classfile.Parse(data)
	if err != nil {
		return "", err
	}

	var digest string
	if sysinfo || cache != nil {
		digest = classpath.Digest(data)
	}
	if sysinfo {
		info, err := os.Stat(file)
		if err != nil {
			return "", err
		}
		opts.SysInfo = &javap.SysInfo{
			Path:     file,
			Size:     info.Size(),
			SHA256:   digest,
			Modified: info.ModTime(),
		}
	}
	if cache != nil {
		recordSummary(cache, digest, cf)
	}

	return javap.Render(cf, opts)
}

// recordSummary stores the parsed file's summary unless its digest is
// already present, so listing an unchanged file leaves the cache alone.
// Cache trouble never fails the listing.
func recordSummary(cache *classpath.Cache, digest string, cf *classfile.ClassFile) {
	if _, err := cache.Get(digest); !errors.Is(err, classpath.ErrNotCached) {
		return
	}
	if err := cache.Put(digest, classpath.Summarize(cf)); err != nil {
		fmt.Fprintf(os.Stderr, "javap: cache write failed: %v\n", err)
	}
}
