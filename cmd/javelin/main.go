// Javelin runs a single JVM method in the built-in interpreter.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/javelin/classpath"
	"github.com/chazu/javelin/manifest"
	"github.com/chazu/javelin/pkg/classfile"
	"github.com/chazu/javelin/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	method := flag.String("m", "main", "Method to run")
	trace := flag.Bool("trace", false, "Trace each executed instruction to stderr")
	cp := flag.String("cp", "", "Directories to search for classes (overrides javelin.toml)")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: javelin [options] <class>\n\n")
		fmt.Fprintf(os.Stderr, "Runs one method of a class in the bytecode interpreter and prints the\n")
		fmt.Fprintf(os.Stderr, "returned value. The class is a .class file path, or a class name\n")
		fmt.Fprintf(os.Stderr, "resolved against -cp or the javelin.toml classpath.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  javelin Main.class                    # Run Main.main\n")
		fmt.Fprintf(os.Stderr, "  javelin -m compute -trace Main.class  # Trace a specific method\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(2, nil)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	arg := flag.Arg(0)

	data, err := loadClass(arg, *cp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "javelin: %s: %v\n", arg, err)
		os.Exit(1)
	}
	cf, err := classfile.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "javelin: %s: %v\n", arg, err)
		os.Exit(1)
	}

	mi := cf.FindMethod(*method, "")
	if mi == nil {
		name, _ := cf.ClassName()
		fmt.Fprintf(os.Stderr, "javelin: %s has no method %q\n", name, *method)
		os.Exit(1)
	}
	code := mi.Code()
	if code == nil {
		fmt.Fprintf(os.Stderr, "javelin: method %q has no bytecode\n", *method)
		os.Exit(1)
	}

	frame := vm.NewFrame(code, cf.ConstantPool)
	if *trace {
		frame.SetTrace(os.Stderr)
	}

	result, err := frame.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "javelin: %v\n", err)
		os.Exit(1)
	}
	if result.Kind() != vm.KindEmpty {
		fmt.Println(result)
	}
}

// loadClass reads arg directly when it is a .class path, otherwise
// resolves it as a class name through the configured classpath.
func loadClass(arg, cp string) ([]byte, error) {
	if strings.HasSuffix(arg, ".class") {
		return os.ReadFile(arg)
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default(".")
	}
	dirs := m.ClasspathDirs()
	if cp != "" {
		dirs = filepath.SplitList(cp)
	}

	_, data, err := classpath.New(dirs...).Load(arg)
	return data, err
}
