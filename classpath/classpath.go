// Package classpath resolves binary class names to class files on disk
// and caches summaries of parsed classes.
package classpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("javelin.classpath")

// ErrClassNotFound indicates no searched directory contains the class.
var ErrClassNotFound = errors.New("class not found")

// Path is an ordered list of directories searched for class files.
// Earlier directories shadow later ones.
type Path struct {
	dirs []string
}

// New builds a search path over dirs in the given order.
func New(dirs ...string) *Path {
	return &Path{dirs: dirs}
}

// Dirs returns the searched directories in order.
func (p *Path) Dirs() []string {
	out := make([]string, len(p.dirs))
	copy(out, p.dirs)
	return out
}

// FileFor maps a binary class name to the file path holding it. Both
// dotted (java.lang.String) and internal (java/lang/String) names are
// accepted; the first directory containing the file wins.
func (p *Path) FileFor(name string) (string, error) {
	rel := filepath.FromSlash(internalName(name)) + ".class"
	for _, dir := range p.dirs {
		path := filepath.Join(dir, rel)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			log.Debugf("resolved %s to %s", name, path)
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %d directories)", ErrClassNotFound, name, len(p.dirs))
}

// Load resolves name and reads the class file bytes. The returned path
// names the file the bytes came from.
func (p *Path) Load(name string) (string, []byte, error) {
	path, err := p.FileFor(name)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return path, data, nil
}

// internalName normalizes a class name to its internal slashed form.
func internalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
