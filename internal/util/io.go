package util

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadSource reads the source file named by opt.Src in full.
func ReadSource(opt Options) (string, error) {
	b, err := os.ReadFile(opt.Src)
	if err != nil {
		return "", fmt.Errorf("could not read source file %q: %w", opt.Src, err)
	}
	return string(b), nil
}

// Stem returns the path with its file extension stripped, e.g.
// "prog.lat" -> "prog".
func Stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// WriteText writes s to the file at path, creating or truncating it. The
// write is buffered so the generated IR text is flushed to disk in one go
// rather than a syscall per fragment.
func WriteText(path, s string) error {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open %q for writing: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(s); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}
	return w.Flush()
}
