package ghx

import (
	"os"
	"path/filepath"
	"strings"
)

// IsPathSecure reports whether the (already rewritten) entry can be
// written under root without escaping it. Link entries are always
// refused, wherever they point: once a link exists on disk, any
// later tool following it can be sent outside root.
func IsPathSecure(root string, e *Entry) bool {
	if e.Kind.IsLink() {
		return false
	}
	_, ok := securePath(root, e.Name)
	return ok
}

// securePath joins name onto root and returns the normalized,
// absolute destination if it stays confined to root.
func securePath(root, name string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	dest := filepath.Join(absRoot, filepath.FromSlash(name))
	if !Confined(absRoot, dest) {
		return "", false
	}
	return dest, true
}

// Confined reports whether dest is root itself or lies below it.
// Both paths are cleaned first; they must be both absolute or both
// relative to the same directory.
func Confined(root, dest string) bool {
	root = filepath.Clean(root)
	dest = filepath.Clean(dest)
	if root == dest {
		return true
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
