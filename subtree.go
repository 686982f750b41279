package ghx

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrMalformedSubtree is returned when a Subtree cannot describe
// any part of an archive.
var ErrMalformedSubtree = errors.New("malformed subtree")

// Subtree identifies the part of a repository archive to extract.
type Subtree struct {
	// RootPrefix is the top-level directory every entry of the
	// archive is nested under, e.g. "js-wasm-master".
	RootPrefix string

	// Path of the file or directory relative to RootPrefix. An
	// empty Path with IsFile false selects the whole repository.
	Path string

	// IsFile is true when Path names a single file.
	IsFile bool
}

// Validate reports whether st can be used for a pass over an
// archive. Leading and trailing slashes are tolerated.
func (st Subtree) Validate() error {
	if strings.Trim(st.RootPrefix, "/") == "" {
		return fmt.Errorf("%w: empty root prefix", ErrMalformedSubtree)
	}
	if st.IsFile && strings.Trim(st.Path, "/") == "" {
		return fmt.Errorf("%w: empty file path", ErrMalformedSubtree)
	}
	return nil
}

// Select decides whether the entry at rawPath belongs to the
// subtree. If so, it returns the entry's path relative to the
// extraction root: the subtree's directory prefix is removed and
// the structure below it is kept. Selection never touches the
// file system and never fails; entries that do not match are
// simply not selected.
func (st Subtree) Select(rawPath string) (string, bool) {
	name := strings.TrimSuffix(rawPath, "/")
	prefix := strings.Trim(st.RootPrefix, "/") + "/"
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	name = name[len(prefix):]
	target := strings.Trim(st.Path, "/")

	if st.IsFile {
		if name != target {
			return "", false
		}
		return path.Base(target), true
	}

	if target != "" {
		if !strings.HasPrefix(name, target+"/") {
			return "", false
		}
		name = name[len(target)+1:]
	}
	if name == "" {
		// the subtree's own directory entry
		return "", false
	}
	return name, true
}
