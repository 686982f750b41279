// Package github resolves GitHub tree/blob URLs into repository
// archives and fetches them.
package github

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/ghx-dev/ghx"
)

// ErrMalformedURL is returned for URLs that do not point at a
// file or directory of a GitHub repository branch.
var ErrMalformedURL = errors.New("can't extract url")

// Repo is a file or directory of a repository at some branch.
type Repo struct {
	Owner  string
	Name   string
	Branch string

	// Path of the file or directory inside the repository, without
	// leading or trailing slashes. Empty for the whole repository.
	Path string

	// IsFile is true for blob URLs.
	IsFile bool
}

var repoURL = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/(tree|blob)/([^/]+)/(.*)$`)

// ParseURL parses URLs of the form
//
//	https://github.com/{owner}/{repo}/tree/{branch}/{path}
//	https://github.com/{owner}/{repo}/blob/{branch}/{path}
func ParseURL(raw string) (Repo, error) {
	m := repoURL.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Repo{}, fmt.Errorf("%w: %s", ErrMalformedURL, raw)
	}
	r := Repo{
		Owner:  m[1],
		Name:   m[2],
		Branch: m[4],
		Path:   strings.Trim(m[5], "/"),
		IsFile: m[3] == "blob",
	}
	if r.IsFile && r.Path == "" {
		return Repo{}, fmt.Errorf("%w: blob URL without a file path: %s", ErrMalformedURL, raw)
	}
	return r, nil
}

// ArchiveURL is where GitHub serves a gzipped tarball of the branch.
func (r Repo) ArchiveURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/archive/%s.tar.gz", r.Owner, r.Name, r.Branch)
}

// RootPrefix is the top-level directory of the branch tarball.
// GitHub replaces slashes of the branch name with dashes.
func (r Repo) RootPrefix() string {
	return r.Name + "-" + strings.ReplaceAll(r.Branch, "/", "-")
}

// Subtree describes the part of the tarball that r points at.
func (r Repo) Subtree() ghx.Subtree {
	return ghx.Subtree{
		RootPrefix: r.RootPrefix(),
		Path:       r.Path,
		IsFile:     r.IsFile,
	}
}

// DefaultDestination is where r is extracted when the user does not
// choose: a single file lands in the working directory, a directory
// in a new directory of the same name.
func (r Repo) DefaultDestination() string {
	if r.IsFile {
		return "."
	}
	if r.Path == "" {
		return r.RootPrefix()
	}
	return path.Base(r.Path)
}

func (r Repo) String() string {
	kind := "tree"
	if r.IsFile {
		kind = "blob"
	}
	return fmt.Sprintf("https://github.com/%s/%s/%s/%s/%s", r.Owner, r.Name, kind, r.Branch, r.Path)
}
