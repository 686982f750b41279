package ghx

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
)

// EntryKind is the type of an archive entry as far as
// extraction is concerned.
type EntryKind int

const (
	KindOther EntryKind = iota
	KindFile
	KindDir
	KindSymlink
	KindHardlink
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindHardlink:
		return "hardlink"
	default:
		return "other"
	}
}

// IsLink reports whether the kind is a symbolic or hard link.
func (k EntryKind) IsLink() bool { return k == KindSymlink || k == KindHardlink }

// Entry is one record of a tar stream. Entries are only valid
// until the next call to the stream's Next method; Body in
// particular reads directly from the underlying archive.
type Entry struct {
	// Name is the forward-slash path of the entry. It is the raw
	// archive path when produced by a stream and the rewritten,
	// extraction-relative path once selected.
	Name string

	Kind       EntryKind
	LinkTarget string
	Mode       fs.FileMode

	// Header as read from the archive; nil for synthetic entries.
	Header *tar.Header

	// Body yields the contents of regular files.
	Body io.Reader
}

// EntryStream is a forward-only sequence of archive entries.
// Next returns io.EOF when the stream is exhausted.
type EntryStream interface {
	Next() (*Entry, error)
}

// TarStream reads entries from a tar archive.
type TarStream struct {
	tr *tar.Reader
}

// NewTarStream returns a stream of the entries in the
// (uncompressed) tar archive read from r.
func NewTarStream(r io.Reader) *TarStream {
	return &TarStream{tr: tar.NewReader(r)}
}

func (s *TarStream) Next() (*Entry, error) {
	for {
		hdr, err := s.tr.Next()
		if errors.Is(err, tar.ErrInsecurePath) && hdr != nil {
			// confinement is checked against the extraction root
			// after selection, not against the working directory
			err = nil
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			// ignore the pax global header from git-generated tarballs
			continue
		}
		return &Entry{
			Name:       hdr.Name,
			Kind:       kindOf(hdr.Typeflag),
			LinkTarget: hdr.Linkname,
			Mode:       hdr.FileInfo().Mode(),
			Header:     hdr,
			Body:       s.tr,
		}, nil
	}
}

func kindOf(flag byte) EntryKind {
	switch flag {
	case tar.TypeReg, tar.TypeRegA:
		return KindFile
	case tar.TypeDir:
		return KindDir
	case tar.TypeSymlink:
		return KindSymlink
	case tar.TypeLink:
		return KindHardlink
	default:
		return KindOther
	}
}

// Interface guard
var _ EntryStream = (*TarStream)(nil)
