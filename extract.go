// Package ghx extracts one file or directory subtree of a GitHub
// repository tarball to disk.
//
// A pass reads the archive once, in order. Each entry is selected
// against a Subtree and renamed relative to the extraction root,
// checked so that it cannot be written outside of that root (links
// are never extracted), and then written unless it conflicts with an
// existing file that the user chooses to keep.
//
// The archive itself comes from any EntryStream; NewTarStream reads
// plain tar, and Decompress unwraps the compression formats in
// Codecs.
package ghx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"go.uber.org/zap"

	"github.com/ghx-dev/ghx/common"
)

// Result counts what a pass over an archive produced.
type Result struct {
	Files int
	Dirs  int
}

// Extractor writes the entries of one subtree of a repository
// archive to disk.
type Extractor struct {
	// Subtree selects and rewrites entries.
	Subtree Subtree

	// Root is the directory entries are extracted into. It is
	// created if needed and does not have to be empty.
	Root string

	// Conflicts carries the sticky overwrite preferences for the
	// run. A nil value is replaced by a fresh state.
	Conflicts *ConflictState

	// Prompter is asked when a destination already exists and no
	// sticky preference applies.
	Prompter Prompter

	// Logger receives per-entry messages: skipped and extracted
	// entries at info, selection decisions at debug.
	Logger *zap.SugaredLogger
}

// Extract reads stream once, in order, and writes every selected
// and secure entry below x.Root. Entries outside the subtree and
// entries that would escape the root are dropped without error.
// The caller keeps ownership of stream.
//
// A failure to create or write a destination aborts the pass; what
// was extracted so far is left in place.
func (x *Extractor) Extract(ctx context.Context, stream EntryStream) (Result, error) {
	var res Result

	if err := x.Subtree.Validate(); err != nil {
		return res, err
	}
	if x.Conflicts == nil {
		x.Conflicts = new(ConflictState)
	}
	log := x.logger()

	if err := common.Mkdir(x.Root); err != nil {
		return res, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err // honor context cancellation
		}

		e, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("advancing to next entry: %w", err)
		}

		rel, ok := x.Subtree.Select(e.Name)
		log.Debugf("path (%t) %s => %s", ok, e.Name, x.Subtree.Path)
		if !ok {
			continue
		}
		e.Name = rel

		if !IsPathSecure(x.Root, e) {
			log.Infof("path not secure: %s (%s)", rel, e.Kind)
			continue
		}

		dest, err := x.destination(rel)
		if common.IsIllegalPathError(err) {
			log.Infof("path not secure: %v", err)
			continue
		}
		if err != nil {
			return res, err
		}

		exists, err := common.Exists(dest)
		if err != nil {
			return res, fmt.Errorf("%s: checking destination: %w", dest, err)
		}
		proceed, err := x.decide(exists, rel)
		if err != nil {
			return res, err
		}
		if !proceed {
			log.Infof("skipped %s", rel)
			continue
		}

		switch e.Kind {
		case KindDir:
			if err := common.Mkdir(dest); err != nil {
				return res, err
			}
			res.Dirs++
		case KindFile:
			if err := common.WriteNewFile(dest, e.Body, e.Mode); err != nil {
				return res, err
			}
			res.Files++
		default:
			log.Debugf("not extracting %s of kind %s", rel, e.Kind)
			continue
		}
		log.Infof("extracted %s", rel)
	}

	return res, nil
}

func (x *Extractor) decide(exists bool, name string) (bool, error) {
	switch x.Conflicts.Resolve(exists) {
	case Proceed:
		return true, nil
	case Skip:
		return false, nil
	default:
		return x.Conflicts.Confirm(x.Prompter, name)
	}
}

// destination returns the on-disk path for rel. Symbolic links
// already present below the root are resolved as if the root were
// the file system root, so they cannot carry a write outside of it.
func (x *Extractor) destination(rel string) (string, error) {
	dest, ok := securePath(x.Root, rel)
	if !ok {
		return "", &common.IllegalPathError{Filename: rel}
	}
	root, err := filepath.Abs(x.Root)
	if err != nil {
		return "", err
	}
	joined, err := securejoin.SecureJoin(root, filepath.FromSlash(rel))
	if err != nil {
		return "", fmt.Errorf("%s: resolving destination: %w", dest, err)
	}
	if !Confined(root, joined) {
		return "", &common.IllegalPathError{AbsolutePath: joined, Filename: rel, Err: errors.New("resolves outside of the extraction root")}
	}
	return joined, nil
}

func (x *Extractor) logger() *zap.SugaredLogger {
	if x.Logger == nil {
		x.Logger = zap.NewNop().Sugar()
	}
	return x.Logger
}
