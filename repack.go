package ghx

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
)

// Repack copies the entries of the subtree from stream into a new
// tar archive written to out, under their rewritten names. Nothing
// is written to the file system, so entries are copied verbatim:
// no security or conflict checks apply. The caller is responsible
// for any compression around out and for closing it.
func (x *Extractor) Repack(ctx context.Context, stream EntryStream, out io.Writer) (Result, error) {
	var res Result

	if err := x.Subtree.Validate(); err != nil {
		return res, err
	}
	log := x.logger()

	tw := tar.NewWriter(out)

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
		if !ok {
			continue
		}
		e.Name = rel

		if err := writeEntry(tw, e); err != nil {
			return res, err
		}
		switch e.Kind {
		case KindDir:
			res.Dirs++
		case KindFile:
			res.Files++
		}
		log.Infof("repacked %s", rel)
	}

	if err := tw.Close(); err != nil {
		return res, fmt.Errorf("finishing archive: %w", err)
	}
	return res, nil
}

func writeEntry(tw *tar.Writer, e *Entry) error {
	if e.Header == nil {
		return fmt.Errorf("%s: entry has no tar header", e.Name)
	}
	hdr := *e.Header
	// records like "path" would override the rewritten name
	hdr.PAXRecords = nil
	hdr.Format = tar.FormatUnknown
	hdr.Name = e.Name
	if e.Kind == KindDir {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(&hdr); err != nil {
		return fmt.Errorf("%s: writing header: %w", e.Name, err)
	}

	// only proceed to write a file body if there is actually a body
	// (for example, directories and links don't have a body)
	if hdr.Typeflag != tar.TypeReg || e.Body == nil {
		return nil
	}
	if _, err := io.Copy(tw, e.Body); err != nil {
		return fmt.Errorf("%s: writing data: %w", e.Name, err)
	}
	return nil
}
