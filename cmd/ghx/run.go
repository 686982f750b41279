package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ghx-dev/ghx"
	"github.com/ghx-dev/ghx/common"
	"github.com/ghx-dev/ghx/github"
	"github.com/ghx-dev/ghx/internal/config"
)

type opener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

type runner struct {
	out      io.Writer
	logger   *zap.SugaredLogger
	prompter ghx.Prompter
	fetcher  opener
}

func (r *runner) run(ctx context.Context, rawURL string) error {
	repo, err := github.ParseURL(rawURL)
	if err != nil {
		return err
	}
	r.logger.Debugf("extracting %s from %s", repo.Path, repo.ArchiveURL())

	body, err := r.fetcher.Open(ctx, repo.ArchiveURL())
	if err != nil {
		return fmt.Errorf("downloading %s: %w", repo.ArchiveURL(), err)
	}
	defer body.Close()

	tarball, codec, err := ghx.Decompress(body)
	if err != nil {
		return fmt.Errorf("reading %s: %w", repo.ArchiveURL(), err)
	}
	defer tarball.Close()
	r.logger.Debugf("archive compression: %s", codec)

	x := &ghx.Extractor{
		Subtree: repo.Subtree(),
		Conflicts: &ghx.ConflictState{
			AlwaysOverwrite: config.AlwaysOverwrite(),
			AlwaysSkip:      config.AlwaysSkip(),
		},
		Prompter: r.prompter,
		Logger:   r.logger,
	}
	stream := ghx.NewTarStream(tarball)

	var res ghx.Result
	if config.TarOnly() {
		res, err = r.repack(ctx, x, stream, repo)
	} else {
		x.Root = config.Path()
		if x.Root == "" {
			x.Root = repo.DefaultDestination()
		}
		res, err = x.Extract(ctx, stream)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%d files extracted !\n", res.Files)
	fmt.Fprintf(r.out, "%d directories extracted !\n", res.Dirs)
	return nil
}

func (r *runner) repack(ctx context.Context, x *ghx.Extractor, stream ghx.EntryStream, repo github.Repo) (ghx.Result, error) {
	name, codec, err := archivePath(repo.Name, config.Path(), config.TarFormat())
	if err != nil {
		return ghx.Result{}, err
	}

	if err := common.Mkdir(filepath.Dir(name)); err != nil {
		return ghx.Result{}, err
	}
	f, err := os.Create(name)
	if err != nil {
		return ghx.Result{}, fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	w, err := codec.OpenWriter(f)
	if err != nil {
		return ghx.Result{}, fmt.Errorf("%s: opening %s writer: %w", name, codec, err)
	}
	res, err := x.Repack(ctx, stream, w)
	if err != nil {
		w.Close()
		return res, err
	}
	if err := w.Close(); err != nil {
		return res, fmt.Errorf("%s: closing %s writer: %w", name, codec, err)
	}
	if err := f.Close(); err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	r.logger.Infof("wrote %s", name)
	return res, nil
}

// archivePath returns where a repacked archive of repo goes and how
// it is compressed. A dest ending in a known archive extension is
// the file itself and its extension picks the compression; any other
// dest is the directory the archive is created in.
func archivePath(repo, dest, format string) (string, ghx.Codec, error) {
	if c, ok := codecForFile(dest); ok {
		return dest, c, nil
	}

	c, err := ghx.CodecByName(format)
	if err != nil {
		return "", ghx.Codec{}, err
	}
	name := repo + ".tar" + c.Extension
	if dest != "" {
		name = filepath.Join(dest, name)
	}
	return name, c, nil
}

func codecForFile(name string) (ghx.Codec, bool) {
	lower := strings.ToLower(name)
	for _, c := range ghx.Codecs() {
		if strings.HasSuffix(lower, ".tar"+c.Extension) {
			return c, true
		}
	}
	if strings.HasSuffix(lower, ".tar") {
		return ghx.Tar, true
	}
	return ghx.Codec{}, false
}
