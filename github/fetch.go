package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// UserAgent is sent with every request.
	UserAgent = "ghx"

	defaultRetries = 3
	defaultTimeout = 5 * time.Minute
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Fetcher downloads repository archives.
type Fetcher struct {
	client    *resty.Client
	token     string
	retries   uint64
	cacheFile string
	logger    *zap.SugaredLogger

	newBackOff func() backoff.BackOff
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the resty client used for requests.
func WithClient(c *resty.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithToken authenticates requests, which gives access to private
// repositories and a higher rate limit.
func WithToken(token string) Option {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithRetries sets how many times a failed download is retried.
// Client errors (4xx) are never retried.
func WithRetries(n uint64) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithCacheFile makes the Fetcher reuse the archive stored at path
// instead of downloading, and store the download there when it does
// not exist yet.
func WithCacheFile(path string) Option {
	return func(f *Fetcher) {
		f.cacheFile = path
	}
}

// WithLogger sets the logger for download progress messages.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher returns a Fetcher with a default client, three retries
// and no cache.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  newClient(),
		retries: defaultRetries,
		logger:  zap.NewNop().Sugar(),

		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = newClient()
	}
	if f.token != "" {
		f.client.SetAuthToken(f.token)
	}
	return f
}

func newClient() *resty.Client {
	return resty.New().
		SetHeader("User-Agent", UserAgent).
		SetTimeout(defaultTimeout)
}

// Open returns the archive at url as a stream. The caller must
// close it.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if f.cacheFile == "" {
		return f.get(ctx, url)
	}

	file, err := os.Open(f.cacheFile)
	if err == nil {
		f.logger.Debugf("using cached archive %s", f.cacheFile)
		return file, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err := f.download(ctx, url, f.cacheFile); err != nil {
		return nil, err
	}
	return os.Open(f.cacheFile)
}

// download stores the archive at url in dest, atomically.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	body, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".ghx-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%s: writing cache: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	f.logger.Debugf("cached archive in %s", dest)
	return nil
}

// get issues the request, retrying transport errors and server
// errors with exponential backoff, and returns the unread body.
func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	var body io.ReadCloser

	op := func() error {
		f.logger.Debugf("GET %s", url)
		res, err := f.client.R().
			SetContext(ctx).
			SetDoNotParseResponse(true).
			Get(url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		code := res.StatusCode()
		if code >= 200 && code < 300 {
			body = res.RawBody()
			return nil
		}
		if raw := res.RawBody(); raw != nil {
			raw.Close()
		}
		serr := &StatusError{URL: url, Code: code, Status: res.Status()}
		if code < http.StatusInternalServerError {
			return backoff.Permanent(serr)
		}
		return serr
	}

	notify := func(err error, wait time.Duration) {
		f.logger.Infof("download failed, retrying in %s: %v", wait, err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), f.retries), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}
