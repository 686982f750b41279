package ghx

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/mholt/lzip-go"
	"github.com/pierrec/lz4/v4"
	fastxz "github.com/therootcompany/xz"
	"github.com/ulikunitz/xz"
)

var (
	// ErrUnknownCodec is returned for a compression name that is not registered.
	ErrUnknownCodec = errors.New("unknown compression format")

	// ErrNoCodec is returned when a stream is neither a known
	// compression format nor a plain tar archive.
	ErrNoCodec = errors.New("no compression format matched")
)

// Codec is a compression format a tarball can be wrapped in.
type Codec struct {
	// Name is the short name used on the command line, e.g. "gz".
	Name string

	// Extension is appended to ".tar" to name output archives.
	Extension string

	// magic number at the beginning of the stream; formats without
	// one can only be chosen by name
	magic []byte

	open   func(r io.Reader) (io.ReadCloser, error)
	create func(w io.Writer) (io.WriteCloser, error)
}

// OpenReader wraps r with a reader that decompresses what is read.
// The reader must be closed when reading is finished.
func (c Codec) OpenReader(r io.Reader) (io.ReadCloser, error) {
	if c.open == nil {
		return io.NopCloser(r), nil
	}
	return c.open(r)
}

// OpenWriter wraps w with a writer that compresses what is written.
// The writer must be closed when writing is finished.
func (c Codec) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	if c.create == nil {
		return nopWriteCloser{w}, nil
	}
	return c.create(w)
}

func (c Codec) String() string { return c.Name }

// Tar is the identity codec for archives that are not compressed.
var Tar = Codec{Name: "tar"}

var codecs = []Codec{
	{
		Name:      "gz",
		Extension: ".gz",
		magic:     []byte{0x1f, 0x8b},
		// GitHub tarballs are gzipped and can be large; pgzip
		// decodes ahead on its own goroutines
		open: func(r io.Reader) (io.ReadCloser, error) { return pgzip.NewReader(r) },
		create: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, gzip.DefaultCompression)
		},
	},
	{
		Name:      "zst",
		Extension: ".zst",
		magic:     []byte{0x28, 0xb5, 0x2f, 0xfd},
		open: func(r io.Reader) (io.ReadCloser, error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zr.IOReadCloser(), nil
		},
		create: func(w io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(w) },
	},
	{
		Name:      "xz",
		Extension: ".xz",
		magic:     []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
		open: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := fastxz.NewReader(r, 0)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
		create: func(w io.Writer) (io.WriteCloser, error) { return xz.NewWriter(w) },
	},
	{
		Name:      "bz2",
		Extension: ".bz2",
		magic:     []byte("BZh"),
		open:      func(r io.Reader) (io.ReadCloser, error) { return bzip2.NewReader(r, nil) },
		create: func(w io.Writer) (io.WriteCloser, error) {
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
		},
	},
	{
		Name:      "lz4",
		Extension: ".lz4",
		magic:     []byte{0x04, 0x22, 0x4d, 0x18},
		open:      func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(lz4.NewReader(r)), nil },
		create:    func(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil },
	},
	{
		Name:      "sz",
		Extension: ".sz",
		magic:     []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}, // "sNaPpY" stream identifier
		open:      func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(s2.NewReader(r)), nil },
		create: func(w io.Writer) (io.WriteCloser, error) {
			return s2.NewWriter(w, s2.WriterSnappyCompat()), nil
		},
	},
	{
		Name:      "lz",
		Extension: ".lz",
		magic:     []byte("LZIP"),
		open: func(r io.Reader) (io.ReadCloser, error) {
			lzr, err := lzip.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(lzr), nil
		},
		create: func(w io.Writer) (io.WriteCloser, error) { return lzip.NewWriter(w), nil },
	},
	{
		Name:      "br",
		Extension: ".br",
		open:      func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(brotli.NewReader(r)), nil },
		create: func(w io.Writer) (io.WriteCloser, error) {
			return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
		},
	},
}

// Codecs returns the registered compression formats.
func Codecs() []Codec {
	return append([]Codec(nil), codecs...)
}

// CodecByName looks up a compression format by its short name.
// A leading dot or "tar." is ignored, and "tar" itself selects no
// compression.
func CodecByName(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	name = strings.TrimPrefix(name, "tar.")
	if name == Tar.Name {
		return Tar, nil
	}
	for _, c := range codecs {
		if c.Name == name {
			return c, nil
		}
	}
	return Codec{}, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Decompress sniffs the header of r and returns a reader of the tar
// archive inside, along with the codec that matched. Uncompressed tar
// archives are passed through. The caller remains responsible for
// closing r.
func Decompress(r io.Reader) (io.ReadCloser, Codec, error) {
	br := bufio.NewReaderSize(r, tarHeaderSize)

	// a short stream is not an error here; matching just fails
	head, err := br.Peek(tarHeaderSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, Codec{}, err
	}

	for _, c := range codecs {
		if len(c.magic) > 0 && bytes.HasPrefix(head, c.magic) {
			rc, err := c.OpenReader(br)
			if err != nil {
				return nil, c, fmt.Errorf("opening %s stream: %w", c.Name, err)
			}
			return rc, c, nil
		}
	}
	if isTarHeader(head) {
		return io.NopCloser(br), Tar, nil
	}
	return nil, Codec{}, ErrNoCodec
}

const (
	tarHeaderSize  = 512
	tarMagicOffset = 257
)

func isTarHeader(head []byte) bool {
	if len(head) < tarMagicOffset+5 {
		return false
	}
	// both "ustar\x00" (POSIX) and "ustar  " (GNU) start with this
	return bytes.Equal(head[tarMagicOffset:tarMagicOffset+5], []byte("ustar"))
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
