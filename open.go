package hfedash

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// OpenDataFile opens a local path (with ~ expansion) or, when client is
// non-nil, a gs://bucket/object URL, and transparently decompresses gzip,
// zip, xz, zlib and bzip2 streams. The caller must Close the result.
func OpenDataFile(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	raw, err := openRaw(ctx, path, client)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(raw)

	// Peek returns what it could along with an error on short files, which
	// is fine for signature detection.
	head, _ := br.Peek(6)

	var rdr io.Reader
	switch dt := DetectDataType(head); dt {
	case DataTypeGzip:
		rdr, err = gzip.NewReader(br)
	case DataTypeZip:
		// Only the first file in the archive is read
		zr := zipstream.NewReader(br)
		_, err = zr.Next()
		rdr = zr
	case DataTypeBZip2:
		rdr = bzip2.NewReader(br)
	case DataTypeXZ:
		rdr, err = xz.NewReader(br, 0)
	case DataTypeZ:
		rdr, err = zlib.NewReader(br)
	default:
		rdr = br
	}
	if err != nil {
		raw.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return &stackedReadCloser{Reader: rdr, underlying: raw}, nil
}

func openRaw(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, fmt.Errorf("%s: a storage client is required for gs:// paths", path)
		}

		// Detect the bucket and the path to the actual file
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
		}

		rdr, err := client.Bucket(pathParts[0]).Object(pathParts[1]).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}

		return rdr, nil
	}

	local, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// stackedReadCloser reads from the (possibly decompressing) Reader and closes
// both it, when it is closable, and the underlying source.
type stackedReadCloser struct {
	io.Reader
	underlying io.Closer
}

func (s *stackedReadCloser) Close() error {
	if c, ok := s.Reader.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.underlying.Close()
			return err
		}
	}

	return s.underlying.Close()
}
