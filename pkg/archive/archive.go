// Package archive compresses output tables into snappy-framed .snap files and
// optionally uploads them to S3, so every load run leaves a retrievable copy of
// the exact table it fed to the CX writer.
package archive

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-stringload/pkg/logging"
)

// chunkSize is the uncompressed frame size. Snappy works best on blocks in the
// tens of kilobytes.
const chunkSize = 64 * 1024

// Frame format: [DataLen:4][Data:N][Checksum:4], checksum over compressed data.

// Compress writes a snappy-framed copy of src to dst.
func Compress(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	w := bufio.NewWriter(out)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := io.ReadFull(in, buf)
		if n > 0 {
			if err := writeFrame(w, buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read %s: %w", src, readErr)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", dst, err)
	}
	return nil
}

func writeFrame(w *bufio.Writer, data []byte) error {
	compressed := snappy.Encode(nil, data)
	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed))
}

// Decompress reconstructs the original file from a snappy-framed archive.
func Decompress(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	r := bufio.NewReader(in)
	for {
		var frameLen uint32
		if err := binary.Read(r, binary.BigEndian, &frameLen); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read frame length: %w", err)
		}

		compressed := make([]byte, frameLen)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		var checksum uint32
		if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
			return fmt.Errorf("read checksum: %w", err)
		}
		if crc32.ChecksumIEEE(compressed) != checksum {
			return fmt.Errorf("frame checksum mismatch in %s", src)
		}

		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}
}

// Uploader puts one archived file into remote storage under a key.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// Archiver compresses output files and hands them to an Uploader.
type Archiver struct {
	uploader Uploader
	prefix   string
	logger   logging.Logger
}

// NewArchiver creates an archiver. A nil uploader means compress-only.
func NewArchiver(uploader Uploader, prefix string, logger logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Archiver{uploader: uploader, prefix: prefix, logger: logger}
}

// Archive compresses src next to itself (src + ".snap") and, when an uploader
// is configured, uploads the archive under prefix/basename.
func (a *Archiver) Archive(ctx context.Context, src string) (string, error) {
	dst := src + ".snap"
	if err := Compress(src, dst); err != nil {
		return "", err
	}
	a.logger.Info("archive written", logging.File(dst))

	if a.uploader == nil {
		return dst, nil
	}

	f, err := os.Open(dst)
	if err != nil {
		return dst, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	key := path.Join(a.prefix, filepath.Base(dst))
	if err := a.uploader.Upload(ctx, key, f); err != nil {
		return dst, fmt.Errorf("upload %s: %w", key, err)
	}
	a.logger.Info("archive uploaded", logging.String("key", key))
	return dst, nil
}
