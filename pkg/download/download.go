// Package download fetches the four gzip STRING source files over HTTP and
// unpacks them into the data directory.
package download

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dd0wney/cluso-stringload/pkg/logging"
)

// ErrHTTPStatus means the server answered with a non-success status code.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// StatusError carries the URL and status of a failed download.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %v: %d", e.URL, ErrHTTPStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrHTTPStatus
}

// Source pairs a remote gzip URL with the local path of the unpacked file.
type Source struct {
	URL  string
	Dest string // unpacked destination; the temporary .gz lives at Dest+".gz"
}

// Downloader fetches and unpacks source files sequentially.
type Downloader struct {
	client *http.Client
	logger logging.Logger
}

// New creates a downloader. A nil logger disables logging.
func New(logger logging.Logger) *Downloader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Downloader{
		client: &http.Client{Timeout: 30 * time.Minute},
		logger: logger,
	}
}

// SetClient overrides the HTTP client (used by tests).
func (d *Downloader) SetClient(c *http.Client) {
	d.client = c
}

// FetchAll downloads and unpacks every source in order, aborting on the first
// failure: a requested file that cannot be fetched invalidates the run.
func (d *Downloader) FetchAll(ctx context.Context, sources []Source) error {
	for _, src := range sources {
		if err := d.FetchAndUnpack(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

// FetchAndUnpack downloads src.URL to src.Dest+".gz", gunzips it to src.Dest,
// and removes the compressed file.
func (d *Downloader) FetchAndUnpack(ctx context.Context, src Source) error {
	gzPath := src.Dest + ".gz"
	if err := d.Fetch(ctx, src.URL, gzPath); err != nil {
		return err
	}
	return d.Unpack(gzPath, src.Dest)
}

// Fetch downloads url into dest, streaming the body to disk.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) error {
	timer := logging.StartTimer(d.logger, "downloaded", logging.URL(url), logging.File(dest))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	timer.End()
	return nil
}

// Unpack gunzips gzPath into dest and removes gzPath on success.
func (d *Downloader) Unpack(gzPath, dest string) error {
	d.logger.Debug("unpacking", logging.File(gzPath))

	in, err := os.Open(gzPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", gzPath, err)
	}

	gz, err := gzip.NewReader(in)
	if err != nil {
		in.Close()
		return fmt.Errorf("gzip %s: %w", gzPath, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		gz.Close()
		in.Close()
		return fmt.Errorf("create %s: %w", dest, err)
	}

	_, copyErr := io.Copy(out, gz)
	gz.Close()
	in.Close()
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return fmt.Errorf("decompress %s: %w", gzPath, copyErr)
	}

	if err := os.Remove(gzPath); err != nil {
		return fmt.Errorf("remove %s: %w", gzPath, err)
	}
	return nil
}
