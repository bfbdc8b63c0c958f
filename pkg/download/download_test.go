package download

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func gzipBytes(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchAndUnpack(t *testing.T) {
	const content = "protein1 protein2 combined_score\n9606.A 9606.B 900\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipBytes(t, content))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "links.txt")
	d := New(nil)
	if err := d.FetchAndUnpack(context.Background(), Source{URL: server.URL, Dest: dest}); err != nil {
		t.Fatalf("FetchAndUnpack: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read unpacked file: %v", err)
	}
	if string(data) != content {
		t.Errorf("unpacked content = %q, want %q", data, content)
	}

	// The intermediate .gz must be gone
	if _, err := os.Stat(dest + ".gz"); !os.IsNotExist(err) {
		t.Errorf("expected %s.gz to be removed, stat err = %v", dest, err)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := New(nil)
	err := d.Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("expected ErrHTTPStatus, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", statusErr.StatusCode)
	}
}

func TestFetchAllAbortsOnFirstFailure(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	dir := t.TempDir()
	sources := []Source{
		{URL: server.URL + "/a", Dest: filepath.Join(dir, "a")},
		{URL: server.URL + "/b", Dest: filepath.Join(dir, "b")},
	}

	d := New(nil)
	if err := d.FetchAll(context.Background(), sources); err == nil {
		t.Fatal("expected error")
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 (abort on first failure)", hits)
	}
}

func TestUnpackRejectsCorruptGzip(t *testing.T) {
	dir := t.TempDir()
	gzPath := filepath.Join(dir, "bad.gz")
	if err := os.WriteFile(gzPath, []byte("this is not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(nil)
	if err := d.Unpack(gzPath, filepath.Join(dir, "bad")); err == nil {
		t.Fatal("expected error for corrupt gzip input")
	}
}
