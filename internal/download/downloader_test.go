package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/chancrawl/internal/fetch"
)

// mapFetcher serves canned bodies keyed by URL.
func mapFetcher(bodies map[string]string) fetch.Fetcher {
	return fetch.FetcherFunc(func(_ context.Context, rawURL string) ([]byte, error) {
		body, ok := bodies[rawURL]
		if !ok {
			return nil, &fetch.HTTPError{StatusCode: 404, URL: rawURL}
		}
		return []byte(body), nil
	})
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() second call error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", dir)
	}
}

func TestEnsureDirOverFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); err == nil {
		t.Error("expected error when a file is in the way")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://i.4cdn.org/g/1700000000001.jpg", want: "1700000000001.jpg"},
		{url: "https://i.4cdn.org/g/1700000000002s.png?x=1", want: "1700000000002s.png"},
		{url: "https://i.4cdn.org/g/", wantErr: true},
		{url: "https://i.4cdn.org", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := FileName(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrNoFileName) {
					t.Errorf("FileName() error = %v, want ErrNoFileName", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FileName() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("writes every file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		f := mapFetcher(map[string]string{
			"https://i.4cdn.org/g/1.jpg":  "one",
			"https://i.4cdn.org/g/2.png":  "two!",
			"https://i.4cdn.org/g/3.webm": "three",
		})
		var progress bytes.Buffer
		d := New(f, WithProgress(&progress))

		res, err := d.Save(context.Background(), []string{
			"https://i.4cdn.org/g/1.jpg",
			"https://i.4cdn.org/g/2.png",
			"https://i.4cdn.org/g/3.webm",
		}, dir)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.Written != 3 || res.Failed != 0 || res.Bytes != 12 {
			t.Errorf("Save() = %+v, want 3 written, 0 failed, 12 bytes", res)
		}

		got, err := os.ReadFile(filepath.Join(dir, "2.png"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "two!" {
			t.Errorf("2.png = %q, want %q", got, "two!")
		}

		out := progress.String()
		for _, want := range []string{
			"Downloading image https://i.4cdn.org/g/1.jpg\n",
			"Writing image to " + filepath.Join(dir, "1.jpg") + "\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("progress missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("overwrites existing files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := filepath.Join(dir, "1.jpg")
		if err := os.WriteFile(target, []byte("old contents"), 0o600); err != nil {
			t.Fatal(err)
		}

		d := New(mapFetcher(map[string]string{"https://i.4cdn.org/g/1.jpg": "new"}))
		if _, err := d.Save(context.Background(), []string{"https://i.4cdn.org/g/1.jpg"}, dir); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "new" {
			t.Errorf("1.jpg = %q, want %q", got, "new")
		}
	})

	t.Run("empty list still creates directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "empty")
		res, err := New(mapFetcher(nil)).Save(context.Background(), nil, dir)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.Written != 0 {
			t.Errorf("Written = %d, want 0", res.Written)
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("directory not created: %v", err)
		}
	})

	t.Run("fetch failure is fatal by default", func(t *testing.T) {
		t.Parallel()

		var failed atomic.Int32
		d := New(mapFetcher(nil), WithHooks(nil, func(error) { failed.Add(1) }))
		_, err := d.Save(context.Background(), []string{"https://i.4cdn.org/g/missing.jpg"}, t.TempDir())
		if !fetch.IsNotFound(err) {
			t.Errorf("Save() error = %v, want not found", err)
		}
		if failed.Load() != 1 {
			t.Errorf("onFailed called %d times, want 1", failed.Load())
		}
	})

	t.Run("continue on error counts failures", func(t *testing.T) {
		t.Parallel()

		var saved atomic.Int64
		f := mapFetcher(map[string]string{"https://i.4cdn.org/g/ok.gif": "gif"})
		d := New(f,
			WithContinueOnError(true),
			WithHooks(func(size int) { saved.Add(int64(size)) }, nil),
		)
		res, err := d.Save(context.Background(), []string{
			"https://i.4cdn.org/g/missing.jpg",
			"https://i.4cdn.org/g/ok.gif",
		}, t.TempDir())
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.Written != 1 || res.Failed != 1 {
			t.Errorf("Save() = %+v, want 1 written and 1 failed", res)
		}
		if saved.Load() != 3 {
			t.Errorf("onSaved bytes = %d, want 3", saved.Load())
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(mapFetcher(map[string]string{"https://i.4cdn.org/g/1.jpg": "x"})).
			Save(ctx, []string{"https://i.4cdn.org/g/1.jpg"}, t.TempDir())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Save() error = %v, want context.Canceled", err)
		}
	})
}
