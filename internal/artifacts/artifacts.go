// Package artifacts captures what the browser showed when a scenario failed:
// a screenshot, the page HTML, and a small JSON record. Files are written
// locally and, when an uploader is configured, copied to object storage.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/kuitang/outliner-e2e/internal/obs"
)

// Source is the page state a capture reads from.
type Source interface {
	Screenshot() ([]byte, error)
	Content() (string, error)
	Title() (string, error)
	URL() string
}

// Uploader stores a copy of each artifact. *s3client.Client satisfies it.
type Uploader interface {
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
}

// Meta is the JSON record written next to the screenshot.
type Meta struct {
	Name       string    `json:"name"`
	RunID      string    `json:"run_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Error      string    `json:"error,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// Store writes artifacts for one run.
type Store struct {
	dir      string
	runID    string
	uploader Uploader
	now      func() time.Time
}

// New returns a Store rooted at dir/runID. uploader may be nil.
func New(dir, runID string, uploader Uploader) *Store {
	return &Store{
		dir:      dir,
		runID:    runID,
		uploader: uploader,
		now:      time.Now,
	}
}

// RunDir is the local directory holding this run's files.
func (s *Store) RunDir() string {
	return filepath.Join(s.dir, s.runID)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName turns a scenario or step name into a file name stem.
func SafeName(name string) string {
	cleaned := strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-.")
	if cleaned == "" {
		return "artifact"
	}
	return cleaned
}

// Capture records src under name. Each file is attempted independently;
// the paths that were written are returned along with any joined errors.
func (s *Store) Capture(ctx context.Context, name string, src Source, cause error) ([]string, error) {
	stem := SafeName(name)
	if err := os.MkdirAll(s.RunDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	var written []string
	var errList []error
	save := func(ext, contentType string, data []byte) {
		fileName := stem + ext
		path := filepath.Join(s.RunDir(), fileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			errList = append(errList, fmt.Errorf("write %s: %w", fileName, err))
			return
		}
		written = append(written, path)
		if s.uploader == nil {
			return
		}
		key := s.ObjectKey(fileName)
		if err := s.uploader.PutObject(ctx, key, data, contentType); err != nil {
			errList = append(errList, fmt.Errorf("upload %s: %w", key, err))
		}
	}

	if png, err := src.Screenshot(); err != nil {
		errList = append(errList, fmt.Errorf("screenshot: %w", err))
	} else {
		save(".png", "image/png", png)
	}

	if content, err := src.Content(); err != nil {
		errList = append(errList, fmt.Errorf("page content: %w", err))
	} else {
		save(".html", "text/html; charset=utf-8", []byte(content))
	}

	meta := Meta{
		Name:       name,
		RunID:      s.runID,
		URL:        src.URL(),
		CapturedAt: s.now().UTC(),
	}
	if title, err := src.Title(); err == nil {
		meta.Title = title
	}
	if cause != nil {
		meta.Error = cause.Error()
	}
	if data, err := json.MarshalIndent(meta, "", "  "); err != nil {
		errList = append(errList, fmt.Errorf("encode meta: %w", err))
	} else {
		save(".json", "application/json", data)
	}

	joined := errors.Join(errList...)
	obs.From(ctx).Info("artifacts captured", "name", name, "files", len(written), "error", joined)
	return written, joined
}

// ObjectKey is the object storage key for a file of this run.
func (s *Store) ObjectKey(fileName string) string {
	return "runs/" + s.runID + "/" + fileName
}
