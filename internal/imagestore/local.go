package imagestore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores images under a directory opened as an os.Root, so no stored
// or requested path can escape it.
type Local struct {
	root   *os.Root
	policy Policy
	log    *slog.Logger
}

// NewLocal creates dir if needed and opens it as the storage root.
func NewLocal(dir string, policy Policy, log *slog.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagestore.NewLocal: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("imagestore.NewLocal: %w", err)
	}
	return &Local{root: root, policy: policy, log: log}, nil
}

func (l *Local) Save(ctx context.Context, file Upload, folder string) (string, error) {
	img, err := l.policy.read(file)
	if err != nil {
		return "", err
	}
	key, err := objectKey(folder, img.ext)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.FromSlash(key)
	if err := l.root.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("imagestore.Local.Save: %w", err)
	}
	if err := l.root.WriteFile(name, img.data, 0o644); err != nil {
		return "", fmt.Errorf("imagestore.Local.Save: %w", err)
	}
	return key, nil
}

func (l *Local) Delete(ctx context.Context, p string) bool {
	if strings.TrimSpace(p) == "" {
		return false
	}
	if err := l.root.Remove(filepath.FromSlash(strings.TrimLeft(p, "/"))); err != nil {
		l.log.WarnContext(ctx, "image delete failed", "path", p, "error", err)
		return false
	}
	return true
}

func (l *Local) URL(p string) string {
	if p == "" {
		return ""
	}
	return rootRelative(p)
}

// Handler serves stored files by their root-relative URL, e.g.
// /images/sightings/<uuid>.jpg. Directory listings are not served.
func (l *Local) Handler() http.Handler {
	files := http.FileServerFS(l.root.FS())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || path.Ext(r.URL.Path) == "" {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Close releases the storage root.
func (l *Local) Close() error {
	return l.root.Close()
}
