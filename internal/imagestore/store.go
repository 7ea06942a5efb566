// Package imagestore persists sighting photographs. Callers see only the
// Store interface; the local-disk and S3 backends share one upload policy.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// DefaultMaxBytes is the upload size limit used when none is configured.
const DefaultMaxBytes int64 = 10 << 20

// Upload is an image received from a client.
// Size is the client-declared size; the content is re-checked while reading.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Store saves, deletes and addresses stored images. Paths are relative,
// slash-separated and never empty once saved.
type Store interface {
	// Save validates and stores the upload under folder and returns its
	// relative path. Policy violations wrap domain.ErrUnsupportedMedia.
	Save(ctx context.Context, file Upload, folder string) (string, error)

	// Delete removes a stored image and reports whether it did. Errors are
	// logged, not returned.
	Delete(ctx context.Context, path string) bool

	// URL returns the address of a stored image: either absolute, or
	// root-relative for the HTTP layer to prefix with its origin.
	URL(path string) string
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Policy is the accepted shape of an upload.
type Policy struct {
	MaxBytes int64
}

// image is an upload that passed the policy.
type image struct {
	data        []byte
	ext         string
	contentType string
}

// read enforces the policy and buffers the content. Uploads are small
// enough to hold in memory, and sniffing needs the leading bytes anyway.
func (p Policy) read(u Upload) (image, error) {
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if u.Content == nil {
		return image{}, fmt.Errorf("%w: image file is required", domain.ErrUnsupportedMedia)
	}

	ext := strings.ToLower(path.Ext(u.Filename))
	if !allowedExtensions[ext] {
		return image{}, fmt.Errorf("%w: file extension %q is not allowed", domain.ErrUnsupportedMedia, ext)
	}
	if u.Size > limit {
		return image{}, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrUnsupportedMedia, limit)
	}

	data, err := io.ReadAll(io.LimitReader(u.Content, limit+1))
	if err != nil {
		return image{}, fmt.Errorf("imagestore: read upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return image{}, fmt.Errorf("%w: image file is empty", domain.ErrUnsupportedMedia)
	case int64(len(data)) > limit:
		return image{}, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrUnsupportedMedia, limit)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return image{}, fmt.Errorf("%w: content type %s is not an image", domain.ErrUnsupportedMedia, mt.String())
	}
	return image{data: data, ext: ext, contentType: mt.String()}, nil
}

// objectKey builds images/<folder>/<uuid><ext>.
func objectKey(folder, ext string) (string, error) {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || strings.Contains(folder, "..") {
		return "", fmt.Errorf("imagestore: invalid folder %q", folder)
	}
	return path.Join("images", folder, uuid.NewString()+ext), nil
}

// rootRelative returns "/" + p without doubling the slash.
func rootRelative(p string) string {
	return "/" + strings.TrimLeft(p, "/")
}
