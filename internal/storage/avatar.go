// Package storage implements the avatar object store: upload, public URL
// retrieval and deletion, backed by the local filesystem.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif" // register decoders for uploaded formats
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"atelier/internal/config"
	"atelier/internal/models"
	"atelier/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// PublicPrefix is the URL path avatars are served under.
	PublicPrefix = "/media/avatars"

	thumbnailSize = 256
	webpQuality   = 80
	jpegQuality   = 85
)

var allowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// StoredAvatar describes a persisted avatar object.
type StoredAvatar struct {
	// URL is the public URL of the full-size image.
	URL string
	// ThumbURL is the public URL of the 256px webp thumbnail.
	ThumbURL string
}

// AvatarStore persists avatar images under a single directory ("bucket").
type AvatarStore struct {
	dir      string
	maxBytes int64
}

// NewAvatarStore creates the store and its backing directory.
func NewAvatarStore(cfg *config.Config) (*AvatarStore, error) {
	dir := cfg.AvatarDir
	if dir == "" {
		dir = "/tmp/atelier/uploads/avatars"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar dir: %w", err)
	}
	return &AvatarStore{
		dir:      dir,
		maxBytes: int64(cfg.AvatarMaxUploadMB) * 1024 * 1024,
	}, nil
}

// Dir returns the backing directory, for wiring the static file route.
func (s *AvatarStore) Dir() string {
	return s.dir
}

// Validate rejects oversized or non-image uploads before anything is written.
func (s *AvatarStore) Validate(contentType string, size int64) error {
	if size <= 0 {
		return models.NewValidationError("Uploaded file is empty")
	}
	if size > s.maxBytes {
		return models.NewValidationError(
			fmt.Sprintf("File too large (max %d MB)", s.maxBytes/(1024*1024)))
	}
	if _, ok := allowedContentTypes[normalizeContentType(contentType)]; !ok {
		return models.NewValidationError("Unsupported file type (jpeg, png, webp or gif)")
	}
	return nil
}

// Save validates, decodes and persists an avatar plus its thumbnail, and
// returns their public URLs. Objects are content-addressed, so re-uploading
// the same bytes is harmless.
func (s *AvatarStore) Save(contentType string, data []byte) (*StoredAvatar, error) {
	if err := s.Validate(contentType, int64(len(data))); err != nil {
		observability.AvatarUploads.WithLabelValues("save", "rejected").Inc()
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		observability.AvatarUploads.WithLabelValues("save", "rejected").Inc()
		return nil, models.NewValidationError("File is not a decodable image")
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	ext := allowedContentTypes[normalizeContentType(contentType)]

	name := fmt.Sprintf("%s.%s", hash, ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		observability.AvatarUploads.WithLabelValues("save", "error").Inc()
		return nil, models.NewInternalError(err)
	}

	thumbName := fmt.Sprintf("%s_%d.webp", hash, thumbnailSize)
	if err := s.writeThumbnail(img, filepath.Join(s.dir, thumbName)); err != nil {
		// The full-size object is already durable; a thumbnail failure falls
		// back to serving the original.
		thumbName = name
	}

	observability.AvatarUploads.WithLabelValues("save", "ok").Inc()
	return &StoredAvatar{
		URL:      PublicPrefix + "/" + name,
		ThumbURL: PublicPrefix + "/" + thumbName,
	}, nil
}

// Remove deletes the objects behind a public avatar URL, thumbnail included.
// Unknown URLs are a no-op.
func (s *AvatarStore) Remove(publicURL string) error {
	name, ok := objectName(publicURL)
	if !ok {
		return nil
	}

	paths := []string{filepath.Join(s.dir, name)}
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		hash := name[:dot]
		paths = append(paths, filepath.Join(s.dir, fmt.Sprintf("%s_%d.webp", hash, thumbnailSize)))
	}

	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			observability.AvatarUploads.WithLabelValues("remove", "error").Inc()
			return models.NewInternalError(err)
		}
	}
	observability.AvatarUploads.WithLabelValues("remove", "ok").Inc()
	return nil
}

func (s *AvatarStore) writeThumbnail(img image.Image, path string) error {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty image")
	}

	// Scale the short side to thumbnailSize, preserving aspect ratio.
	scale := float64(thumbnailSize) / float64(min(w, h))
	if scale > 1 {
		scale = 1
	}
	dw, dh := int(float64(w)*scale), int(float64(h)*scale)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		// webp encode can fail on unusual color models; fall back to jpeg
		// bytes under the .webp name rather than losing the thumbnail.
		buf.Reset()
		if jerr := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); jerr != nil {
			return jerr
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// objectName extracts the stored object name from a public URL, rejecting
// anything that escapes the bucket.
func objectName(publicURL string) (string, bool) {
	idx := strings.Index(publicURL, PublicPrefix+"/")
	if idx < 0 {
		return "", false
	}
	name := publicURL[idx+len(PublicPrefix)+1:]
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

func normalizeContentType(ct string) string {
	ct = strings.TrimSpace(strings.ToLower(ct))
	if semi := strings.IndexByte(ct, ';'); semi >= 0 {
		ct = ct[:semi]
	}
	return ct
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
