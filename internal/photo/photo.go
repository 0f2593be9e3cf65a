// Package photo turns uploaded image bytes into session-local card photos.
//
// An embedded photo is a data: URI. It renders inside the session that made it
// but is never written into a share link; only external URLs are shareable.
package photo

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/starford/vibecard/internal/apperr"
	"github.com/starford/vibecard/internal/models"
)

// MaxSize is the largest image Embed accepts.
const MaxSize = 10 << 20 // 10 MB

var extToMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var allowedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Embed validates data as a supported image and returns it as an embedded
// photo reference. filename is optional; when it has an extension the
// sniffed content must agree with it.
func Embed(data []byte, filename string) (models.Photo, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("photo: %w: empty file", apperr.ErrUnsupportedPhoto)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("photo: %w: %d bytes exceeds %d", apperr.ErrUnsupportedPhoto, len(data), MaxSize)
	}

	mime, err := sniff(data)
	if err != nil {
		return "", err
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		want, ok := extToMIME[ext]
		if !ok {
			return "", fmt.Errorf("photo: %w: extension %s (allowed: png, jpg, jpeg, gif, webp)", apperr.ErrUnsupportedPhoto, ext)
		}
		if want != mime {
			return "", fmt.Errorf("photo: %w: content does not match extension %s (detected: %s)", apperr.ErrUnsupportedPhoto, ext, mime)
		}
	}

	return models.Photo("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

// Decode parses an embedded photo back into its bytes and MIME type.
func Decode(p models.Photo) ([]byte, string, error) {
	if !p.Embedded() {
		return nil, "", fmt.Errorf("photo: %w: not an embedded photo", apperr.ErrUnsupportedPhoto)
	}
	rest := strings.TrimPrefix(string(p), "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("photo: %w: missing comma separator", apperr.ErrUnsupportedPhoto)
	}

	meta, encoded := rest[:comma], rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("photo: %w: only base64 data URIs are supported", apperr.ErrUnsupportedPhoto)
	}
	mime := strings.Split(strings.TrimSuffix(meta, ";base64"), ";")[0]
	if !allowedMIME[mime] {
		return nil, "", fmt.Errorf("photo: %w: MIME type %q", apperr.ErrUnsupportedPhoto, mime)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("photo: %w: invalid base64: %v", apperr.ErrUnsupportedPhoto, err)
		}
	}
	return data, mime, nil
}

func sniff(data []byte) (string, error) {
	detected := strings.Split(http.DetectContentType(data), ";")[0]
	if !allowedMIME[detected] {
		return "", fmt.Errorf("photo: %w: detected %s", apperr.ErrUnsupportedPhoto, detected)
	}
	return detected, nil
}

// Digest returns the hex-encoded SHA-256 of data. Clients use it to tell
// whether a re-upload is the same image.
func Digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
