// Package attachment encodes local image files for multimodal prompts.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMIMEType is used when neither the file extension nor the content
// identify an image type.
const DefaultMIMEType = "image/png"

// ErrEmptyImage is returned for zero-length image data.
var ErrEmptyImage = errors.New("image is empty")

// Image is a base64-encoded image with its MIME type.
type Image struct {
	// Data is the standard base64 encoding of the image bytes.
	Data string `json:"data"`

	// MIMEType is an image/* media type.
	MIMEType string `json:"mime_type"`
}

// DataURL returns the image as a data URL, as accepted by OpenAI-style APIs.
func (img Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType, img.Data)
}

// EncodeImageFile reads the file at path and encodes it. The MIME type comes
// from the file extension, then from the content, then DefaultMIMEType.
func EncodeImageFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%s: %w", path, ErrEmptyImage)
	}

	mimeType := mimeFromExtension(path)
	if mimeType == "" {
		mimeType = sniff(data)
	}

	return Image{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
	}, nil
}

// FromBase64 validates already encoded image data. An empty mimeType is
// inferred from the decoded content.
func FromBase64(encoded, mimeType string) (Image, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Image{}, fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}

	if mimeType == "" {
		mimeType = sniff(data)
	} else if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, fmt.Errorf("unsupported attachment type %q", mimeType)
	}

	return Image{Data: encoded, MIMEType: mimeType}, nil
}

func mimeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	// Drop parameters such as "; charset=utf-8".
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if !strings.HasPrefix(t, "image/") {
		return ""
	}
	return t
}

func sniff(data []byte) string {
	detected := mimetype.Detect(data).String()
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	return DefaultMIMEType
}
