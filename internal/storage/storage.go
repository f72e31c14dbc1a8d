package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
	ErrInvalidImageData      = errors.New("invalid image data")
)

// DefaultContentType is assumed for bare base64 payloads.
const DefaultContentType = "image/jpeg"

// ImageStorage persists submitted image bytes and returns the URL that is
// recorded on the VerificationImage.
type ImageStorage interface {
	Store(ctx context.Context, userID string, contentType string, data []byte) (string, error)
}

// Policy limits what may be uploaded.
type Policy struct {
	MaxFileSize         int64
	AllowedContentTypes []string
}

// requestOverhead covers multipart headers and the JSON envelope around an image.
const requestOverhead = 16 << 10

// MaxRequestBytes bounds a request body that carries one base64 encoded image.
// Zero means unlimited.
func (p Policy) MaxRequestBytes() int64 {
	if p.MaxFileSize <= 0 {
		return 0
	}
	return int64(base64.StdEncoding.EncodedLen(int(p.MaxFileSize))) + requestOverhead
}

// ValidateFileSize validates the file size
func (p Policy) ValidateFileSize(size int64) error {
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, p.MaxFileSize)
	}
	return nil
}

// ValidateContentType validates the content type. An empty allow list permits
// any image/* type.
func (p Policy) ValidateContentType(contentType string) error {
	if len(p.AllowedContentTypes) == 0 {
		if strings.HasPrefix(contentType, "image/") {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
	}
	for _, allowed := range p.AllowedContentTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
}

func (p Policy) Validate(contentType string, size int64) error {
	if err := p.ValidateContentType(contentType); err != nil {
		return err
	}
	return p.ValidateFileSize(size)
}

// DecodeDataURL accepts "data:<mime>;base64,<payload>" or a bare base64
// payload, which is assumed to be DefaultContentType.
func DecodeDataURL(s string) (contentType string, data []byte, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, ErrInvalidImageData
	}

	contentType = DefaultContentType
	payload := s
	if strings.HasPrefix(s, "data:") {
		header, body, ok := strings.Cut(s, ",")
		if !ok {
			return "", nil, ErrInvalidImageData
		}
		meta := strings.TrimPrefix(header, "data:")
		mime, encoding, _ := strings.Cut(meta, ";")
		if encoding != "base64" {
			return "", nil, ErrInvalidImageData
		}
		if mime != "" {
			contentType = mime
		}
		payload = body
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
		}
	}
	if len(data) == 0 {
		return "", nil, ErrInvalidImageData
	}
	return contentType, data, nil
}

// EncodeDataURL is the inverse of DecodeDataURL.
func EncodeDataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	}
	return ""
}
