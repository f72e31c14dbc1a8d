package storage

import "context"

// InlineStorage keeps the image inside the URL itself as a data URL. It is
// used when no bucket is configured.
type InlineStorage struct{}

func NewInlineStorage() *InlineStorage {
	return &InlineStorage{}
}

func (s *InlineStorage) Store(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrInvalidImageData
	}
	return EncodeDataURL(contentType, data), nil
}
