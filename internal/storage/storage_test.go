package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/verification-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("\x89PNG fake")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name     string
		input    string
		wantType string
		wantErr  bool
	}{
		{name: "png data url", input: "data:image/png;base64," + encoded, wantType: "image/png"},
		{name: "bare base64", input: encoded, wantType: DefaultContentType},
		{name: "unpadded", input: strings.TrimRight(encoded, "="), wantType: DefaultContentType},
		{name: "empty", input: "", wantErr: true},
		{name: "not base64 encoded", input: "data:image/png,hello", wantErr: true},
		{name: "missing comma", input: "data:image/png;base64", wantErr: true},
		{name: "garbage", input: "!!!not-base64!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, data, err := DecodeDataURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidImageData))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, contentType)
			assert.Equal(t, raw, data)
		})
	}
}

func TestPolicy(t *testing.T) {
	p := Policy{MaxFileSize: 10, AllowedContentTypes: []string{"image/jpeg", "image/png"}}

	assert.NoError(t, p.Validate("image/png", 10))
	assert.True(t, errors.Is(p.Validate("image/png", 11), ErrFileTooLarge))
	assert.True(t, errors.Is(p.Validate("application/pdf", 1), ErrContentTypeNotAllowed))

	open := Policy{}
	assert.NoError(t, open.Validate("image/webp", 1<<30))
	assert.Error(t, open.ValidateContentType("text/plain"))
}

func TestPolicy_MaxRequestBytes(t *testing.T) {
	assert.Equal(t, int64(1368+requestOverhead), Policy{MaxFileSize: 1024}.MaxRequestBytes())
	assert.Zero(t, Policy{}.MaxRequestBytes())
}

func TestInlineStorage(t *testing.T) {
	s := NewInlineStorage()

	url, err := s.Store(context.Background(), "1", "image/png", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,YWJj", url)

	contentType, data, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("abc"), data)

	_, err = s.Store(context.Background(), "1", "image/png", nil)
	assert.Error(t, err)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func testS3(t *testing.T, baseURL string) (*S3Storage, *fakePutter) {
	t.Helper()
	s := NewS3Storage(context.Background(), config.S3Config{
		Region:          "ap-northeast-2",
		Bucket:          "verification-test",
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		BaseURL:         baseURL,
	})
	fake := &fakePutter{}
	s.putter = fake
	return s, fake
}

func TestS3Storage_Store(t *testing.T) {
	s, fake := testS3(t, "https://cdn.example.com")

	url, err := s.Store(context.Background(), "42", "image/png", []byte("img"))
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	key := *fake.input.Key
	assert.True(t, strings.HasPrefix(key, "verification/42/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "verification-test", *fake.input.Bucket)
	assert.Equal(t, []byte("img"), fake.body)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Storage_StoreError(t *testing.T) {
	s, fake := testS3(t, "")
	fake.err = errors.New("access denied")

	_, err := s.Store(context.Background(), "42", "image/jpeg", []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestS3Storage_PresignedURL(t *testing.T) {
	s, _ := testS3(t, "")

	resp, err := s.GeneratePresignedURLWithFolder(context.Background(), "selfie.jpg", "image/jpeg", VerificationFolder)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "verification/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://verification-test.s3.ap-northeast-2.amazonaws.com/"+resp.Key, resp.FileURL)
}
