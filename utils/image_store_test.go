package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quillpost/quill/config"
)

type mockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *mockS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	args := m.Called(aws.StringValue(in.Bucket), aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestExtractObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		base    string
		wantKey string
		wantOK  bool
	}{
		{"public base", "https://cdn.example.com/posts/a.png", "https://cdn.example.com", "posts/a.png", true},
		{"public base with query", "https://cdn.example.com/posts/a.png?w=200", "https://cdn.example.com/", "posts/a.png", true},
		{"public base mismatch", "https://other.example.com/posts/a.png", "https://cdn.example.com", "", false},
		{"virtual hosted", "https://images.s3.us-east-1.amazonaws.com/posts/a.png", "", "posts/a.png", true},
		{"path style", "http://localhost:9000/images/posts/a.png", "", "posts/a.png", true},
		{"unknown host", "https://example.com/posts/a.png", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ExtractObjectKey(tt.url, tt.base, "images")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestS3ImageStore_DeleteImage(t *testing.T) {
	client := &mockS3{}
	client.On("DeleteObjectWithContext", "images", "posts/a.png").Return(nil).Once()
	store := NewS3ImageStore(client, "images", "https://cdn.example.com")

	err := store.DeleteImage(context.Background(), "https://cdn.example.com/posts/a.png")
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestS3ImageStore_DeleteImage_Errors(t *testing.T) {
	client := &mockS3{}
	client.On("DeleteObjectWithContext", "images", "posts/a.png").Return(errors.New("boom")).Once()
	store := NewS3ImageStore(client, "images", "https://cdn.example.com")

	assert.Error(t, store.DeleteImage(context.Background(), "https://cdn.example.com/posts/a.png"))
	assert.ErrorIs(t, store.DeleteImage(context.Background(), "https://elsewhere.example.com/x.png"), ErrForeignImage)
	assert.NoError(t, store.DeleteImage(context.Background(), ""))
	client.AssertExpectations(t)
}

func TestNewImageStore_DisabledWithoutBucket(t *testing.T) {
	store, err := NewImageStore(config.StorageSection{})
	assert.NoError(t, err)
	assert.IsType(t, NopImageStore{}, store)
}
