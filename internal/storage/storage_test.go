package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
)

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/media")
	ctx := context.Background()

	key := KeyPrefix + "soup.png"
	require.NoError(t, store.Save(ctx, key, []byte("png"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "recipes", "images", "soup.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/media/recipes/images/soup.png", store.URL(key))
	assert.Equal(t, "", store.URL(""))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "recipes", "images", "soup.png"))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Delete(ctx, key))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/media")
	ctx := context.Background()

	for _, key := range []string{"../outside.png", "/etc/passwd", "a/../../b.png"} {
		assert.Error(t, store.Save(ctx, key, []byte("x"), "image/png"), key)
	}
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	args := m.Called(*params.Bucket, *params.Key, *params.ContentType, string(body))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(*params.Bucket, *params.Key)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Store(t *testing.T) {
	client := new(mockS3)
	store := NewS3Store(client, "foodgram", "https://foodgram.s3.eu-west-1.amazonaws.com")
	ctx := context.Background()

	client.On("PutObject", "foodgram", "recipes/images/a.jpg", "image/jpeg", "jpg").Return(nil).Once()
	client.On("DeleteObject", "foodgram", "recipes/images/a.jpg").Return(nil).Once()

	require.NoError(t, store.Save(ctx, "recipes/images/a.jpg", []byte("jpg"), "image/jpeg"))
	require.NoError(t, store.Delete(ctx, "recipes/images/a.jpg"))
	require.NoError(t, store.Delete(ctx, ""))
	assert.Equal(t, "https://foodgram.s3.eu-west-1.amazonaws.com/recipes/images/a.jpg", store.URL("recipes/images/a.jpg"))

	client.AssertExpectations(t)
}

type mockMinio struct {
	mock.Mock
}

func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(bucketName, objectName, objectSize, opts.ContentType)
	return minio.UploadInfo{}, args.Error(0)
}

func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(bucketName, objectName).Error(0)
}

func TestMinioStore(t *testing.T) {
	client := new(mockMinio)
	store := NewMinioStore(client, "media", "http://minio:9000/media")
	ctx := context.Background()

	client.On("PutObject", "media", "recipes/images/b.png", int64(3), "image/png").Return(nil).Once()
	client.On("RemoveObject", "media", "recipes/images/b.png").Return(assert.AnError).Once()

	require.NoError(t, store.Save(ctx, "recipes/images/b.png", []byte("png"), "image/png"))
	assert.ErrorIs(t, store.Delete(ctx, "recipes/images/b.png"), assert.AnError)
	assert.Equal(t, "http://minio:9000/media/recipes/images/b.png", store.URL("recipes/images/b.png"))

	client.AssertExpectations(t)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit", config.StorageConfig{Backend: "s3", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com/"},
		{"aws", config.StorageConfig{Backend: "s3", Bucket: "foodgram", Region: "us-east-1", PublicURL: "/media"}, "https://foodgram.s3.us-east-1.amazonaws.com"},
		{"s3 compatible", config.StorageConfig{Backend: "s3", Bucket: "foodgram", Endpoint: "http://localstack:4566"}, "http://localstack:4566/foodgram"},
		{"minio tls", config.StorageConfig{Backend: "minio", Bucket: "media", Endpoint: "minio:9000", UseSSL: true}, "https://minio:9000/media"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.cfg))
		})
	}
}

func TestNewLocal(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Backend: "local", LocalDir: t.TempDir(), PublicURL: "/media"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}
