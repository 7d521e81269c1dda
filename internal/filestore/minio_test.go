package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	bucketExists bool
	existsErr    error
	madeBucket   bool
	putName      string
	putData      []byte
	putErr       error
	removedName  string
}

func (m *mockAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return m.bucketExists, m.existsErr
}

func (m *mockAPI) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	m.madeBucket = true
	return nil
}

func (m *mockAPI) PutObject(_ context.Context, _, objectName string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.putErr != nil {
		return minio.UploadInfo{}, m.putErr
	}
	m.putName = objectName
	data, _ := io.ReadAll(reader)
	m.putData = data
	return minio.UploadInfo{Key: objectName}, nil
}

func (m *mockAPI) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	m.removedName = objectName
	return nil
}

func TestNewClientWithAPI_CreatesMissingBucket(t *testing.T) {
	api := &mockAPI{bucketExists: false}

	_, err := NewClientWithAPI(context.Background(), api, "profile-images", "http://localhost:9000")
	require.NoError(t, err)
	assert.True(t, api.madeBucket)
}

func TestNewClientWithAPI_BucketCheckError(t *testing.T) {
	api := &mockAPI{existsErr: errors.New("connection refused")}

	_, err := NewClientWithAPI(context.Background(), api, "profile-images", "http://localhost:9000")
	require.Error(t, err)
}

func TestClient_Upload(t *testing.T) {
	api := &mockAPI{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "profile-images", "http://localhost:9000")
	require.NoError(t, err)

	data := []byte("fake image bytes")
	url, err := client.Upload(context.Background(), "user-1.png", bytes.NewReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/profile-images/user-1.png", url)
	assert.Equal(t, "user-1.png", api.putName)
	assert.Equal(t, data, api.putData)
}

func TestClient_Upload_Error(t *testing.T) {
	api := &mockAPI{bucketExists: true, putErr: errors.New("disk full")}
	client, err := NewClientWithAPI(context.Background(), api, "profile-images", "http://localhost:9000")
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), "user-1.png", bytes.NewReader(nil), 0, "image/png")
	require.Error(t, err)
}

func TestClient_Remove(t *testing.T) {
	api := &mockAPI{bucketExists: true}
	client, err := NewClientWithAPI(context.Background(), api, "profile-images", "http://localhost:9000")
	require.NoError(t, err)

	require.NoError(t, client.Remove(context.Background(), "user-1.png"))
	assert.Equal(t, "user-1.png", api.removedName)
}
