package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjects keeps objects in memory and records calls.
type fakeObjects struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr  error
	putOpts minioLib.PutObjectOptions
	putSize int64
	objects map[string][]byte
	getErr  error
	statErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{bucketExists: true, objects: map[string][]byte{}}
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucketName string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucketName
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _, objectName string, reader io.Reader, objectSize int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.objects[objectName] = data
	f.putOpts = opts
	f.putSize = objectSize
	return minioLib.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, _, objectName string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return io.NopCloser(bytes.NewReader(f.objects[objectName])), nil
}

func (f *fakeObjects) StatObject(_ context.Context, _, objectName string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	if f.statErr != nil {
		return minioLib.ObjectInfo{}, f.statErr
	}
	if _, ok := f.objects[objectName]; !ok {
		return minioLib.ObjectInfo{}, minioLib.ErrorResponse{Code: "NoSuchKey"}
	}
	return minioLib.ObjectInfo{Key: objectName}, nil
}

func TestNewClient_Bucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket is reused", func(t *testing.T) {
		api := newFakeObjects()
		c, err := newClient(ctx, api, "reports")
		require.NoError(t, err)
		assert.Equal(t, "reports", c.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		api := newFakeObjects()
		api.bucketExists = false
		_, err := newClient(ctx, api, "reports")
		require.NoError(t, err)
		assert.Equal(t, "reports", api.madeBucket)
	})

	t.Run("existence check fails", func(t *testing.T) {
		api := newFakeObjects()
		api.bucketExistsErr = errors.New("boom")
		c, err := newClient(ctx, api, "reports")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("creation fails", func(t *testing.T) {
		api := newFakeObjects()
		api.bucketExists = false
		api.makeBucketErr = errors.New("denied")
		c, err := newClient(ctx, api, "reports")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to create bucket")
	})
}

func TestClient_UploadDownloadExists(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjects()
	c, err := newClient(ctx, api, "reports")
	require.NoError(t, err)

	ok, err := c.Exists(ctx, "reports/1/2.json")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := []byte(`{"session_id":2}`)
	require.NoError(t, c.Upload(ctx, "reports/1/2.json", bytes.NewReader(doc), int64(len(doc))))
	assert.Equal(t, archiveContentType, api.putOpts.ContentType)
	assert.Equal(t, int64(len(doc)), api.putSize)

	ok, err = c.Exists(ctx, "reports/1/2.json")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := c.Download(ctx, "reports/1/2.json")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestClient_Errors(t *testing.T) {
	ctx := context.Background()

	api := newFakeObjects()
	api.putErr = errors.New("put-fail")
	api.getErr = errors.New("get-fail")
	api.statErr = errors.New("stat-fail")
	c := &Client{api: api, bucket: "reports"}

	err := c.Upload(ctx, "k", bytes.NewReader(nil), 0)
	assert.ErrorContains(t, err, "failed to upload report")

	rc, err := c.Download(ctx, "k")
	assert.Nil(t, rc)
	assert.ErrorContains(t, err, "failed to download report")

	ok, err := c.Exists(ctx, "k")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to stat report")
}
