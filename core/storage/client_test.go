package storage_test

import (
	"context"
	"errors"
	"testing"

	"improved-initiative/core/storage"
	"improved-initiative/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "library",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithScheme", func(t *testing.T) {
		for _, endpoint := range []string{"http://localhost:9000", "https://s3.amazonaws.com"} {
			client, err := storage.NewClient(storage.Config{Endpoint: endpoint, AccessKey: "k", SecretKey: "s"})
			assert.NoError(t, err, endpoint)
			assert.NotNil(t, client, endpoint)
		}
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "library").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "library", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "library").Return(false, nil)
		client.On("MakeBucket", ctx, "library", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "library", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "library").Return(false, errors.New("offline"))

		assert.ErrorContains(t, storage.EnsureBucket(ctx, client, "library", ""), "offline")
	})
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, storage.IsNotFound(nil))
	assert.False(t, storage.IsNotFound(errors.New("boom")))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, storage.Config{Endpoint: "localhost:9000", Bucket: "library"}.Validate())
	assert.Error(t, storage.Config{Endpoint: "localhost:9000", Bucket: "x"}.Validate())
	assert.Error(t, storage.Config{Bucket: "library"}.Validate())
}
