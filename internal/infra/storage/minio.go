package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store uploads audit exports to an S3-compatible bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New connects to MinIO and makes sure the export bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// UploadJSON writes one export object and returns its URL. The URL is usable
// directly only when the bucket is public; private buckets need a presigned
// URL generated out of band.
func (s *Store) UploadJSON(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key), nil
}
