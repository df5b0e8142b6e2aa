package source

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gizitrack/stuntmap/internal/config"
	"github.com/gizitrack/stuntmap/internal/infrastructure/monitoring/logging"
	appErrors "github.com/gizitrack/stuntmap/pkg/errors"
)

// ObjectAPI is the slice of the MinIO client the object source needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// ObjectSource reads one object from a bucket.  Its fingerprint is the
// object ETag plus size, so fetching the bytes is not needed to detect a
// change.
type ObjectSource struct {
	client ObjectAPI
	bucket string
	object string
}

// NewObjectClient dials the object store and verifies the configured
// bucket is reachable.
func NewObjectClient(cfg config.MinIOConfig, log logging.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeInternal, "failed to create object storage client")
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable, "failed to reach object storage")
	}
	if !exists {
		return nil, appErrors.Newf(appErrors.ErrCodeSourceUnavailable, "bucket %q does not exist", cfg.Bucket)
	}

	log.Info("object storage connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return client, nil
}

// NewObjectSource builds an ObjectSource for one bucket object.
func NewObjectSource(client ObjectAPI, bucket, object string) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket, object: object}
}

// Fetch downloads the object.
func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable,
			"failed to fetch object "+s.bucket+"/"+s.object)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable,
			"failed to read object "+s.bucket+"/"+s.object)
	}
	return data, nil
}

// Fingerprint stats the object and derives the fingerprint from its ETag
// and size.
func (s *ObjectSource) Fingerprint(ctx context.Context) (string, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrCodeSourceUnavailable,
			"failed to stat object "+s.bucket+"/"+s.object)
	}
	return ContentFingerprint([]byte(info.ETag + "|" + info.Key)), nil
}
