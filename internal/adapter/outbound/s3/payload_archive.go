package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/learnhub/server/internal/port/outbound"
)

// ObjectPutter is the subset of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PayloadArchiveAdapter implements outbound.PayloadArchivePort on S3 or any
// S3-compatible store.
type PayloadArchiveAdapter struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewPayloadArchiveAdapter creates a new payload archive adapter.
func NewPayloadArchiveAdapter(client ObjectPutter, bucket, prefix string) *PayloadArchiveAdapter {
	return &PayloadArchiveAdapter{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Archive writes payload under prefix/key.
func (a *PayloadArchiveAdapter) Archive(ctx context.Context, key string, payload []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := path.Join(a.prefix, key)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return nil
}

// Compile-time check
var _ outbound.PayloadArchivePort = (*PayloadArchiveAdapter)(nil)
