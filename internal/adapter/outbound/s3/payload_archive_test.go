package s3

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectPutter struct {
	mock.Mock
}

func (m *MockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestPayloadArchiveAdapter_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("writes under prefix", func(t *testing.T) {
		putter := new(MockObjectPutter)
		var captured *s3.PutObjectInput
		putter.On("PutObject", ctx, mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*s3.PutObjectInput) }).
			Return(&s3.PutObjectOutput{}, nil)

		adapter := NewPayloadArchiveAdapter(putter, "learnhub-webhooks", "/webhooks/")
		err := adapter.Archive(ctx, "mercadopago/2024/01/02/abc.json", []byte(`{"id":1}`), "application/json")

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "learnhub-webhooks", aws.ToString(captured.Bucket))
		assert.Equal(t, "webhooks/mercadopago/2024/01/02/abc.json", aws.ToString(captured.Key))
		assert.Equal(t, "application/json", aws.ToString(captured.ContentType))
		assert.Equal(t, int64(8), aws.ToInt64(captured.ContentLength))

		body, _ := io.ReadAll(captured.Body)
		assert.Equal(t, `{"id":1}`, string(body))
	})

	t.Run("defaults content type", func(t *testing.T) {
		putter := new(MockObjectPutter)
		putter.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.ContentType) == "application/octet-stream" && aws.ToString(in.Key) == "a/b.txt"
		})).Return(&s3.PutObjectOutput{}, nil)

		err := NewPayloadArchiveAdapter(putter, "bucket", "").Archive(ctx, "a/b.txt", []byte("x"), "")
		require.NoError(t, err)
		putter.AssertExpectations(t)
	})

	t.Run("wraps errors", func(t *testing.T) {
		putter := new(MockObjectPutter)
		putter.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("AccessDenied"))

		err := NewPayloadArchiveAdapter(putter, "bucket", "webhooks").Archive(ctx, "k.json", []byte("x"), "application/json")
		assert.ErrorContains(t, err, "put object webhooks/k.json")
	})
}
