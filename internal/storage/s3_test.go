package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archive_Put(t *testing.T) {
	fp := &fakePutter{}
	a := &S3Archive{client: fp, bucket: "receipts", timeout: time.Second}

	err := a.Put(context.Background(), "receipts/2024/5/1/x", []byte("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "receipts", aws.ToString(fp.in.Bucket))
	assert.Equal(t, "receipts/2024/5/1/x", aws.ToString(fp.in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fp.in.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(fp.in.ContentLength))
	assert.Equal(t, []byte("jpeg-bytes"), fp.body)
}

func TestS3Archive_PutError(t *testing.T) {
	boom := errors.New("access denied")
	a := &S3Archive{client: &fakePutter{err: boom}, bucket: "b", timeout: time.Second}

	err := a.Put(context.Background(), "k", nil, "image/png")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "putting k")
}

func TestReceiptImageKey(t *testing.T) {
	key := ReceiptImageKey(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC))

	require.True(t, strings.HasPrefix(key, "receipts/2024/3/9/"))
	_, err := uuid.Parse(strings.TrimPrefix(key, "receipts/2024/3/9/"))
	assert.NoError(t, err)

	assert.NotEqual(t, key, ReceiptImageKey(time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)))
}
