package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjetas/internal/records"
)

type fakeBucket struct {
	objects map[string][]byte
	failPut error
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &manager.UploadOutput{}, nil
}

func TestBlobReadWrite(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBucket{objects: map[string][]byte{}}
	b := NewWithAPI(fake, fake, "tarjetas", "data/credits.jsonl")

	_, err := b.Read(ctx)
	assert.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, b.Write(ctx, []byte("payload")))
	assert.Equal(t, []byte("payload"), fake.objects["tarjetas/data/credits.jsonl"])

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestBlobWriteError(t *testing.T) {
	boom := errors.New("boom")
	fake := &fakeBucket{objects: map[string][]byte{}, failPut: boom}
	err := NewWithAPI(fake, fake, "b", "k").Write(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://b/k")
}
