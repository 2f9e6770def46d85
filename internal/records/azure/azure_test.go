package azure

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarjetas/internal/records"
)

type fakeContainerClient struct {
	containers map[string]map[string][]byte
	created    int
}

func notFound(code bloberror.Code) error {
	return &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: string(code)}
}

func (f *fakeContainerClient) DownloadStream(_ context.Context, container, name string, _ *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error) {
	blobs, ok := f.containers[container]
	if !ok {
		return azblob.DownloadStreamResponse{}, notFound(bloberror.ContainerNotFound)
	}
	data, ok := blobs[name]
	if !ok {
		return azblob.DownloadStreamResponse{}, notFound(bloberror.BlobNotFound)
	}
	return azblob.DownloadStreamResponse{
		DownloadResponse: blob.DownloadResponse{Body: io.NopCloser(bytes.NewReader(data))},
	}, nil
}

func (f *fakeContainerClient) UploadBuffer(_ context.Context, container, name string, buffer []byte, _ *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
	blobs, ok := f.containers[container]
	if !ok {
		return azblob.UploadBufferResponse{}, notFound(bloberror.ContainerNotFound)
	}
	blobs[name] = append([]byte(nil), buffer...)
	return azblob.UploadBufferResponse{}, nil
}

func (f *fakeContainerClient) CreateContainer(_ context.Context, container string, _ *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error) {
	f.created++
	f.containers[container] = map[string][]byte{}
	return azblob.CreateContainerResponse{}, nil
}

func TestBlobCreatesContainerOnFirstWrite(t *testing.T) {
	ctx := context.Background()
	fake := &fakeContainerClient{containers: map[string]map[string][]byte{}}
	b := New(fake, "tarjetas", "credits.jsonl")

	_, err := b.Read(ctx)
	assert.ErrorIs(t, err, records.ErrNotFound)

	require.NoError(t, b.Write(ctx, []byte("one")))
	require.NoError(t, b.Write(ctx, []byte("two")))
	assert.Equal(t, 1, fake.created)

	data, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestNewClientAzurite(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:10000/devstoreaccount1")
	require.NoError(t, err)
	assert.NotNil(t, client)
}
