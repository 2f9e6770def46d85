// Package azure keeps the dataset in an Azure Storage blob.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"tarjetas/internal/records"
)

// Azurite well-known development account.
const (
	devAccountName = "devstoreaccount1"
	devAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// API is the subset of *azblob.Client the blob needs.
type API interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
	CreateContainer(ctx context.Context, containerName string, o *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error)
}

type Blob struct {
	client    API
	container string
	name      string
}

var _ records.Blob = (*Blob)(nil)

// NewClient connects to serviceURL. Plain http:// URLs are treated as the
// local Azurite emulator and use its shared key; anything else goes
// through DefaultAzureCredential.
func NewClient(serviceURL string) (*azblob.Client, error) {
	if serviceURL == "" {
		return nil, errors.New("missing AZURE_STORAGE_ACCOUNT_URL")
	}
	if strings.HasPrefix(serviceURL, "http://") {
		cred, err := azblob.NewSharedKeyCredential(devAccountName, devAccountKey)
		if err != nil {
			return nil, fmt.Errorf("create shared key credential: %w", err)
		}
		client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("create blob client: %w", err)
		}
		return client, nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create default azure credential: %w", err)
	}
	return NewClientWithCredential(serviceURL, cred)
}

func NewClientWithCredential(serviceURL string, cred azcore.TokenCredential) (*azblob.Client, error) {
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return client, nil
}

// New returns a blob for azure://container/name.
func New(client API, container, name string) *Blob {
	return &Blob{client: client, container: container, name: name}
}

func (b *Blob) Read(ctx context.Context) ([]byte, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, b.name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: azure://%s/%s", records.ErrNotFound, b.container, b.name)
		}
		return nil, fmt.Errorf("download azure://%s/%s: %w", b.container, b.name, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read azure://%s/%s: %w", b.container, b.name, err)
	}
	return data, nil
}

// Write uploads data, creating the container the first time it is missing.
func (b *Blob) Write(ctx context.Context, data []byte) error {
	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to("application/x-ndjson")},
	}
	_, err := b.client.UploadBuffer(ctx, b.container, b.name, data, opts)
	if bloberror.HasCode(err, bloberror.ContainerNotFound) {
		if _, cerr := b.client.CreateContainer(ctx, b.container, nil); cerr != nil && !bloberror.HasCode(cerr, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("create container %s: %w", b.container, cerr)
		}
		_, err = b.client.UploadBuffer(ctx, b.container, b.name, data, opts)
	}
	if err != nil {
		return fmt.Errorf("upload azure://%s/%s: %w", b.container, b.name, err)
	}
	return nil
}

func isNotFound(err error) bool {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return true
	}
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func to[T any](v T) *T { return &v }
