package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureOptions tunes the blob client.
type AzureOptions struct {
	// MaxRetries is the number of SDK retries per operation. Zero disables
	// retries entirely.
	MaxRetries int32
	// Container is pinged by Ping and created by Bootstrap.
	Container string
	// CreateContainer makes Bootstrap create Container when missing.
	CreateContainer bool
}

// AzureStore writes objects as block blobs in an Azure Storage account.
type AzureStore struct {
	client          *azblob.Client
	container       string
	createContainer bool
}

// NewAzureStore builds a client from a storage account connection string.
func NewAzureStore(connectionString string, opts AzureOptions) (*AzureStore, error) {
	if strings.TrimSpace(connectionString) == "" {
		return nil, errors.New("AZURE_STORAGE_CONNECTION_STRING required")
	}

	retries := opts.MaxRetries
	if retries <= 0 {
		// azcore treats a negative value as a single attempt.
		retries = -1
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: retries},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("azure blob client: %w", err)
	}

	container := opts.Container
	if container == "" {
		container = DefaultContainer
	}
	return &AzureStore{
		client:          client,
		container:       container,
		createContainer: opts.CreateContainer,
	}, nil
}

// Put uploads obj.Data as a block blob. A block blob upload replaces the
// blob's previous content in full.
func (a *AzureStore) Put(ctx context.Context, obj Object) error {
	if err := validate(obj); err != nil {
		return err
	}

	contentType := obj.ContentType
	_, err := a.client.UploadBuffer(ctx, obj.Container, obj.Key, obj.Data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", obj.Container, obj.Key, err)
	}
	return nil
}

// Get downloads the blob. A missing blob or container maps to ErrObjectNotFound.
func (a *AzureStore) Get(ctx context.Context, container, key string) ([]byte, error) {
	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("download %s/%s: %w", container, key, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", container, key, err)
	}
	return buf.Bytes(), nil
}

// Ping reads the target container's properties, which checks reachability,
// credentials and that the container exists.
func (a *AzureStore) Ping(ctx context.Context) error {
	_, err := a.client.ServiceClient().NewContainerClient(a.container).GetProperties(ctx, nil)
	return err
}

// Bootstrap creates the target container when CreateContainer was set.
func (a *AzureStore) Bootstrap(ctx context.Context) error {
	if !a.createContainer {
		return nil
	}
	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container %s: %w", a.container, err)
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (a *AzureStore) Close() error {
	return nil
}
