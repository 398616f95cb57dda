package azurestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"blob-gateway/core/storage"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// Service resolves container handles from one storage account.
type Service struct {
	client *azblob.Client
}

// NewService parses an Azure storage connection string. A malformed string
// is a ConfigError.
func NewService(connectionString string) (*Service, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, &storage.ConfigError{Field: "connection_string", Err: fmt.Errorf("%w: %v", storage.ErrMalformedConnectionString, err)}
	}
	return &Service{client: client}, nil
}

// Container returns the handle for a named container.
func (s *Service) Container(name string) (*Container, error) {
	if name == "" {
		return nil, &storage.ConfigError{Field: "container", Err: storage.ErrEmptyContainer}
	}
	return &Container{name: name, client: s.client.ServiceClient().NewContainerClient(name)}, nil
}

// Container is a storage.Container backed by an Azure blob container.
type Container struct {
	name   string
	client *container.Client
}

var (
	_ storage.Container = (*Container)(nil)
	_ storage.Verifier  = (*Container)(nil)
)

func (c *Container) Name() string { return c.name }

func (c *Container) blob(key string) *blockblob.Client {
	return c.client.NewBlockBlobClient(key)
}

func (c *Container) ObjectURL(key string) string {
	return c.blob(key).URL()
}

// Upload stages the reader in blocks, so the whole object is never held in memory.
func (c *Container) Upload(ctx context.Context, key string, r io.Reader) error {
	if _, err := c.blob(key).UploadStream(ctx, r, nil); err != nil {
		return c.wrap("upload", key, err)
	}
	return nil
}

func (c *Container) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := c.blob(key).DownloadStream(ctx, nil)
	if err != nil {
		return nil, c.wrap("download", key, err)
	}
	return resp.Body, nil
}

func (c *Container) DeleteIfExists(ctx context.Context, key string) (bool, error) {
	_, err := c.blob(key).Delete(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, c.wrap("delete", key, err)
	}
	return true, nil
}

// SignURL builds a service SAS from the account key in the connection string.
func (c *Container) SignURL(_ context.Context, key string, policy storage.SignedURLPolicy) (string, error) {
	perms := sas.BlobPermissions{
		Read:   policy.Permissions.Read,
		Add:    policy.Permissions.Add,
		Create: policy.Permissions.Create,
		Write:  policy.Permissions.Write,
		Delete: policy.Permissions.Delete,
	}
	var opts *blob.GetSASURLOptions
	if !policy.StartsOn.IsZero() {
		opts = &blob.GetSASURLOptions{StartTime: to.Ptr(policy.StartsOn.UTC())}
	}

	u, err := c.blob(key).GetSASURL(perms, policy.ExpiresOn.UTC(), opts)
	if err != nil {
		return "", c.wrap("sign", key, err)
	}
	return u, nil
}

func (c *Container) Exists(ctx context.Context) (bool, error) {
	_, err := c.client.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, c.wrap("verify", "", err)
	}
	return true, nil
}

func (c *Container) Create(ctx context.Context) error {
	_, err := c.client.Create(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return c.wrap("create", "", err)
	}
	return nil
}

func (c *Container) wrap(op, key string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		err = errors.Join(storage.ErrNotFound, err)
	}
	return &storage.BackendError{Op: op, Container: c.name, Key: key, Err: err}
}
