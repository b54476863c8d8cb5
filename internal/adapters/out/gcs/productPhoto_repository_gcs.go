// internal/adapters/out/gcs/productPhoto_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	pdom "storefront/internal/domain/product"
)

// ProductPhotoRepositoryGCS implements product.PhotoStore on a GCS bucket.
// Objects are private; photos are streamed through the API.
type ProductPhotoRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewProductPhotoRepositoryGCS(client *storage.Client, bucket string) *ProductPhotoRepositoryGCS {
	return &ProductPhotoRepositoryGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

func (r *ProductPhotoRepositoryGCS) bucket() (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("ProductPhotoRepositoryGCS: nil storage client")
	}
	if r.Bucket == "" {
		return nil, errors.New("ProductPhotoRepositoryGCS: bucket is empty")
	}
	return r.Client.Bucket(r.Bucket), nil
}

func (r *ProductPhotoRepositoryGCS) Put(ctx context.Context, productID, contentType string, data []byte) (string, error) {
	if len(data) > pdom.MaxPhotoBytes {
		return "", pdom.ErrPhotoTooBig
	}
	b, err := r.bucket()
	if err != nil {
		return "", err
	}
	objPath, err := photoObjectPath(productID, contentType)
	if err != nil {
		return "", err
	}

	w := b.Object(objPath).NewWriter(ctx)
	w.ContentType = strings.TrimSpace(contentType)
	w.CacheControl = "private, max-age=0"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", objPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: close %s: %w", objPath, err)
	}
	return objPath, nil
}

func (r *ProductPhotoRepositoryGCS) Open(ctx context.Context, objectPath string) ([]byte, string, error) {
	b, err := r.bucket()
	if err != nil {
		return nil, "", err
	}
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return nil, "", pdom.ErrNotFound
	}

	rd, err := b.Object(objectPath).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, "", pdom.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	defer rd.Close()

	data, err := io.ReadAll(io.LimitReader(rd, pdom.MaxPhotoBytes+1))
	if err != nil {
		return nil, "", err
	}
	return data, rd.Attrs.ContentType, nil
}

// Delete is idempotent: a missing object is not an error.
func (r *ProductPhotoRepositoryGCS) Delete(ctx context.Context, objectPath string) error {
	b, err := r.bucket()
	if err != nil {
		return err
	}
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if objectPath == "" {
		return nil
	}
	err = b.Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
