// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"os"

	"github.com/minio/minio-go/v7"
)

// S3 is the narrow slice of the minio-go client satmod's pack upload/
// download path uses, grounded on cmd/qrank-builder/s3.go's own S3
// interface: name only the methods actually called (file-based
// FGetObject/FPutObject rather than the streaming Get/PutObject, the
// same choice the teacher made) so tests can substitute a fake without
// depending on minio-go's unexported Object internals.
type S3 interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// UploadPack stages an already-built pack's bytes to a temporary file
// and uploads it to bucket/key.
func UploadPack(ctx context.Context, s3 S3, bucket, key string, pack []byte) error {
	tmp, err := os.CreateTemp("", "satmod-pack-*.bin")
	if err != nil {
		return fmt.Errorf("store: upload pack %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(pack); err != nil {
		return fmt.Errorf("store: upload pack %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: upload pack %q: %w", key, err)
	}

	_, err = s3.FPutObject(ctx, bucket, key, tmp.Name(), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("store: upload pack %q: %w", key, err)
	}
	return nil
}

// DownloadPack fetches a pack's bytes from bucket/key via a temporary
// file, grounded on cmd/qrank-builder/s3.go's tempFileReader.
func DownloadPack(ctx context.Context, s3 S3, bucket, key string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "satmod-pack-*.bin")
	if err != nil {
		return nil, fmt.Errorf("store: download pack %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := s3.FGetObject(ctx, bucket, key, tmp.Name(), minio.GetObjectOptions{}); err != nil {
		return nil, fmt.Errorf("store: download pack %q: %w", key, err)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("store: download pack %q: %w", key, err)
	}
	return data, nil
}

// ListPacks returns the object keys under prefix, grounded on
// cmd/qrank-builder/build.go's ListStoredFiles.
func ListPacks(ctx context.Context, s3 S3, bucket, prefix string) ([]string, error) {
	var keys []string
	for obj := range s3.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("store: list packs: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// RemovePack deletes bucket/key.
func RemovePack(ctx context.Context, s3 S3, bucket, key string) error {
	if err := s3.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("store: remove pack %q: %w", key, err)
	}
	return nil
}
