// Package storage keeps the raw bytes of uploaded documents in an
// S3-compatible object store. Implementations stream and never touch local disk.
package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// MetaOriginalFilename is the user metadata key holding the uploaded file name.
const MetaOriginalFilename = "original-filename"

// ObjectInfo contains basic information about an object in storage.
// Metadata keys are lower-case.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// MetadataValue looks up a user metadata key case-insensitively. S3 servers
// return keys in canonical header form ("Original-Filename").
func (o ObjectInfo) MetadataValue(key string) string {
	if v, ok := o.Metadata[key]; ok {
		return v
	}
	for k, v := range o.Metadata {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// normalizeMetadata lower-cases user metadata keys.
func normalizeMetadata(md map[string]string) map[string]string {
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object's content alongside its info. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// DocumentKey returns the object key of a user document, keeping the
// original file extension: documents/<userID>/<docID><ext>.
func DocumentKey(userID, docID, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join("documents", userID, docID+ext)
}
