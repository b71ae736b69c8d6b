// Package storage wraps the Backblaze B2 native API used for visit and
// customer image attachments.
package storage

import (
	"context"
	"errors"
)

// Client is the object storage surface consumed by the transactional
// services. Upload returns the public download URL of the stored object.
type Client interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

var (
	ErrNotConfigured = errors.New("storage not configured")
	ErrUploadFailed  = errors.New("storage upload failed")
	ErrDeleteFailed  = errors.New("storage delete failed")
	ErrAuthFailed    = errors.New("storage authorization failed")
	ErrFileNotFound  = errors.New("storage file not found")
)
