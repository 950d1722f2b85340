// Package artifacts defines the sink that receives generated audio and hands
// back a downloadable reference.
//
// Implementations:
//   - local.FileStore writes under a base directory and returns file:// URLs
//   - s3.Store uploads to an S3-compatible bucket via minio-go and returns object URLs
//
// Implementations must be safe for concurrent use.
package artifacts

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"time"
)

// Store persists artifacts.
type Store interface {
	// Put streams r into the store. size is the content length, or -1 when unknown.
	Put(ctx context.Context, r io.Reader, size int64, name, description string, opts ...PutOption) (*Artifact, error)
}

// PutOptions holds per-object settings for Put.
type PutOptions struct {
	// ContentType overrides the type guessed from the name.
	ContentType string
}

// PutOption configures a single Put.
type PutOption func(*PutOptions)

// WithContentType records ct as the artifact's content type.
func WithContentType(ct string) PutOption {
	return func(o *PutOptions) { o.ContentType = ct }
}

// ResolvePutOptions applies opts and fills the content type from name when
// no option set one.
func ResolvePutOptions(name string, opts ...PutOption) PutOptions {
	var o PutOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.ContentType == "" {
		o.ContentType = ContentType(name)
	}
	return o
}

// Artifact describes a stored object.
type Artifact struct {
	// Reference is the locator returned to callers (URL or file:// URI).
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContentType guesses a MIME type from the artifact name, defaulting to
// application/octet-stream.
func ContentType(name string) string {
	switch filepath.Ext(name) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
