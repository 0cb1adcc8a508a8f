// Package media proxies file uploads to the external object store. Business
// handlers hand it a local temporary file path and get back a durable
// {publicId, url} reference; the temporary file is released on every exit
// path.
package media

import "context"

// Asset is the durable reference returned for an uploaded file.
type Asset struct {
	PublicID string
	URL      string
}

// Empty reports whether the upload produced no usable reference. Callers
// must treat an empty asset as an upload failure and abort dependent writes.
func (a Asset) Empty() bool {
	return a.PublicID == "" && a.URL == ""
}

// Store uploads local files to external storage and requests deletions.
type Store interface {
	// Upload sends the file at localPath to the external store. The local
	// file is removed whether or not the upload succeeds.
	Upload(ctx context.Context, localPath string) (Asset, error)
	// Delete requests removal of a previously uploaded asset. Failures are
	// logged and swallowed; callers must not assume the deletion succeeded.
	Delete(ctx context.Context, publicID string)
}

// DurationProber extracts the playback duration from a local media file.
type DurationProber interface {
	Duration(ctx context.Context, localPath string) (float64, error)
}
