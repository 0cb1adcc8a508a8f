package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/phsics/BackendYouTube/internal/apierror"
	"github.com/phsics/BackendYouTube/internal/logging"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory;
// the rest spills to disk.
const maxUploadMemory = 32 << 20

// errNoFile marks an absent multipart file field so callers can distinguish
// optional from required uploads.
var errNoFile = http.ErrMissingFile

// saveMultipartFile copies the named multipart file field into a uniquely
// named file under dir and returns its path. The caller owns the file until
// it is handed to the media store.
func saveMultipartFile(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", errNoFile
		}
		return "", apierror.Wrap(apierror.Validation, fmt.Sprintf("invalid file field %q", field), err)
	}
	defer file.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp upload %s: %w", path, err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("buffer upload %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("flush upload %s: %w", path, err)
	}

	return path, nil
}

// removeTemp discards a buffered upload that never reached the media store.
func removeTemp(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.FromContext(ctx).Warn("remove temp upload", "path", path, "error", err)
	}
}
