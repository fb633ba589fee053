// Package uploads validates citizen documents and stores them on the local
// filesystem under UPLOAD_DIR.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// DefaultMaxBytes is 5 MiB.
const DefaultMaxBytes int64 = 5 << 20

// SniffLen is how many leading bytes Validate inspects.
const SniffLen = 512

var (
	allowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}
	allowedTypes      = []string{"application/pdf", "image/jpeg", "image/png"}
)

const field = "archivo"

// Policy bounds accepted files.
type Policy struct {
	MaxBytes int64
}

// Validate checks a file against the default policy.
func Validate(name string, size int64, head []byte) (string, error) {
	return Policy{MaxBytes: DefaultMaxBytes}.Validate(name, size, head)
}

// Validate returns the sniffed content type of an acceptable file.
func (p Policy) Validate(name string, size int64, head []byte) (string, error) {
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if size <= 0 {
		return "", dErrors.Field(field, "el archivo está vacío")
	}
	if size > limit {
		return "", dErrors.Field(field, fmt.Sprintf("el archivo excede el tamaño máximo de %d MB", limit>>20))
	}
	if !slices.Contains(allowedExtensions, strings.ToLower(filepath.Ext(name))) {
		return "", dErrors.Field(field, "extensión no permitida; use PDF, JPG o PNG")
	}
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	mime := http.DetectContentType(head)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !slices.Contains(allowedTypes, mime) {
		return "", dErrors.Field(field, "el contenido del archivo no corresponde a un PDF o imagen permitida")
	}
	return mime, nil
}

// LocalStorage writes files below a root directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

// Save stores r as solicitudes/YYYY/MM/<uuid><ext> and returns that
// slash-separated path relative to the root.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	now := requestcontext.Now(ctx)
	rel := path.Join("solicitudes", now.Format("2006"), now.Format("01"),
		uuid.NewString()+strings.ToLower(filepath.Ext(name)))
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, contextReader{ctx: ctx, r: r}); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *LocalStorage) Remove(_ context.Context, rel string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
