package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxReceiptSize caps uploaded receipts at 10MB.
const MaxReceiptSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("el archivo supera el tamaño máximo de 10MB")
	ErrUnsupportedType = errors.New("solo se permiten archivos de imagen (JPG, PNG, GIF) y PDF")
	ErrFileNotFound    = errors.New("archivo no encontrado")
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// ReceiptStore keeps uploaded receipts in a local directory under
// collision-free names. The file write and the payment row update are
// not atomic with each other; a crash in between can orphan a file.
type ReceiptStore struct {
	dir string
}

func NewReceiptStore(dir string) (*ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &ReceiptStore{dir: dir}, nil
}

// SavedReceipt describes a stored receipt file.
type SavedReceipt struct {
	Filename     string
	OriginalName string
	Size         int64
	ContentType  string
}

// Save validates and persists one uploaded receipt. The content type is
// sniffed from the bytes, not taken from the filename or the request.
func (s *ReceiptStore) Save(fh *multipart.FileHeader) (*SavedReceipt, error) {
	if fh.Size > MaxReceiptSize {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	ext, ok := allowedTypes[mtype.String()]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	filename := fmt.Sprintf("receipt-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write receipt file: %w", err)
	}

	return &SavedReceipt{
		Filename:     filename,
		OriginalName: fh.Filename,
		Size:         size,
		ContentType:  mtype.String(),
	}, nil
}

// Path resolves a stored filename to its on-disk path. Names that
// escape the uploads directory are rejected.
func (s *ReceiptStore) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrFileNotFound
	}
	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileNotFound
	}
	return path, nil
}
