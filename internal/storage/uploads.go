package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploads - каталог для загружаемых изображений. Файлы получают случайные
// имена, чтобы исключить коллизии между параллельными загрузками.
type Uploads struct {
	Dir string
}

// NewUploads создаёт каталог загрузок, если его ещё нет.
func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Uploads{Dir: dir}, nil
}

// Save сохраняет один файл из multipart-формы и возвращает присвоенное имя.
func (u *Uploads) Save(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(u.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

// SaveAll сохраняет файлы в порядке их следования в форме.
func (u *Uploads) SaveAll(headers []*multipart.FileHeader) ([]string, error) {
	var names []string
	for _, header := range headers {
		name, err := u.Save(header)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
