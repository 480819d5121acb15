// Package uploads stores user images in a single flat directory.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// AllowedExtensions are matched case-insensitively on the text after the
// final dot.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

var (
	ErrNoFile              = errors.New("no file uploaded")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
)

// Store saves files into Dir.
type Store struct {
	Dir string
}

// NewStore creates dir if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// AllowedFile reports whether name has a permitted image extension.
func AllowedFile(name string) bool {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return false
	}
	return AllowedExtensions[strings.ToLower(name[i+1:])]
}

// SecureFilename reduces a client-supplied name to a safe base name with a
// lower-case extension. Names that slug to nothing get a random uuid.
func SecureFilename(name string) string {
	// Browsers on Windows may send the full path.
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := slug.Make(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = uuid.New().String()
	}
	return base + ext
}

// Save writes fh into the store and returns the stored filename. An existing
// file of the same name is never overwritten; the new one becomes base_1.ext,
// base_2.ext and so on. The existence check and the create are not atomic.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ErrNoFile
	}
	if !AllowedFile(fh.Filename) {
		return "", ErrExtensionNotAllowed
	}

	filename := SecureFilename(fh.Filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for i := 1; s.exists(filename); i++ {
		filename = fmt.Sprintf("%s_%d%s", base, i, ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", filename, err)
	}
	return filename, nil
}

// SaveAll saves each file on its own. Files that fail are skipped.
func (s *Store) SaveAll(files []*multipart.FileHeader) []string {
	var saved []string
	for _, fh := range files {
		if name, err := s.Save(fh); err == nil {
			saved = append(saved, name)
		}
	}
	return saved
}

func (s *Store) exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.Dir, name))
	return err == nil
}

// Path resolves name inside the store. Only plain base names of existing
// regular files resolve.
func (s *Store) Path(name string) (string, bool) {
	if !isBaseName(name) {
		return "", false
	}
	p := filepath.Join(s.Dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

// Remove deletes name from the store and reports any failure. Callers treat
// removal as best effort.
func (s *Store) Remove(name string) error {
	if !isBaseName(name) {
		return fmt.Errorf("refusing to remove %q", name)
	}
	return os.Remove(filepath.Join(s.Dir, name))
}

func isBaseName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
