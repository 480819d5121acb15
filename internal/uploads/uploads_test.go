package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a form body.
func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.tar.gif", true},
		{"a.webp", true},
		{"a.svg", false},
		{"png", false},
		{"a.", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AllowedFile(tt.name), tt.name)
	}
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "my-photo.png", SecureFilename("My Photo.PNG"))
	assert.Equal(t, "passwd.png", SecureFilename("../../etc/passwd.png"))
	assert.Equal(t, "cat.jpg", SecureFilename(`C:\Users\me\cat.jpg`))

	got := SecureFilename("???.png")
	assert.Equal(t, ".png", filepath.Ext(got))
	assert.Len(t, got, 36+len(".png"))
}

func TestSaveNeverOverwrites(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	first, err := s.Save(fileHeader(t, "photo.png", "one"))
	require.NoError(t, err)
	second, err := s.Save(fileHeader(t, "photo.png", "two"))
	require.NoError(t, err)
	third, err := s.Save(fileHeader(t, "photo.png", "three"))
	require.NoError(t, err)

	assert.Equal(t, "photo.png", first)
	assert.Equal(t, "photo_1.png", second)
	assert.Equal(t, "photo_2.png", third)

	b, err := os.ReadFile(filepath.Join(s.Dir, first))
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
	b, err = os.ReadFile(filepath.Join(s.Dir, second))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
}

func TestSaveRejects(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(nil)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = s.Save(fileHeader(t, "script.exe", "x"))
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAllSkipsFailures(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	saved := s.SaveAll([]*multipart.FileHeader{
		fileHeader(t, "a.png", "a"),
		fileHeader(t, "b.txt", "b"),
		nil,
		fileHeader(t, "c.gif", "c"),
	})
	assert.Equal(t, []string{"a.png", "c.gif"}, saved)
}

func TestPathAndRemove(t *testing.T) {
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "a.png", "a"))
	require.NoError(t, err)

	p, ok := s.Path(name)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(s.Dir, name), p)

	for _, bad := range []string{"", ".", "..", "../a.png", "sub/a.png", "missing.png"} {
		_, ok := s.Path(bad)
		assert.False(t, ok, bad)
	}

	assert.Error(t, s.Remove("../a.png"))
	require.NoError(t, s.Remove(name))
	assert.Error(t, s.Remove(name))
	_, ok = s.Path(name)
	assert.False(t, ok)
}
