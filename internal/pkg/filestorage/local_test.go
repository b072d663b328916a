package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSaveFileWithPath(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	path, err := storage.SaveFileWithPath(multipartFileHeader(t, "thumb.png", "fake image bytes"), "courses")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/courses/"), "got %q", path)
	assert.True(t, strings.HasSuffix(path, ".png"))
	// Original filename is replaced by a generated one
	assert.NotContains(t, path, "thumb")

	stored := filepath.Join(dir, "courses", filepath.Base(path))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))
}

func TestSaveFileNilHeader(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	path, err := storage.SaveFile(nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalStorage(dir, "/uploads")
	require.NoError(t, err)

	path, err := storage.SaveFileWithPath(multipartFileHeader(t, "resume.pdf", "resume"), "resumes")
	require.NoError(t, err)

	stored := filepath.Join(dir, "resumes", filepath.Base(path))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteFile(path))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-removed file is a no-op
	assert.NoError(t, storage.DeleteFile(path))
}

func TestDeleteFileEmptyPath(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	assert.NoError(t, storage.DeleteFile(""))
}
