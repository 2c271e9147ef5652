package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	require.True(t, Allowed("report.pdf"))
	require.True(t, Allowed("PHOTO.JPG"))
	require.True(t, Allowed("archive.zip"))
	require.False(t, Allowed("script.sh"))
	require.False(t, Allowed("binary.exe"))
	require.False(t, Allowed("noextension"))
}

func TestLocalStore_Save(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	url, err := store.Save("projects/3", "plan v2.pdf", strings.NewReader("content"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/projects/3/"))

	stored := filepath.Base(url)
	require.True(t, strings.HasSuffix(stored, "_plan_v2.pdf"), "spaces must be sanitized: %s", stored)
	require.NotContains(t, stored, " ")
}

func TestLocalStore_Save_WritesFile(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	url, err := store.Save("tasks/1/2", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	rel := strings.TrimPrefix(url, URLPrefix+"/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestLocalStore_Save_RejectsExtension(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	_, err := store.Save("projects/3", "malware.exe", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrExtensionNotAllowed)
}

func TestLocalStore_Save_StripsPathComponents(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	url, err := store.Save("projects/3", "../../etc/passwd.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/projects/3/"))
	require.NotContains(t, url, "..")
}

func TestLocalStore_Delete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)

	url, err := store.Save("projects/3", "plan.pdf", strings.NewReader("content"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(url))

	rel := strings.TrimPrefix(url, URLPrefix+"/")
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStore_Delete_RejectsUnmanagedURL(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	require.Error(t, store.Delete("/elsewhere/file.txt"))
	require.Error(t, store.Delete("/uploads/../secret.txt"))
}
