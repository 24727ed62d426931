package facematch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVEmbeddingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"face_id,entity_id,name,embedding\n"+
			"F001,E001,Anil Kumar,\"[1.0, 0.0]\"\n"+
			"F002,E002,Priya Sharma,\"[0.0, 1.0]\"\n")

	gallery := NewGallery()
	require.NoError(t, NewLoader(noopLogger()).LoadCSV(gallery, path))

	assert.Equal(t, 2, gallery.Size())
	assert.Equal(t, 2, gallery.Dim())

	entries := gallery.Entries()
	assert.Equal(t, "F001", entries[0].FaceID)
	assert.Equal(t, "E001", entries[0].EntityID)
	assert.Equal(t, "Priya Sharma", entries[1].Name)
}

func TestLoadCSVNumericColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"face_id,d0,d1,d2\n"+
			"F001,0.5,0.5,0\n"+
			"F002,0,0.1,0.9\n")

	gallery := NewGallery()
	require.NoError(t, NewLoader(noopLogger()).LoadCSV(gallery, path))

	assert.Equal(t, 2, gallery.Size())
	assert.Equal(t, 3, gallery.Dim())
}

func TestLoadCSVSingleDimension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"face_id,d0\n"+
			"F001,1.0\n"+
			"F002,-1.0\n")

	gallery := NewGallery()
	require.NoError(t, NewLoader(noopLogger()).LoadCSV(gallery, path))

	assert.Equal(t, 2, gallery.Size())
	assert.Equal(t, 1, gallery.Dim())
}

func TestLoadCSVNoEmbeddingColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"face_id,entity_id,name\nF001,E001,Anil Kumar\n")

	err := NewLoader(noopLogger()).LoadCSV(NewGallery(), path)
	assert.Error(t, err)
}

func TestLoadCSVMissingFaceID(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"id,embedding\nF001,\"[1.0]\"\n")

	err := NewLoader(noopLogger()).LoadCSV(NewGallery(), path)
	assert.Error(t, err)
}

func TestLoadCSVNotNumeric(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "faces.csv",
		"face_id,d0,d1\nF001,abc,1.0\n")

	err := NewLoader(noopLogger()).LoadCSV(NewGallery(), path)
	assert.Error(t, err)
}

func TestLoadImageDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "F001.jpg", "fake image bytes one")
	writeFile(t, dir, "F002.png", "fake image bytes two")
	writeFile(t, dir, "notes.txt", "not an image")

	gallery := NewGallery()
	require.NoError(t, NewLoader(noopLogger()).LoadImageDir(gallery, dir))

	assert.Equal(t, 2, gallery.Size())
	assert.Equal(t, 128, gallery.Dim())

	entries := gallery.Entries()
	assert.Equal(t, "F001", entries[0].FaceID)
	assert.Equal(t, "E001", entries[0].EntityID)
}

func TestBootstrapFallsBackToImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "F010.jpg", "fake image")

	gallery := NewGallery()
	NewLoader(noopLogger()).Bootstrap(gallery, filepath.Join(dir, "missing.csv"), dir)

	assert.Equal(t, 1, gallery.Size())
}

func TestBootstrapEmptyWhenNoSources(t *testing.T) {
	gallery := NewGallery()
	NewLoader(noopLogger()).Bootstrap(gallery, "", "")

	assert.Equal(t, 0, gallery.Size())
}
