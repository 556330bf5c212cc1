package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
	"github.com/ZanzyTHEbar/tidyfs/tfs/postprocess"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Song.mp3")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xAA}, 512), 0o644))
	require.NoError(t, postprocess.ID3Store{}.Write(path, postprocess.Tags{Artist: "Queen", Title: "Innuendo"}))

	md, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, types.ClassAudio, md.Classification)
	assert.Equal(t, "Audio files", md.Group)
	assert.Equal(t, "mp3", md.Extension)
	require.NotNil(t, md.Tags, md.TagError)
	assert.Equal(t, "Queen", md.Tags.Artist)
	assert.Equal(t, "Innuendo", md.Tags.Title)
	assert.Nil(t, md.EXIF)
}

func TestInspectImageWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not really a jpeg"), 0o644))

	md, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, types.ClassImage, md.Classification)
	assert.Empty(t, md.EXIF)
	assert.Empty(t, md.EXIFError)
	assert.Nil(t, md.Tags)
}

func TestInspectOtherAndErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	md, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, types.ClassOther, md.Classification)
	assert.Equal(t, int64(2), md.Size)

	_, err = Inspect(dir)
	assert.Error(t, err)

	_, err = Inspect(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}
