package directory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixIgnore []string

func (p prefixIgnore) MatchesPath(path string) bool {
	for _, pre := range p {
		if path == pre || filepath.Dir(path) == pre || path == pre+"/" {
			return true
		}
	}
	return false
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ext  string
		want types.Classification
	}{
		{"mp3", types.ClassAudio},
		{".MP3", types.ClassAudio},
		{"mkv", types.ClassVideo},
		{"JPEG", types.ClassImage},
		{"txt", types.ClassText},
		{"pdf", types.ClassOther},
		{"", types.ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ext))
		})
	}
}

func TestExtensionGroups(t *testing.T) {
	assert.Equal(t, []string{"flac", "m4a", "mp3", "ogg", "wav", "wma"}, ExtensionsFor(types.ClassAudio))
	assert.Empty(t, ExtensionsFor(types.ClassOther))
	assert.Len(t, KnownExtensions(), 19)
	assert.Equal(t, "Audio files", GroupDescription(types.ClassAudio))
	assert.Equal(t, "Other files", GroupDescription("BOGUS"))
}

func TestExtensionFilter(t *testing.T) {
	f, err := NewExtensionFilter("music", false, ".MP3", "wav", " ")
	require.NoError(t, err)

	assert.True(t, f.Accepts("Song.mp3", false))
	assert.True(t, f.Accepts("SONG.MP3", false))
	assert.True(t, f.Accepts("a.b.wav", false))
	assert.False(t, f.Accepts("mp3", false))
	assert.False(t, f.Accepts("cover.jpg", false))
	assert.False(t, f.Accepts("sub", true))
	assert.Equal(t, []string{"mp3", "wav"}, f.Extensions())
	assert.Equal(t, "music", f.Description())

	withDirs := f.WithDirectories(true)
	assert.True(t, withDirs.Accepts("sub", true))
	assert.False(t, f.AcceptsDirectories(), "original filter is unchanged")

	_, err = NewExtensionFilter("nothing", false)
	assert.ErrorIs(t, err, ErrEmptyFilter)

	dirsOnly, err := NewExtensionFilter("dirs", true)
	require.NoError(t, err)
	assert.True(t, dirsOnly.Accepts("any", true))
	assert.False(t, dirsOnly.Accepts("a.mp3", false))
}

type suffixFilter string

func (s suffixFilter) Accepts(name string, isDir bool) bool {
	return !isDir && filepath.Ext(name) == string(s)
}
func (s suffixFilter) AcceptsDirectories() bool { return false }

func TestWithDirectoriesWrapsForeignFilters(t *testing.T) {
	f := WithDirectories(suffixFilter(".mp3"), true)
	assert.True(t, f.AcceptsDirectories())
	assert.True(t, f.Accepts("dir", true))
	assert.True(t, f.Accepts("a.mp3", false))
	assert.False(t, f.Accepts("a.wav", false))

	ef := WithDirectories(AllAcceptedFilter(true), false)
	assert.False(t, ef.AcceptsDirectories())
}

func TestFilterForClassification(t *testing.T) {
	f, err := FilterForClassification(types.ClassImage, false)
	require.NoError(t, err)
	assert.True(t, f.Accepts("photo.PNG", false))
	assert.False(t, f.Accepts("song.mp3", false))

	_, err = FilterForClassification(types.ClassOther, false)
	assert.ErrorIs(t, err, ErrEmptyFilter)
}

func TestNewViewRejectsBadTargets(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mp3")
	touch(t, file)

	for _, target := range []string{"", filepath.Join(dir, "missing"), file} {
		_, err := NewView(target)
		var cfgErr *common.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr), "target %q", target)
	}
}

func TestListingSortsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.mp3", "A.mp3", "a.mp3", "C.mp3", "notes.pdf"} {
		touch(t, filepath.Join(dir, n))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Sub"), 0o755))

	v, err := NewView(dir)
	require.NoError(t, err)

	entries, err := v.Listing(AllAcceptedFilter(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.mp3", "a.mp3", "b.mp3", "C.mp3"}, names(entries))

	entries, err = v.Listing(AllAcceptedFilter(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"A.mp3", "a.mp3", "b.mp3", "C.mp3", "Sub"}, names(entries))
	assert.True(t, entries[4].IsDir())

	snapshot, err := v.Names()
	require.NoError(t, err)
	assert.True(t, snapshot.Contains("notes.pdf"), "snapshot is unfiltered")
	assert.True(t, snapshot.Contains("Sub"))
	assert.Len(t, snapshot, 6)
}

func TestListingRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.mp3"))
	touch(t, filepath.Join(dir, "inner", "m.mp3"))
	touch(t, filepath.Join(dir, "inner", "deeper", "a.mp3"))
	touch(t, filepath.Join(dir, "inner", "skip.pdf"))

	v, err := NewView(dir)
	require.NoError(t, err)

	entries, err := v.ListingRecursive(AllAcceptedFilter(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "m.mp3", "z.mp3"}, names(entries))

	entries, err = v.ListingRecursive(AllAcceptedFilter(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "deeper", "inner", "m.mp3", "z.mp3"}, names(entries))
}

func TestListingHonoursIgnore(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "keep.mp3"))
	touch(t, filepath.Join(dir, "drop.mp3"))
	touch(t, filepath.Join(dir, "vendor", "x.mp3"))

	v, err := NewView(dir)
	require.NoError(t, err)
	v = v.WithIgnore(dir, prefixIgnore{"drop.mp3", "vendor"})

	entries, err := v.ListingRecursive(AllAcceptedFilter(true))
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.mp3"}, names(entries))

	sub, err := v.Sub(filepath.Join(dir, "vendor"))
	require.NoError(t, err)
	entries, err = sub.Listing(AllAcceptedFilter(false))
	require.NoError(t, err)
	assert.Empty(t, entries, "sub views inherit the ignore root")
}
