package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenameResultReplaceKeepsTrueOriginal(t *testing.T) {
	r := NewRenameResult("run", "/music")
	r.Record("/music/The Beatles - Help.mp3", "/music/01 help.mp3")

	r.Replace("/music/The Beatles - Help.mp3", "/music/The Beatles - Help!.mp3")

	assert.Equal(t, 1, r.Len())
	original, ok := r.OriginalOf("/music/The Beatles - Help!.mp3")
	assert.True(t, ok)
	assert.Equal(t, "/music/01 help.mp3", original)
}

func TestRenameResultReplaceUnrecorded(t *testing.T) {
	r := NewRenameResult("run", "/music")

	r.Replace("/music/a.mp3", "/music/B - C.mp3")
	original, ok := r.OriginalOf("/music/B - C.mp3")
	assert.True(t, ok)
	assert.Equal(t, "/music/a.mp3", original)

	// Renaming back onto the original leaves nothing to report
	r.Replace("/music/B - C.mp3", "/music/a.mp3")
	assert.Equal(t, 0, r.Len())
}

func TestRenameResultMerge(t *testing.T) {
	parent := NewRenameResult("run", "/root")
	parent.Record("/root/A.mp3", "/root/a.mp3")

	child := NewRenameResult("run", "/root/sub")
	child.Record("/root/sub/B.mp3", "/root/sub/b.mp3")

	parent.Merge(child)
	parent.Merge(nil)

	assert.Equal(t, []string{"/root/A.mp3", "/root/sub/B.mp3"}, parent.SortedNewPaths())
	assert.Empty(t, parent.Duplicated)
	// The child is untouched by the merge
	assert.Equal(t, 1, child.Len())
}

func TestNameSet(t *testing.T) {
	s := NewNameSet("a.mp3", "b.mp3")
	assert.True(t, s.Contains("a.mp3"))
	assert.False(t, s.Contains("c.mp3"))
	s.Add("c.mp3")
	assert.True(t, s.Contains("c.mp3"))
}

func TestParseClassification(t *testing.T) {
	c, ok := ParseClassification(" audio ")
	assert.True(t, ok)
	assert.Equal(t, ClassAudio, c)

	c, ok = ParseClassification("podcast")
	assert.False(t, ok)
	assert.Equal(t, ClassOther, c)
}

func TestCollisionScope(t *testing.T) {
	scope := NewCollisionScope("/music", NewNameSet("Song.mp3"))

	kind, taken := scope.Taken("Song.mp3")
	assert.True(t, taken)
	assert.Equal(t, ConflictSnapshot, kind)

	_, taken = scope.Taken("Other.mp3")
	assert.False(t, taken)

	scope.Claim("Other.mp3")
	kind, taken = scope.Taken("Other.mp3")
	assert.True(t, taken)
	assert.Equal(t, ConflictClaimed, kind)

	empty := NewCollisionScope("/x", nil)
	_, taken = empty.Taken("a")
	assert.False(t, taken)
}
