package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasExclusionIsCaseInsensitive(t *testing.T) {
	c := NewExclusionCatalog("Disc", " AC-DC ", "", "disc")

	assert.Equal(t, c.HasExclusion("Disc", false), c.HasExclusion("disc", false))
	assert.True(t, c.HasExclusion("DISC", false))
	assert.True(t, c.HasExclusion("ac-dc", false))
	assert.False(t, c.HasExclusion("discs", false))
	assert.True(t, c.HasExclusion("discs", true))
	assert.True(t, c.HasExclusion("live-AC-DC-bootleg", true))
	assert.False(t, c.HasExclusion("", true))
	assert.Equal(t, []string{"ac-dc", "disc"}, c.Entries())
	assert.Equal(t, 2, c.Len())
}

func TestHasPrefix(t *testing.T) {
	c := NewExclusionCatalog("2pac", "50 cent", "50")

	p, ok := c.HasPrefix("2Pac - changes")
	assert.True(t, ok)
	assert.Equal(t, "2pac", p)

	p, ok = c.HasPrefix("50 cent - in da club")
	assert.True(t, ok)
	assert.Equal(t, "50 cent", p, "longest prefix wins")

	_, ok = c.HasPrefix("01 song")
	assert.False(t, ok)

	_, ok = NewExclusionCatalog().HasPrefix("anything")
	assert.False(t, ok)
}

func TestCovers(t *testing.T) {
	c := NewExclusionCatalog("ac-dc")
	text := "AC-DC - highway to hell"

	assert.True(t, c.Covers(text, 2), "internal dash is protected")
	assert.False(t, c.Covers(text, 6), "separator dash is not")
	assert.False(t, c.Covers(text, -1))
	assert.False(t, c.Covers(text, len(text)))

	// second occurrence is found too
	assert.True(t, c.Covers("x - ac-dc", 6))
}
