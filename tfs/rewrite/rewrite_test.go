package rewrite

import (
	"testing"
	"unicode"

	"github.com/ZanzyTHEbar/tidyfs/tfs/catalog"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRewriter(exclusions []string, noise []string) *TokenRewriter {
	return NewTokenRewriter(catalog.NewExclusionCatalog(exclusions...), noise, 0)
}

func TestFold(t *testing.T) {
	r := newRewriter(nil, []string{"_", "www.", "[official video]"})

	tests := []struct {
		in   string
		want string
	}{
		{"the+beatles - let+it+be", "the beatles - let it be"},
		{"www.music_zone - song [official video]", "music zone - song"},
		{"  plain  ", "plain"},
		{"+++", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Fold(tt.in))
		})
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	r := newRewriter(nil, []string{"_", "(ao vivo)", "www."})
	inputs := []string{
		"a+b_c (ao vivo)",
		"www.www.site",
		"((ao vivo)ao vivo)",
		"01 - track_one",
	}
	for _, in := range inputs {
		once := r.Fold(in)
		assert.Equal(t, once, r.Fold(once), in)
	}
}

func TestFoldIsIdempotentWithDefaultNoise(t *testing.T) {
	r := newRewriter(nil, []string{
		"[official video]", "(official video)", "(official audio)",
		"(lyrics)", ".com", "www.", "[hq]", "(hq)", "_",
	})
	inputs := []string{
		"song_[official_video]",
		"song_(official_audio)_(lyrics)",
		"www_.com",
		"track [hq]_(hq)",
	}
	for _, in := range inputs {
		once := r.Fold(in)
		assert.Equal(t, once, r.Fold(once), in)
	}
	assert.Equal(t, "song", r.Fold("song_[official_video]"))
	assert.Equal(t, "song", r.Fold("song_(official_audio)_(lyrics)"))
}

func TestUnescapeXML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a&amp;b", "a&b"},
		{"&lt;tag&gt;", "<tag>"},
		{"&quot;q&quot; &apos;s", `"q" 's`},
		{"rock &#39;n&#x27; roll", "rock 'n' roll"},
		{"&#X41;&#66;", "AB"},
		{"good&times", "good&times"},
		{"rock&regular", "rock&regular"},
		{"my&notes", "my&notes"},
		{"&times;", "&times;"},
		{"&amp", "&amp"},
		{"&#0;&#xD800;", "&#0;&#xD800;"},
		{"&amp;amp;", "&amp;"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UnescapeXML(tt.in))
		})
	}
}

func TestStripLeading(t *testing.T) {
	r := newRewriter([]string{"2pac", "50 cent"}, nil)

	tests := []struct {
		in   string
		want string
	}{
		{"01 - song", "song"},
		{"01. 02 - [] song", "song"},
		{"[x] song", "x] song"},
		{"2pac - changes", "2pac - changes"},
		{"50 cent - in da club", "50 cent - in da club"},
		{"song 01", "song 01"},
		{"123", ""},
		{"", ""},
		{"#1 émile", "émile"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.StripLeading(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripLeadingTerminates(t *testing.T) {
	r := newRewriter(nil, nil)
	inputs := []string{"9 9 9 x", "--- ... a", "A1 b", "Ω ω", "12 34 56 78 z 90"}
	for _, in := range inputs {
		out, err := r.StripLeading(in)
		require.NoError(t, err, in)
		if out != "" {
			assert.True(t, unicode.IsLower([]rune(out)[0]), "%q -> %q", in, out)
		}
	}
}

func TestStripLeadingBound(t *testing.T) {
	r := NewTokenRewriter(catalog.NewExclusionCatalog(), nil, 2)
	_, err := r.StripLeading("1 2 3 4 5 a")
	assert.ErrorIs(t, err, common.ErrStripBoundReached)
}

func TestRewrite(t *testing.T) {
	r := newRewriter([]string{"the", "beatles"}, []string{"_"})

	got, err := r.Rewrite("THE+BEATLES - 01 - Let It Be")
	require.NoError(t, err)
	assert.Equal(t, "the beatles - 01 - let it be", got)

	got, err = r.Rewrite("03_-_Something")
	require.NoError(t, err)
	assert.Equal(t, "something", got)
}

func TestWordAround(t *testing.T) {
	text := "ac-dc - highway"
	assert.Equal(t, "ac-dc", WordAround(text, 2))
	assert.Equal(t, "-", WordAround(text, 6))
	assert.Equal(t, "highway", WordAround(text, len(text)-1))
	assert.Equal(t, "", WordAround(text, 5))
	assert.Equal(t, "", WordAround(text, 99))
}

func TestSplitOnDash(t *testing.T) {
	ex := catalog.NewExclusionCatalog("ac-dc", "jay-z", "blink-182")

	tests := []struct {
		name        string
		left, right string
		ok          bool
	}{
		{"ac-dc - highway to hell", "ac-dc ", " highway to hell", true},
		{"artist-title", "artist", "title", true},
		{"jay-z", "jay-z", "", false},
		{"blink-182 - all the small things", "blink-182 ", " all the small things", true},
		{"no separator here", "no separator here", "", false},
		{"feat.jay-z-remix - song", "feat.jay-z-remix ", " song", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right, ok := SplitOnDash(tt.name, ex)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.left, left)
			assert.Equal(t, tt.right, right)
		})
	}
}

func TestSplitOnDashProtectsMultiWordLiterals(t *testing.T) {
	ex := catalog.NewExclusionCatalog("simon - garfunkel")

	left, right, ok := SplitOnDash("simon - garfunkel - the boxer", ex)
	require.True(t, ok)
	assert.Equal(t, "simon - garfunkel ", left)
	assert.Equal(t, " the boxer", right)

	left, right, ok = SplitOnDash("simon - the boxer", ex)
	require.True(t, ok)
	assert.Equal(t, "simon ", left)
	assert.Equal(t, " the boxer", right)

	_, _, ok = SplitOnDash("simon - garfunkel", ex)
	assert.False(t, ok)
}

func TestSplitNeverCutsProtectedLiterals(t *testing.T) {
	ex := catalog.NewExclusionCatalog("ac-dc", "a-ha", "b-52's")
	names := []string{
		"ac-dc-live", "x-ac-dc", "a-ha - take on me", "the b-52's - roam",
		"ac-dc", "-ac-dc-", "a-ha-a-ha",
	}
	for _, name := range names {
		left, right, ok := SplitOnDash(name, ex)
		if !ok {
			continue
		}
		cut := len(left)
		for _, e := range ex.Entries() {
			for start := 0; start+len(e) <= len(name); start++ {
				if name[start:start+len(e)] == e {
					assert.False(t, start <= cut && cut < start+len(e),
						"%q split inside %q", name, e)
				}
			}
		}
		assert.Equal(t, name, left+"-"+right)
	}
}

func TestStripDashesAndJoin(t *testing.T) {
	ex := catalog.NewExclusionCatalog("ac-dc")

	assert.Equal(t, "01 let it be", StripDashes(" 01 - let it be", ex))
	assert.Equal(t, "ac-dc live", StripDashes("ac-dc - live", ex))
	assert.Equal(t, "", StripDashes(" - ", ex))

	assert.Equal(t, "the beatles - 01 let it be", JoinHalves("the beatles ", " 01 - let it be", ex))
	assert.Equal(t, "title", JoinHalves(" - ", "title", ex))
	assert.Equal(t, "artist", JoinHalves("artist", "  ", ex))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"the beatles - let it be.mp3", "The Beatles - Let It Be.mp3"},
		{"ac-dc - t.n.t.mp3", "Ac-dc - T.n.t.mp3"},
		{"01 SONG.MP3", "01 Song.mp3"},
		{"(1700000000000) song.mp3", "(1700000000000) Song.mp3"},
		{"émile  ünal", "Émile  Ünal"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleCase(tt.in))
		})
	}
}
