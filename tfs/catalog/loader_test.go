package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LoaderTestSuite struct {
	suite.Suite
	dir string
}

func (s *LoaderTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *LoaderTestSuite) write(name, content string) {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644))
}

func (s *LoaderTestSuite) TestDefaultsOnly() {
	c, err := Load(LoadOptions{})
	s.Require().NoError(err)

	s.True(c.Exclusions.HasExclusion("ac-dc", false))
	s.Contains(c.Noise.For("pt_BR"), "(ao vivo)")
	s.NotContains(c.Noise.For("en"), "(ao vivo)")
	s.Len(c.Sources, 3)
}

func (s *LoaderTestSuite) TestMergesEveryFormat() {
	s.write("exclusions.xml", `<exclusions>
  <exclusion><value>The</value></exclusion>
  <exclusion><value> Beatles </value></exclusion>
</exclusions>`)
	s.write("exclusions.yaml", "exclusions:\n  - queen\n  - the\n")
	s.write("exclusions.json", `{"exclusions": ["muse"]}`)
	s.write("exclusions.toml", `exclusions = ["abba"]`)
	s.write("noise.xml", `<noise><value>[remastered]</value></noise>`)
	s.write("noise_pt.yml", "noise: ['(remasterizado)']\n")
	s.write("unrelated.yaml", "foo: bar\n")

	c, err := Load(LoadOptions{SearchPaths: []string{s.dir, filepath.Join(s.dir, "missing")}, SkipDefaults: true})
	s.Require().NoError(err)

	s.Equal([]string{"abba", "beatles", "muse", "queen", "the"}, c.Exclusions.Entries())
	s.Equal([]string{"[remastered]"}, c.Noise.Entries())
	s.Equal([]string{"(remasterizado)"}, c.Noise.LocaleEntries("pt"))
	s.Contains(c.Noise.For("pt_BR"), "(remasterizado)")
	s.Len(c.Sources, 6)
}

func (s *LoaderTestSuite) TestMalformedSourceIsFatal() {
	cases := map[string]string{
		"exclusions.xml":  "<exclusions><exclusion>",
		"exclusions.yaml": "exclusions: [a, 1]\n",
		"exclusions.json": `{"exclusions": "not a list"}`,
		"noise.yaml":      "noise: []\nextra: true\n",
	}
	for name, content := range cases {
		s.Run(name, func() {
			dir := s.T().TempDir()
			s.Require().NoError(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

			_, err := Load(LoadOptions{SearchPaths: []string{dir}, SkipDefaults: true})
			s.Require().Error(err)

			var loadErr *common.CatalogLoadError
			s.True(errors.As(err, &loadErr))
			s.Equal(filepath.Join(dir, name), loadErr.Source)
		})
	}
}

func (s *LoaderTestSuite) TestEmptyRootIsValid() {
	s.write("exclusions.xml", "<exclusions></exclusions>")
	s.write("noise.yaml", "noise: []\n")

	c, err := Load(LoadOptions{SearchPaths: []string{s.dir}, SkipDefaults: true})
	s.Require().NoError(err)
	s.Equal(0, c.Exclusions.Len())
	s.Empty(c.Noise.Entries())
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		locale string
		ok     bool
	}{
		{"exclusions.xml", "exclusions", "", true},
		{"exclusions.YML", "exclusions", "", true},
		{"noise.toml", "noise", "", true},
		{"noise_pt_BR.json", "noise", "pt_BR", true},
		{"noise_.yaml", "", "", false},
		{"exclusions.txt", "", "", false},
		{"config.yaml", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, locale, ok := classifySource(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.locale, locale)
		})
	}
}

func TestEmpty(t *testing.T) {
	c := Empty()
	require.NotNil(t, c.Exclusions)
	assert.Empty(t, c.Noise.For("pt_BR"))
}
