package options

import (
	"testing"

	"github.com/ZanzyTHEbar/tidyfs/tfs/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConflictStrategy(t *testing.T) {
	s, err := ParseConflictStrategy("")
	require.NoError(t, err)
	assert.Equal(t, ConflictTimestamp, s)

	s, err = ParseConflictStrategy(" Counter ")
	require.NoError(t, err)
	assert.Equal(t, ConflictCounter, s)

	_, err = ParseConflictStrategy("overwrite")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.RenamerConfig{
		IncludeSubdirectories: true,
		Extensions:            []string{"mp3"},
		MaxStripIterations:    12,
		CollisionStrategy:     "skip",
		SyncAudioTags:         false,
		DryRun:                true,
		WorkerCount:           3,
	}

	opts, err := FromConfig(cfg)
	require.NoError(t, err)

	assert.True(t, opts.IncludeSubdirectories)
	assert.Equal(t, []string{"mp3"}, opts.Extensions)
	assert.Equal(t, 12, opts.Rename.MaxStripIterations)
	assert.Equal(t, ConflictSkip, opts.Rename.Conflict)
	assert.False(t, opts.Rename.SyncAudioTags)
	assert.True(t, opts.Rename.DryRun)
	assert.Equal(t, 3, opts.WorkerCount)

	cfg.Extensions[0] = "wav"
	assert.Equal(t, []string{"mp3"}, opts.Extensions, "options must not alias the config slice")
}

func TestFromConfigKeepsDefaultsForZeroValues(t *testing.T) {
	opts, err := FromConfig(&config.RenamerConfig{})
	require.NoError(t, err)

	defaults := DefaultBatchOptions()
	assert.Equal(t, defaults.WorkerCount, opts.WorkerCount)
	assert.Equal(t, defaults.Rename.MaxStripIterations, opts.Rename.MaxStripIterations)
	assert.Equal(t, ConflictTimestamp, opts.Rename.Conflict)
}
