package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type value struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestStoreAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := Open(path)
	require.NoError(t, err)
	require.True(t, c.Enabled())

	require.NoError(t, c.Store("jane/resume/resume.docx", "sha-1", value{Name: "Jane", Items: []string{"a"}}))

	var got value
	hit, err := c.Lookup("jane/resume/resume.docx", "sha-1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value{Name: "Jane", Items: []string{"a"}}, got)

	hit, err = c.Lookup("jane/resume/resume.docx", "sha-2", &got)
	require.NoError(t, err)
	assert.False(t, hit, "stale stamp must miss")

	hit, err = c.Lookup("other", "sha-1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Store("key", "stamp", value{Name: "persisted"}))

	reopened, err := Open(path)
	require.NoError(t, err)

	var got value
	hit, err := reopened.Lookup("key", "stamp", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "persisted", got.Name)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDisabledCache(t *testing.T) {
	c, err := Open("")
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	require.NoError(t, c.Store("key", "stamp", value{}))

	hit, err := c.Lookup("key", "stamp", &value{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestEmptyStampIsNeverCached(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	require.NoError(t, c.Store("key", "", value{Name: "x"}))

	hit, err := c.Lookup("key", "", &value{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.True(t, c.Enabled())
}
