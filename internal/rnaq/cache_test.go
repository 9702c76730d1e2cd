package rnaq

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()

	entry := CacheEntry{
		Structure:   "1FFK",
		Score:       88.4,
		Grade:       GradeExcellent,
		TotalPairs:  1200,
		Nucleotides: 2800,
	}
	require.NoError(t, cache.Put(entry))

	got, ok, err := cache.Get("1FFK")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry, got)

	// lookups are case-insensitive
	_, ok, err = cache.Get("1ffk")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = cache.Get("9XYZ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLCache_PutReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Put(CacheEntry{Structure: "1FFK", Score: 70, Grade: GradeGood}))
	require.NoError(t, cache.Put(CacheEntry{Structure: "1FFK", Score: 91.5, Grade: GradeExcellent}))

	got, ok, err := cache.Get("1FFK")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 91.5, got.Score)
	assert.Equal(t, GradeExcellent, got.Grade)

	entries, err := cache.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(CacheEntry{Structure: "4V4Q", Score: 62.3, Grade: GradeFair}))
	require.NoError(t, cache.Close())

	reopened, err := OpenCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get("4V4Q")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 62.3, got.Score)
}

func TestMemCache(t *testing.T) {
	cache := NewMemCache()

	_, ok, err := cache.Get("1FFK")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put(CacheEntry{Structure: "1ffk", Score: 80, Grade: GradeGood}))
	require.NoError(t, cache.Put(CacheEntry{Structure: "1ABC", Score: 90, Grade: GradeExcellent}))

	got, ok, err := cache.Get("1FFK")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 80.0, got.Score)

	entries, err := cache.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1ABC", entries[0].Structure, "listing is sorted")
}
