package commit_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/pkg/commit"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	value := []byte("polynomial commitments go here")
	c, r, err := commit.Commit(rand.Reader, value)
	require.NoError(t, err)
	assert.True(t, commit.Open(c, r, value))
}

func TestOpenRejectsWrongValue(t *testing.T) {
	c, r, err := commit.Commit(rand.Reader, []byte("original"))
	require.NoError(t, err)
	assert.False(t, commit.Open(c, r, []byte("tampered")))
}

func TestOpenRejectsWrongRandomizer(t *testing.T) {
	c, _, err := commit.Commit(rand.Reader, []byte("value"))
	require.NoError(t, err)
	var wrongR [commit.RandomizerSize]byte
	_, err = rand.Read(wrongR[:])
	require.NoError(t, err)
	assert.False(t, commit.Open(c, wrongR, []byte("value")))
}

func TestCommitBindsToTheExactRandomizer(t *testing.T) {
	value := []byte("fixed value")
	c1, r1, err := commit.Commit(rand.Reader, value)
	require.NoError(t, err)
	c2, r2, err := commit.Commit(rand.Reader, value)
	require.NoError(t, err)

	assert.True(t, commit.Open(c1, r1, value))
	assert.True(t, commit.Open(c2, r2, value))
	// Two independent commitments to the same value use different
	// randomizers and so must not collide.
	assert.NotEqual(t, c1, c2)
	assert.False(t, commit.Open(c1, r2, value))
}
