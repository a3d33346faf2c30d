package party_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thresh-sig/core/pkg/party"
)

func TestNewListSortsAndRejectsDuplicates(t *testing.T) {
	list, err := party.NewList([]party.Participant{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []party.Participant{1, 2, 3}, list.IDs())

	_, err = party.NewList([]party.Participant{1, 1})
	assert.Error(t, err)

	_, err = party.NewList([]party.Participant{0, 1})
	assert.ErrorIs(t, err, party.ErrZeroParticipant)
}

func TestListOthersExcludesSelf(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []party.Participant{1, 3}, list.Others(2))
}

func TestListIntersection(t *testing.T) {
	a, err := party.NewList([]party.Participant{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := party.NewList([]party.Participant{2, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, []party.Participant{2, 4}, a.Intersection(b))
}

func TestMapPutIsIdempotent(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2})
	require.NoError(t, err)
	m := party.NewMap[int](list)

	duplicate := m.Put(1, 10)
	assert.False(t, duplicate)
	duplicate = m.Put(1, 99)
	assert.True(t, duplicate)

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestMapFullAndMissing(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2, 3})
	require.NoError(t, err)
	m := party.NewMap[string](list)

	assert.False(t, m.Full())
	assert.Equal(t, []party.Participant{1, 2, 3}, m.Missing())

	m.Put(1, "a")
	m.Put(3, "c")
	assert.False(t, m.Full())
	assert.Equal(t, []party.Participant{2}, m.Missing())

	m.Put(2, "b")
	assert.True(t, m.Full())
	assert.Empty(t, m.Missing())
}

func TestMapRangeVisitsInListOrder(t *testing.T) {
	list, err := party.NewList([]party.Participant{3, 1, 2})
	require.NoError(t, err)
	m := party.NewMap[int](list)
	m.Put(3, 30)
	m.Put(1, 10)

	var seen []party.Participant
	m.Range(func(id party.Participant, v int) {
		seen = append(seen, id)
	})
	assert.Equal(t, []party.Participant{1, 3}, seen)
}

func TestCounterMarkIsIdempotent(t *testing.T) {
	list, err := party.NewList([]party.Participant{1, 2})
	require.NoError(t, err)
	c := party.NewCounter(list)

	assert.False(t, c.Full())
	c.Mark(1)
	c.Mark(1)
	c.Mark(2)
	assert.True(t, c.Full())
}
