package proc

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocUntilExhausted(t *testing.T) {
	tbl := newTable(t, 3)
	ps := allocN(t, tbl, 3)

	_, err := tbl.Alloc()
	assert.ErrorIs(t, err, arena.ErrExhausted)

	require.NoError(t, tbl.Release(ps[1]))
	got, err := tbl.Alloc()
	require.NoError(t, err)
	assert.Equal(t, ps[1], got)
}

func TestReleaseRejectsLinked(t *testing.T) {
	tbl := newTable(t, 3)
	ps := allocN(t, tbl, 3)
	var q Queue
	require.NoError(t, tbl.Enqueue(&q, ps[0]))
	require.NoError(t, tbl.AttachChild(ps[1], ps[2]))

	for _, p := range ps {
		assert.ErrorIs(t, tbl.Release(p), ErrLinked)
	}
	assert.Equal(t, 0, tbl.Free())

	tbl.Dequeue(&q)
	_, err := tbl.Detach(ps[2])
	require.NoError(t, err)
	for _, p := range ps {
		require.NoError(t, tbl.Release(p))
	}
	assert.Equal(t, 3, tbl.Free())
}

func TestReleaseInvalid(t *testing.T) {
	tbl := newTable(t, 2)
	p := allocN(t, tbl, 1)[0]
	require.NoError(t, tbl.Release(p))

	assert.ErrorIs(t, tbl.Release(None), arena.ErrInvalidHandle)
	assert.ErrorIs(t, tbl.Release(p), arena.ErrDoubleRelease)
	assert.Equal(t, 2, tbl.Free())
	assert.Len(t, tbl.FreeList(), 2)
}

func TestAllocClearsLinks(t *testing.T) {
	tbl := newTable(t, 2)
	ps := allocN(t, tbl, 2)
	tbl.SetBlockedOn(ps[0], arena.Handle(5))
	assert.Equal(t, arena.Handle(5), tbl.BlockedOn(ps[0]))
	tbl.SetBlockedOn(ps[0], None)

	require.NoError(t, tbl.Release(ps[0]))
	again, err := tbl.Alloc()
	require.NoError(t, err)

	l, ok := tbl.Links(again)
	require.True(t, ok)
	assert.Equal(t, Links{}, l)

	_, ok = tbl.Links(Handle(9))
	assert.False(t, ok)
	assert.Equal(t, None, tbl.BlockedOn(Handle(9)))
}

func TestEachReportsLinks(t *testing.T) {
	tbl := newTable(t, 3)
	ps := allocN(t, tbl, 2)
	require.NoError(t, tbl.AttachChild(ps[0], ps[1]))

	got := map[Handle]Links{}
	tbl.Each(func(h Handle, l Links) { got[h] = l })

	assert.Len(t, got, 2)
	assert.Equal(t, ps[1], got[ps[0]].Child)
	assert.Equal(t, ps[0], got[ps[1]].Parent)
}

func TestNewTableRejectsZeroCapacity(t *testing.T) {
	_, err := NewTable(0)
	assert.ErrorIs(t, err, arena.ErrInvalidCapacity)
}
