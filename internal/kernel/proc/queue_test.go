package proc

import (
	"math/rand"
	"testing"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, capacity int) *Table {
	t.Helper()
	tbl, err := NewTable(capacity)
	require.NoError(t, err)
	return tbl
}

func allocN(t *testing.T, tbl *Table, n int) []Handle {
	t.Helper()
	out := make([]Handle, n)
	for i := range out {
		h, err := tbl.Alloc()
		require.NoError(t, err)
		out[i] = h
	}
	return out
}

func TestEmptyQueue(t *testing.T) {
	tbl := newTable(t, 2)
	q := tbl.EmptyQueue()

	assert.True(t, tbl.IsEmpty(q))
	assert.Equal(t, None, tbl.Head(q))
	assert.Equal(t, None, tbl.Dequeue(&q))
	assert.Equal(t, 0, tbl.Len(q))
	assert.Nil(t, tbl.Members(q))
}

func TestEnqueueDequeueFIFO(t *testing.T) {
	tbl := newTable(t, 3)
	ps := allocN(t, tbl, 3)
	q := tbl.EmptyQueue()

	for _, p := range ps {
		require.NoError(t, tbl.Enqueue(&q, p))
	}
	assert.False(t, tbl.IsEmpty(q))
	assert.Equal(t, ps[0], tbl.Head(q))
	assert.Equal(t, ps, tbl.Members(q))

	for _, want := range ps {
		assert.Equal(t, want, tbl.Dequeue(&q))
	}
	assert.Equal(t, None, tbl.Dequeue(&q))
	assert.True(t, tbl.IsEmpty(q))

	for _, p := range ps {
		assert.False(t, tbl.Queued(p))
	}
}

func TestFIFOProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tbl := newTable(t, 32)

	for round := 0; round < 50; round++ {
		tbl.Init()
		ps := allocN(t, tbl, 1+rng.Intn(32))
		rng.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })

		var q Queue
		for _, p := range ps {
			require.NoError(t, tbl.Enqueue(&q, p))
		}
		got := make([]Handle, 0, len(ps))
		for range ps {
			got = append(got, tbl.Dequeue(&q))
		}
		require.Equal(t, ps, got)
		require.True(t, tbl.IsEmpty(q))
	}
}

func TestEnqueueGuards(t *testing.T) {
	tbl := newTable(t, 3)
	ps := allocN(t, tbl, 2)
	var q, other Queue
	require.NoError(t, tbl.Enqueue(&q, ps[0]))

	assert.ErrorIs(t, tbl.Enqueue(nil, ps[1]), arena.ErrInvalidHandle)
	assert.ErrorIs(t, tbl.Enqueue(&q, None), arena.ErrInvalidHandle)
	assert.ErrorIs(t, tbl.Enqueue(&q, Handle(3)), arena.ErrInvalidHandle, "free PCB")
	assert.ErrorIs(t, tbl.Enqueue(&q, ps[0]), ErrQueued)
	assert.ErrorIs(t, tbl.Enqueue(&other, ps[0]), ErrQueued)

	assert.Equal(t, []Handle{ps[0]}, tbl.Members(q))
	assert.True(t, tbl.IsEmpty(other))
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name   string
		remove int
		want   []int
	}{
		{"head", 0, []int{1, 2, 3}},
		{"middle", 2, []int{0, 1, 3}},
		{"tail", 3, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTable(t, 4)
			ps := allocN(t, tbl, 4)
			var q Queue
			for _, p := range ps {
				require.NoError(t, tbl.Enqueue(&q, p))
			}

			got, err := tbl.Remove(&q, ps[tt.remove])
			require.NoError(t, err)
			assert.Equal(t, ps[tt.remove], got)
			assert.False(t, tbl.Queued(got))

			want := make([]Handle, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, ps[i])
			}
			assert.Equal(t, want, tbl.Members(q))

			// FIFO continues over the remaining members and a new tail
			extra := ps[tt.remove]
			require.NoError(t, tbl.Enqueue(&q, extra))
			for _, w := range append(want, extra) {
				assert.Equal(t, w, tbl.Dequeue(&q))
			}
		})
	}
}

func TestRemoveOnlyMember(t *testing.T) {
	tbl := newTable(t, 1)
	p := allocN(t, tbl, 1)[0]
	var q Queue
	require.NoError(t, tbl.Enqueue(&q, p))

	got, err := tbl.Remove(&q, p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.True(t, tbl.IsEmpty(q))
}

func TestEnqueueOnStaleQueue(t *testing.T) {
	tests := []struct {
		name  string
		alloc int
	}{
		{"tail slot free", 0},
		{"tail slot reused", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTable(t, 3)
			ps := allocN(t, tbl, 2)
			var q Queue
			require.NoError(t, tbl.Enqueue(&q, ps[0]))
			require.NoError(t, tbl.Enqueue(&q, ps[1]))

			tbl.Init()
			allocN(t, tbl, tt.alloc)
			p, err := tbl.Alloc()
			require.NoError(t, err)

			require.NoError(t, tbl.Enqueue(&q, p))
			assert.Equal(t, []Handle{p}, tbl.Members(q))
			assert.Equal(t, p, tbl.Head(q))
			assert.Equal(t, p, tbl.Dequeue(&q))
			assert.True(t, tbl.IsEmpty(q))
		})
	}
}

func TestRemoveNonMember(t *testing.T) {
	tbl := newTable(t, 5)
	ps := allocN(t, tbl, 5)
	var q, other Queue
	for _, p := range ps[:3] {
		require.NoError(t, tbl.Enqueue(&q, p))
	}
	require.NoError(t, tbl.Enqueue(&other, ps[3]))

	for _, p := range []Handle{ps[3], ps[4]} {
		got, err := tbl.Remove(&q, p)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, None, got)
	}
	assert.Equal(t, ps[:3], tbl.Members(q))
	assert.Equal(t, 3, tbl.Len(q))
	assert.Equal(t, []Handle{ps[3]}, tbl.Members(other))

	var empty Queue
	_, err := tbl.Remove(&empty, ps[0])
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = tbl.Remove(&q, None)
	assert.ErrorIs(t, err, arena.ErrInvalidHandle)
	_, err = tbl.Remove(nil, ps[0])
	assert.ErrorIs(t, err, arena.ErrInvalidHandle)
}

func TestStaleQueueAfterInit(t *testing.T) {
	tbl := newTable(t, 2)
	ps := allocN(t, tbl, 2)
	var q Queue
	require.NoError(t, tbl.Enqueue(&q, ps[0]))
	require.NoError(t, tbl.Enqueue(&q, ps[1]))

	tbl.Init()
	assert.Equal(t, None, tbl.Head(q))
	assert.Equal(t, None, tbl.Dequeue(&q))
	assert.True(t, tbl.IsEmpty(q))
}
