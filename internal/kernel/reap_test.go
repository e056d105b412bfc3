package kernel_test

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/arena"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// root -> {a -> {c}, b}; c is blocked on s, b is untouched.
func buildFamily(t *testing.T, n *kernel.Nucleus) (root, a, b, c, s kernel.Handle) {
	t.Helper()
	ps := testutil.AllocProcs(t, n, 4)
	root, a, b, c = ps[0], ps[1], ps[2], ps[3]
	require.NoError(t, n.AttachChild(root, b))
	require.NoError(t, n.AttachChild(root, a))
	require.NoError(t, n.AttachChild(a, c))

	var err error
	s, err = n.InitSemaphore(0)
	require.NoError(t, err)
	require.NoError(t, n.InsertBlocked(s, c))
	return root, a, b, c, s
}

func TestReapReleasesSubtree(t *testing.T) {
	n := testutil.NewNucleus(t, 5, 1)
	root, a, b, c, s := buildFamily(t, n)

	got, err := n.Reap(a)
	require.NoError(t, err)
	assert.Equal(t, []kernel.Handle{a, c}, got)

	assert.False(t, n.Procs().Live(a))
	assert.False(t, n.Procs().Live(c))
	assert.Equal(t, []kernel.Handle{b}, n.Procs().Children(root))
	assert.Equal(t, sema.StateFree, n.ASL().State(s), "last blocked member leaves the ASL")
	assert.Equal(t, kernel.Stats{ProcsFree: 3, SemsFree: 1, ASLLen: 0}, n.Stats())
}

func TestReapRoot(t *testing.T) {
	n := testutil.NewNucleus(t, 4, 1)
	root, _, _, _, _ := buildFamily(t, n)

	got, err := n.Reap(root)
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, root, got[0])
	assert.Equal(t, 4, n.Stats().ProcsFree)
}

func TestReapKeepsOtherBlockedProcesses(t *testing.T) {
	n := testutil.NewNucleus(t, 5, 1)
	_, a, _, _, s := buildFamily(t, n)
	outsider, err := n.AllocProc()
	require.NoError(t, err)
	require.NoError(t, n.InsertBlocked(s, outsider))

	_, err = n.Reap(a)
	require.NoError(t, err)
	assert.Equal(t, sema.StateActive, n.ASL().State(s))
	assert.Equal(t, []kernel.Handle{outsider}, n.ASL().Blocked(s))
}

func TestReapRefusesQueuedMember(t *testing.T) {
	rec := &testutil.Recorder{}
	n := testutil.NewNucleus(t, 4, 1, kernel.WithObserver(rec))
	root, a, b, c, s := buildFamily(t, n)
	require.NoError(t, n.Enqueue(n.Queue("ready"), b))
	before := n.Snapshot()

	got, err := n.Reap(root)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, proc.ErrQueued)
	assert.Equal(t, b, rec.Last().Proc)

	after := n.Snapshot()
	assert.Equal(t, before.Procs, after.Procs)
	assert.Equal(t, before.ASL, after.ASL)
	assert.Equal(t, []kernel.Handle{a, b}, n.Procs().Children(root))
	assert.Equal(t, s, n.Procs().BlockedOn(c))
}

func TestReapInvalid(t *testing.T) {
	n := testutil.NewNucleus(t, 1, 1)
	_, err := n.Reap(kernel.None)
	assert.ErrorIs(t, err, arena.ErrInvalidHandle)
	_, err = n.Reap(1)
	assert.ErrorIs(t, err, arena.ErrInvalidHandle)
}
