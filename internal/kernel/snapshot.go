package kernel

import (
	"fmt"
	"io"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/proc"
	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel/sema"
	"github.com/bytedance/sonic"
)

// ProcInfo is one allocated PCB with its links.
type ProcInfo struct {
	Handle Handle `json:"pid"`
	proc.Links
}

// Snapshot is a point-in-time copy of the whole kernel state.
type Snapshot struct {
	Boot      string              `json:"boot"`
	TakenAt   time.Time           `json:"taken_at"`
	Order     string              `json:"asl_order"`
	MaxProc   int                 `json:"max_proc"`
	MaxSem    int                 `json:"max_sem"`
	Stats     Stats               `json:"stats"`
	FreeProcs []Handle            `json:"free_procs"`
	FreeSems  []Handle            `json:"free_sems"`
	Procs     []ProcInfo          `json:"procs"`
	Sems      []sema.Info         `json:"sems"`
	ASL       []Handle            `json:"asl"`
	Queues    map[string][]Handle `json:"queues"`
}

// Snapshot copies the current state. The result shares nothing with the
// Nucleus.
func (n *Nucleus) Snapshot() Snapshot {
	snap := Snapshot{
		Boot:      n.boot.String(),
		TakenAt:   n.now(),
		Order:     n.asl.Order().String(),
		MaxProc:   n.procs.Cap(),
		MaxSem:    n.asl.Cap(),
		Stats:     n.Stats(),
		FreeProcs: n.procs.FreeList(),
		FreeSems:  n.asl.FreeList(),
		Procs:     []ProcInfo{},
		Sems:      []sema.Info{},
		ASL:       n.asl.Active(),
		Queues:    make(map[string][]Handle, len(n.queues)),
	}
	n.procs.Each(func(p Handle, l proc.Links) {
		snap.Procs = append(snap.Procs, ProcInfo{Handle: p, Links: l})
	})
	n.asl.Each(func(info sema.Info) {
		snap.Sems = append(snap.Sems, info)
	})
	for name, q := range n.queues {
		snap.Queues[name] = n.procs.Members(*q)
	}
	return snap
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap Snapshot) error {
	data, err := sonic.ConfigStd.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	data, err := io.ReadAll(r)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
