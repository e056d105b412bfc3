package kernel

import (
	"go.uber.org/zap"
)

// LogObserver writes one Debug line per operation and a Warn line for each
// rejected one.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates a LogObserver writing to logger.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger.Named("kernel")}
}

// Observe implements Observer.
func (o *LogObserver) Observe(e Event) {
	fields := []zap.Field{
		zap.String("op", string(e.Op)),
		zap.Stringer("pid", e.Proc),
		zap.Stringer("sid", e.Sema),
		zap.String("boot", e.Boot),
		zap.String("result", e.Result()),
	}
	if e.Err != nil {
		o.logger.Warn("Kernel operation rejected", append(fields, zap.Error(e.Err))...)
		return
	}
	if e.Op == OpBoot {
		o.logger.Info("Kernel booted", fields...)
		return
	}
	o.logger.Debug("Kernel operation",
		append(fields,
			zap.Int("procs_free", e.Stats.ProcsFree),
			zap.Int("sems_free", e.Stats.SemsFree),
			zap.Int("asl_len", e.Stats.ASLLen))...)
}
