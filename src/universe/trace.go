package universe

import "log"

// Tracer receives per-cell diagnostics from Tick. Tracing never influences
// the computed generation.
type Tracer interface {
	// CellEvaluated is called for every cell with its state before the tick
	// and its live neighbour count.
	CellEvaluated(row, col uint32, alive bool, neighbors uint8)
	// GenerationComputed is called once per tick with the new generation,
	// before it replaces the current one. next must not be retained.
	GenerationComputed(width, height uint32, next []uint32)
}

//LogTracer writes the diagnostics to a log.Logger
type LogTracer struct {
	l *log.Logger
}

// NewLogTracer returns a Tracer printing to l, or to the standard logger when
// l is nil.
func NewLogTracer(l *log.Logger) *LogTracer {
	if l == nil {
		l = log.Default()
	}
	return &LogTracer{l: l}
}

func (t *LogTracer) CellEvaluated(row, col uint32, alive bool, neighbors uint8) {
	state := Dead
	if alive {
		state = Alive
	}
	t.l.Printf("cell: [%d, %d] is initially %v and has %d live neighbors.", row, col, state, neighbors)
}

func (t *LogTracer) GenerationComputed(width, height uint32, next []uint32) {
	t.l.Printf("     it becomes:\n%s", renderWords(width, height, next))
}
