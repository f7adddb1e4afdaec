// Package universe implements the Conway "Life" engine on a toroidal grid.
//
// A Universe is single-threaded: it has no internal locking and must not be
// used from several goroutines at once. Hosts that need concurrent access
// serialize it themselves (see package host).
package universe

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"

	"bitlife/src/bitset"
)

//Cell is the state of one grid position
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

func (c Cell) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}

//Coord addresses one cell, row-major
type Coord struct {
	Row uint32
	Col uint32
}

//default dimensions of a randomly seeded universe
const (
	DefWidth  = 64
	DefHeight = 64
)

//Universe is the cell field together with the scratch buffer for the next generation
type Universe struct {
	width  uint32
	height uint32
	cells  *bitset.BitSet
	next   *bitset.BitSet
	stable bool
	tracer Tracer
}

type settings struct {
	width   uint32
	height  uint32
	seed    uint64
	entropy io.Reader
	tracer  Tracer
}

// Option configures a Universe at construction time.
type Option func(*settings)

// WithSize sets the grid dimensions.
func WithSize(width, height uint32) Option {
	return func(s *settings) {
		s.width = width
		s.height = height
	}
}

// WithSeed makes the random pattern reproducible. Zero means "read a seed
// from the entropy source".
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithEntropy replaces crypto/rand as the source of the random seed.
func WithEntropy(r io.Reader) Option {
	return func(s *settings) { s.entropy = r }
}

// WithTracer attaches a diagnostic sink invoked by Tick.
func WithTracer(t Tracer) Option {
	return func(s *settings) { s.tracer = t }
}

func newSettings(opts []Option) settings {
	s := settings{width: DefWidth, height: DefHeight, entropy: rand.Reader}
	for _, o := range opts {
		o(&s)
	}
	return s
}

//New creates the universe where each cell is alive with probability 0.5
//fails only when no seed was given and the entropy source cannot be read
func New(opts ...Option) (*Universe, error) {
	s := newSettings(opts)
	seed1, seed2 := s.seed, uint64(0)
	if seed1 == 0 {
		var buf [16]byte
		if _, err := io.ReadFull(s.entropy, buf[:]); err != nil {
			return nil, entropyUnavailable(err)
		}
		seed1 = binary.LittleEndian.Uint64(buf[:8])
		seed2 = binary.LittleEndian.Uint64(buf[8:])
	}
	u := newUniverse(s.width, s.height, s.tracer)
	u.Randomize(mrand.New(mrand.NewPCG(seed1, seed2)))
	return u, nil
}

//NewEmpty creates the universe with all cells dead
func NewEmpty(width, height uint32, opts ...Option) *Universe {
	s := newSettings(opts)
	return newUniverse(width, height, s.tracer)
}

func newUniverse(width, height uint32, tracer Tracer) *Universe {
	size := area(width, height)
	return &Universe{
		width:  width,
		height: height,
		cells:  bitset.New(size),
		next:   bitset.New(size),
		tracer: tracer,
	}
}

//Randomize replaces every cell with a coin flip drawn from r
func (u *Universe) Randomize(r *mrand.Rand) {
	for i := 0; i < u.cells.Len(); i++ {
		u.cells.Set(i, r.Float64() < 0.5)
	}
	u.stable = false
}

// Width returns the column count.
func (u *Universe) Width() uint32 { return u.width }

// Height returns the row count.
func (u *Universe) Height() uint32 { return u.height }

// Cells returns the packed cell words without copying. Bit i of the grid
// (i = row*width + col) is bit i%32 of word i/32. The slice is only valid
// until the next Tick, SetWidth or SetHeight call.
func (u *Universe) Cells() []uint32 { return u.cells.Words() }

// SetTracer replaces the diagnostic sink. nil disables tracing.
func (u *Universe) SetTracer(t Tracer) { u.tracer = t }

// Index maps a coordinate to its bit offset.
func (u *Universe) Index(row, col uint32) (int, error) {
	if !u.contains(row, col) {
		return 0, outOfRange(row, col, u.width, u.height)
	}
	return u.index(row, col), nil
}

// Cell returns the state at row, col.
func (u *Universe) Cell(row, col uint32) (Cell, error) {
	idx, err := u.Index(row, col)
	if err != nil {
		return Dead, err
	}
	return Cell(u.cells.Bit(idx)), nil
}

//SetCells makes every listed cell alive, other cells are left untouched
//all coordinates are checked first, nothing is changed if any of them is out of range
func (u *Universe) SetCells(coords []Coord) error {
	for _, c := range coords {
		if !u.contains(c.Row, c.Col) {
			return outOfRange(c.Row, c.Col, u.width, u.height)
		}
	}
	for _, c := range coords {
		u.cells.Set(u.index(c.Row, c.Col), true)
	}
	u.stable = false
	return nil
}

// ToggleCell flips the state of one cell.
func (u *Universe) ToggleCell(row, col uint32) error {
	idx, err := u.Index(row, col)
	if err != nil {
		return err
	}
	u.cells.Toggle(idx)
	u.stable = false
	return nil
}

//SetWidth changes the column count, all cells become dead
func (u *Universe) SetWidth(width uint32) {
	u.resize(width, u.height)
}

//SetHeight changes the row count, all cells become dead
func (u *Universe) SetHeight(height uint32) {
	u.resize(u.width, height)
}

//resize allocates fresh buffers, the old pattern is discarded
func (u *Universe) resize(width, height uint32) {
	size := area(width, height)
	u.cells = bitset.New(size)
	u.next = bitset.New(size)
	u.width = width
	u.height = height
	u.stable = false
}

// Clear kills every cell, keeping the dimensions.
func (u *Universe) Clear() {
	u.cells.ClearAll()
	u.stable = false
}

// LiveCells returns the number of alive cells.
func (u *Universe) LiveCells() int { return u.cells.Count() }

// Stable reports whether the last Tick left the grid unchanged and nothing
// has been mutated since.
func (u *Universe) Stable() bool { return u.stable }

// Clone returns an independent copy. The tracer is shared.
func (u *Universe) Clone() *Universe {
	return &Universe{
		width:  u.width,
		height: u.height,
		cells:  u.cells.Clone(),
		next:   bitset.New(u.next.Len()),
		stable: u.stable,
		tracer: u.tracer,
	}
}

// Equal reports whether both universes hold the same dimensions and cells.
func (u *Universe) Equal(o *Universe) bool {
	return u.width == o.width && u.height == o.height && u.cells.Equal(o.cells)
}

func (u *Universe) contains(row, col uint32) bool {
	return row < u.height && col < u.width
}

//index never wraps or clamps: a bad coordinate panics here
func (u *Universe) index(row, col uint32) int {
	if !u.contains(row, col) {
		panic(outOfRange(row, col, u.width, u.height))
	}
	return int(row)*int(u.width) + int(col)
}

func area(width, height uint32) int {
	return int(width) * int(height)
}
