// Package host drives a universe from outside: it owns the only reference to
// it, serializes every access and steps it on an interval.
package host

import (
	"context"
	"fmt"
	"io"
	"log"
	mrand "math/rand/v2"
	"sort"
	"sync"
	"time"

	"bitlife/src/universe"
)

//Options represents the session's configurable options
type Options struct {
	Interval time.Duration
	MaxSteps int         //0 means no limit
	Logger   *log.Logger //lifecycle messages, discarded when nil
}

//Status represents the status of the session at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the session
type Viewer interface {
	Register(s *Session)
	Refresh()
	Start() error
}

//The session running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

func (r RunningState) String() string {
	switch r {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return fmt.Sprintf("RunningState(%d)", int(r))
}

var DefaultOptions = Options{
	Interval: DefSimulationInterval,
	MaxSteps: DefMaxSteps,
}

//Session owns a universe and is the external loop ticking it
//all methods are safe for concurrent use
type Session struct {
	mu        sync.Mutex
	u         *universe.Universe
	options   Options
	status    Status
	stateCh   chan Status
	views     []Viewer
	templates map[string]universe.Template
	cancel    context.CancelFunc
	pending   []Status //states waiting to be written to stateCh
	log       *log.Logger
}

//NewSession creates the session around u
//stateCh is optional, when given every status change is sent to it and the caller must drain it
//sends happen outside the session lock, the consumer may call back into the session
func NewSession(u *universe.Universe, o Options, stateCh chan Status) *Session {
	l := o.Logger
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s := &Session{
		u:         u,
		options:   o,
		stateCh:   stateCh,
		templates: map[string]universe.Template{},
		log:       l,
	}
	for _, t := range universe.BuiltinTemplates() {
		s.templates[t.Name] = t
	}
	s.status.LiveCells = u.LiveCells()
	return s
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Session) AddTemplate(tmpl universe.Template) {
	s.mu.Lock()
	s.templates[tmpl.Name] = tmpl
	s.mu.Unlock()
}

//Templates returns the names of the known templates, sorted
func (s *Session) Templates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.templates))
	for k := range s.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//SettleTemplate populates the universe with the seeding template, centered
func (s *Session) SettleTemplate(name string) error {
	s.mu.Lock()
	tmpl, ok := s.templates[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown template %q", name)
	}
	rows, cols := tmpl.Bounds()
	offset := universe.Coord{}
	if h := s.u.Height(); h > rows {
		offset.Row = (h - rows) / 2
	}
	if w := s.u.Width(); w > cols {
		offset.Col = (w - cols) / 2
	}
	err := s.u.Settle(tmpl, offset)
	s.status.LiveCells = s.u.LiveCells()
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("settle %q: %w", name, err)
	}
	s.refreshView()
	return nil
}

//SettleWithRandomData replaces the universe content with random data
func (s *Session) SettleWithRandomData(seed uint64) {
	s.mu.Lock()
	s.u.Randomize(mrand.New(mrand.NewPCG(seed, 0)))
	s.status.IterationNum = 0
	s.status.LiveCells = s.u.LiveCells()
	s.mu.Unlock()
	s.refreshView()
}

//InverseCell inverses the cell state at row, col
func (s *Session) InverseCell(row, col uint32) error {
	s.mu.Lock()
	err := s.u.ToggleCell(row, col)
	s.status.LiveCells = s.u.LiveCells()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.refreshView()
	return nil
}

//RegisterViewer registers the viewer - the session will call the viewer when the state is changed
func (s *Session) RegisterViewer(v Viewer) {
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
	v.Register(s)
}

//StateCh returns the channel with the session's status updates
func (s *Session) StateCh() chan Status {
	return s.stateCh
}

//Status returns current session status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

//Options returns current session configuration
func (s *Session) Options() Options {
	return s.options
}

//Size returns current universe dimensions
func (s *Session) Size() (width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.Width(), s.u.Height()
}

//Frame returns a private copy of the universe, safe to read while the session keeps running
func (s *Session) Frame() *universe.Universe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.u.Clone()
}

//View calls fn with the live universe while holding the session lock
//fn must not retain u or its Cells slice
func (s *Session) View(fn func(u *universe.Universe)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.u)
}

//Step does one simulation step
//reports whether the simulation has finished
func (s *Session) Step() (finished bool) {
	s.mu.Lock()
	finished = s.step()
	s.unlockAndNotify()
	s.refreshView()
	return
}

//Run steps the universe every Interval until ctx is done, Stop is called or
//the boundary conditions are reached: MaxSteps, no live cells or a still generation
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return fmt.Errorf("session is already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.switchRunningState(RunningStateRun)
	s.unlockAndNotify()

	defer func() {
		s.mu.Lock()
		s.cancel = nil
		if s.status.RunningMode == RunningStateRun {
			s.switchRunningState(RunningStateManual)
		}
		s.unlockAndNotify()
		cancel()
		s.refreshView()
	}()

	var tick <-chan time.Time
	if s.options.Interval > 0 {
		t := time.NewTicker(s.options.Interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if s.Step() {
			st := s.Status()
			s.log.Printf("simulation finished at iteration %d with %d live cells", st.IterationNum, st.LiveCells)
			return nil
		}
		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
}

//Running reports whether Run is in progress
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

//Stop stops the running simulation, returns immediately
func (s *Session) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

//Clear kills all cells and resets all counters
func (s *Session) Clear() {
	s.mu.Lock()
	s.u.Clear()
	s.status.IterationNum = 0
	s.status.LiveCells = 0
	s.status.IterationTime = 0
	s.switchRunningState(RunningStateManual)
	s.unlockAndNotify()
	s.refreshView()
}

//Resize changes the universe dimensions, all cells become dead
func (s *Session) Resize(width, height uint32) {
	s.mu.Lock()
	if width == s.u.Width() && height == s.u.Height() {
		s.u.Clear()
	} else {
		s.u.SetWidth(width)
		s.u.SetHeight(height)
	}
	s.status.IterationNum = 0
	s.status.LiveCells = 0
	s.status.IterationTime = 0
	s.switchRunningState(RunningStateManual)
	s.unlockAndNotify()
	s.log.Printf("universe resized to %dx%d", width, height)
	s.refreshView()
}

//step does the new one state calculation for entire universe, the lock must be held
func (s *Session) step() (finished bool) {
	rm := s.status.RunningMode
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	maxIter := s.options.MaxSteps
	if maxIter != 0 && s.status.IterationNum >= maxIter {
		s.switchRunningState(RunningStateFinished)
		return true
	}

	s.switchRunningState(RunningStateStep)
	start := time.Now()
	s.u.Tick()
	s.status.IterationTime = time.Since(start)
	s.status.IterationNum++
	s.status.LiveCells = s.u.LiveCells()

	if s.status.LiveCells == 0 || s.u.Stable() || (maxIter != 0 && s.status.IterationNum >= maxIter) {
		s.switchRunningState(RunningStateFinished)
		return true
	}
	s.switchRunningState(rm)
	return false
}

//switchRunningState switch the state of the session to RunningState
//the new state is queued for stateCh and written by unlockAndNotify
//the lock must be held
func (s *Session) switchRunningState(to RunningState) {
	s.status.RunningMode = to
	if s.stateCh != nil {
		s.pending = append(s.pending, s.status)
	}
}

//unlockAndNotify releases the lock, then writes the queued states to stateCh
//so a consumer may call back into the session while draining the channel
func (s *Session) unlockAndNotify() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, st := range pending {
		s.stateCh <- st
	}
}

//refreshView calls Refresh event for all registered views
func (s *Session) refreshView() {
	s.mu.Lock()
	views := append([]Viewer(nil), s.views...)
	s.mu.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
