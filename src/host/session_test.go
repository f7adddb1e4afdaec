package host

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"bitlife/src/universe"
)

func newTestSession(t *testing.T, w, h uint32, maxSteps int, interval time.Duration, stateCh chan Status) *Session {
	t.Helper()
	o := DefaultOptions
	o.MaxSteps = maxSteps
	o.Interval = interval
	return NewSession(universe.NewEmpty(w, h), o, stateCh)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

type countingViewer struct {
	s         *Session
	refreshes atomic.Int32
}

func (v *countingViewer) Register(s *Session) { v.s = s }
func (v *countingViewer) Refresh()            { v.refreshes.Add(1) }
func (v *countingViewer) Start() error        { return nil }

func TestStepReportsStatus(t *testing.T) {
	stateCh := make(chan Status, 10)
	s := newTestSession(t, 5, 5, 0, 0, stateCh)
	if err := s.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}

	if s.Step() {
		t.Fatal("blinker finished after one step")
	}
	st := s.Status()
	if st.IterationNum != 1 || st.LiveCells != 3 || st.RunningMode != RunningStateManual {
		t.Errorf("status = %+v", st)
	}

	want := []RunningState{RunningStateStep, RunningStateManual}
	for _, w := range want {
		select {
		case got := <-stateCh:
			if got.RunningMode != w {
				t.Errorf("state %v, want %v", got.RunningMode, w)
			}
		default:
			t.Fatalf("missing %v state", w)
		}
	}
}

func TestStateConsumerCallsBack(t *testing.T) {
	for _, size := range []int{0, 1} {
		t.Run(fmt.Sprintf("buffer%d", size), func(t *testing.T) {
			stateCh := make(chan Status, size)
			s := newTestSession(t, 5, 5, 2, 0, stateCh)
			if err := s.SettleTemplate("blinker"); err != nil {
				t.Fatal(err)
			}

			var got []RunningState
			drained := make(chan struct{})
			go func() {
				defer close(drained)
				for st := range stateCh {
					got = append(got, st.RunningMode)
					_ = s.Status()
					_ = s.Frame()
					_, _ = s.Size()
				}
			}()

			done := make(chan error, 1)
			go func() {
				s.Step()
				err := s.Run(context.Background())
				s.Clear()
				s.Resize(7, 7)
				done <- err
			}()
			select {
			case err := <-done:
				if err != nil {
					t.Fatal(err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("session blocked while the consumer was reading its state")
			}
			close(stateCh)
			<-drained

			want := []RunningState{
				RunningStateStep, RunningStateManual, // Step
				RunningStateRun, RunningStateStep, RunningStateFinished, // Run up to MaxSteps
				RunningStateManual, // Clear
				RunningStateManual, // Resize
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("states = %v, want %v", got, want)
			}
		})
	}
}

func TestSettleTemplateCenters(t *testing.T) {
	s := newTestSession(t, 5, 5, 0, 0, nil)
	if err := s.SettleTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	f := s.Frame()
	for _, c := range []universe.Coord{{Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}} {
		if cell, _ := f.Cell(c.Row, c.Col); cell != universe.Alive {
			t.Errorf("cell %v is dead\n%s", c, f.Render())
		}
	}
	if s.Status().LiveCells != 3 {
		t.Errorf("LiveCells = %d, want 3", s.Status().LiveCells)
	}

	if err := s.SettleTemplate("nope"); err == nil {
		t.Errorf("SettleTemplate accepted an unknown template")
	}

	s.AddTemplate(universe.Template{Name: "dot", Coordinates: []universe.Coord{{Row: 0, Col: 0}}})
	names := s.Templates()
	found := false
	for i, n := range names {
		if i > 0 && names[i-1] > n {
			t.Errorf("templates not sorted: %v", names)
		}
		found = found || n == "dot"
	}
	if !found {
		t.Errorf("added template missing from %v", names)
	}
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	s := newTestSession(t, 5, 5, 10, 0, nil)
	_ = s.SettleTemplate("blinker")

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := s.Status()
	if st.IterationNum != 10 || st.RunningMode != RunningStateFinished {
		t.Errorf("status = %+v, want 10 iterations finished", st)
	}
	if s.Running() {
		t.Errorf("Running() = true after Run returned")
	}
}

func TestRunStopsOnStillLifeAndExtinction(t *testing.T) {
	cases := []struct {
		name  string
		cells []universe.Coord
		live  int
	}{
		{"block", []universe.Coord{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 2}}, 4},
		{"single", []universe.Coord{{Row: 3, Col: 3}}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u := universe.NewEmpty(6, 6)
			if err := u.SetCells(c.cells); err != nil {
				t.Fatal(err)
			}
			s := NewSession(u, Options{MaxSteps: 100}, nil)
			if err := s.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			st := s.Status()
			if st.IterationNum != 1 || st.LiveCells != c.live || st.RunningMode != RunningStateFinished {
				t.Errorf("status = %+v", st)
			}
		})
	}
}

func TestStopInterruptsRun(t *testing.T) {
	s := newTestSession(t, 5, 5, 0, time.Millisecond, nil)
	_ = s.SettleTemplate("blinker")

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	waitFor(t, "first iteration", func() bool { return s.Status().IterationNum > 0 })
	if err := s.Run(context.Background()); err == nil {
		t.Errorf("second Run did not fail")
	}
	s.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if st := s.Status(); st.RunningMode != RunningStateManual {
		t.Errorf("mode after Stop = %v, want manual", st.RunningMode)
	}
}

func TestRunHonoursContext(t *testing.T) {
	s := newTestSession(t, 5, 5, 0, time.Millisecond, nil)
	_ = s.SettleTemplate("blinker")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Running() {
		t.Errorf("still running after context expiry")
	}
}

func TestResizeAndClear(t *testing.T) {
	u, err := universe.New(universe.WithSize(8, 8), universe.WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(u, Options{MaxSteps: 1}, nil)
	s.Step()
	if st := s.Status(); st.RunningMode != RunningStateFinished {
		t.Fatalf("status after the last step = %+v", st)
	}

	s.Resize(12, 4)
	w, h := s.Size()
	if w != 12 || h != 4 {
		t.Fatalf("size = %dx%d, want 12x4", w, h)
	}
	if st := s.Status(); st != (Status{RunningMode: RunningStateManual}) {
		t.Errorf("status after resize = %+v", st)
	}
	if s.Frame().LiveCells() != 0 {
		t.Errorf("resize kept live cells")
	}

	s.SettleWithRandomData(3)
	s.Resize(12, 4)
	if s.Frame().LiveCells() != 0 || s.Status().LiveCells != 0 {
		t.Errorf("resize to the same size kept live cells")
	}

	s.SettleWithRandomData(11)
	if s.Status().LiveCells == 0 {
		t.Fatalf("random settle produced an empty universe")
	}
	s.Clear()
	if s.Status().LiveCells != 0 || s.Frame().LiveCells() != 0 {
		t.Errorf("Clear left live cells")
	}
}

func TestInverseCellAndViewers(t *testing.T) {
	s := newTestSession(t, 3, 3, 0, 0, nil)
	v := &countingViewer{}
	s.RegisterViewer(v)
	if v.s != s {
		t.Fatalf("viewer not registered with the session")
	}

	if err := s.InverseCell(1, 1); err != nil {
		t.Fatal(err)
	}
	if s.Status().LiveCells != 1 {
		t.Errorf("LiveCells = %d, want 1", s.Status().LiveCells)
	}
	if err := s.InverseCell(3, 3); !errors.Is(err, universe.ErrOutOfRange) {
		t.Errorf("InverseCell error = %v, want ErrOutOfRange", err)
	}
	s.Step()
	if got := v.refreshes.Load(); got != 2 {
		t.Errorf("%d refreshes, want 2", got)
	}

	s.View(func(u *universe.Universe) {
		if u.LiveCells() != 0 {
			t.Errorf("lonely cell survived")
		}
	})
}

func TestRunningStateString(t *testing.T) {
	if RunningStateFinished.String() != "finished" || RunningState(9).String() != "RunningState(9)" {
		t.Errorf("unexpected names %q %q", RunningStateFinished, RunningState(9))
	}
}

func BenchmarkSessionStep(b *testing.B) {
	u, err := universe.New(universe.WithSize(200, 200), universe.WithSeed(1))
	if err != nil {
		b.Fatal(err)
	}
	s := NewSession(u, Options{}, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step()
	}
}
