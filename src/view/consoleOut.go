package view

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"bitlife/src/host"
)

//grids wider than this are not printed at the end of the run
const maxPrintedWidth = 80

//ConsoleOut runs the simulation without interaction and prints the progress
type ConsoleOut struct {
	ctx       context.Context
	w         io.Writer
	s         *host.Session
	startTime time.Time
	finished  bool
	details   map[string]interface{}
}

//NewConsoleOut creates the viewer writing to w
//details are printed with the running configuration
func NewConsoleOut(ctx context.Context, w io.Writer, details map[string]interface{}) *ConsoleOut {
	return &ConsoleOut{ctx: ctx, w: w, details: details}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	if st.RunningMode == host.RunningStateFinished {
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
		}
		fmt.Fprintln(c.w, aurora.Bold("\nFinished:"))
		c.printHashData(resultData)
		c.printField()
	} else if st.RunningMode == host.RunningStateRun {
		if st.IterationNum > 0 && st.IterationNum%10 == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(s *host.Session) {
	c.s = s
	o := s.Options()
	w, h := s.Size()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", w, h)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(c.details)
}

//Start runs the simulation until it finishes or the context is cancelled
func (c *ConsoleOut) Start() error {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
	if err := c.s.Run(c.ctx); err != nil {
		return err
	}
	if !c.finished {
		fmt.Fprintf(c.w, "\nInterrupted at iteration %v\n", c.s.Status().IterationNum)
	}
	return nil
}

func (c *ConsoleOut) printField() {
	f := c.s.Frame()
	if f.Width() > maxPrintedWidth {
		return
	}
	fmt.Fprint(c.w, f.Render())
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
