package view

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"bitlife/src/host"
	"bitlife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer
type ConsoleUI struct {
	ctx        context.Context
	s          *host.Session
	g          *gocui.Gui
	k          []keyBindings
	logger     *log.Logger
	liveFiller string
	deadFiller string
}

var (
	runningStateDescr = map[host.RunningState]string{
		host.RunningStateManual:   aurora.Colorize("waiting", aurora.BlueFg).String(),
		host.RunningStateStep:     "do the step",
		host.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		host.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewConsoleUI creates the terminal viewer, the terminal is taken over until Start returns
func NewConsoleUI(ctx context.Context, logger *log.Logger) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		ctx:        ctx,
		logger:     logger,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}
	if t.logger == nil {
		t.logger = log.Default()
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("bind %s: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(s *host.Session) {
	t.s = s
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	defer t.s.Stop()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

//renderField draws the universe, the session may still be stepping so it draws a private copy
func (t *ConsoleUI) renderField() {
	f := t.s.Frame()
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("battlefield")
		if e != nil {
			return e
		}
		t.drawField(v, f)
		return nil
	})
}

//drawField must run on the gui goroutine
func (t *ConsoleUI) drawField(v *gocui.View, f *universe.Universe) {
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, fieldText(f, maxW, maxH, t.liveFiller, t.deadFiller,
		aurora.Red("The field size is larger than the viewing area").BgBlack().String()))
}

//fieldText renders the universe cropped to maxW x maxH characters
//when cropped the last visible line carries the warning instead of cells
func fieldText(u *universe.Universe, maxW, maxH int, live, dead, warning string) string {
	w, h := int(u.Width()), int(u.Height())
	crop := w > maxW || h > maxH

	var b bytes.Buffer
	for row := 0; row < h; row++ {
		//discard the data outside the view area
		if row >= maxH {
			break
		}
		//line feed char
		if row != 0 {
			b.WriteByte(10)
		}
		if crop && row == maxH-1 {
			b.WriteString(warning)
			break
		}
		for col := 0; col < w && col < maxW; col++ {
			if c, _ := u.Cell(uint32(row), uint32(col)); c == universe.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus() {
	s := t.s.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	//it needs to call Update when calls from goroutine
	c := t.s.Options()
	w, h := t.s.Size()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", w, h))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v steps", c.MaxSteps))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	//layout already runs on the gui goroutine, no Update round trip
	t.drawField(v, t.s.Frame())

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	if !t.s.Running() {
		go t.s.Step()
	}
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	if t.s.Running() {
		return nil
	}
	go func() {
		if err := t.s.Run(t.ctx); err != nil {
			t.logger.Printf("run: %v", err)
		}
	}()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.s.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.s.Stop()
	go t.s.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	if !t.s.Running() {
		go t.s.SettleWithRandomData(uint64(time.Now().UnixNano()))
	}
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	if cx < 0 || cy < 0 {
		return nil
	}
	go func() {
		//clicks outside the grid are ignored
		_ = t.s.InverseCell(uint32(cy), uint32(cx))
	}()
	return nil
}
