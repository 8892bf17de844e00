package view

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"toruslife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer, mouse clicks on the field toggle cells
type ConsoleUI struct {
	u          universe.Universe
	g          *gocui.Gui
	update     func(f func(*gocui.Gui) error) //queues f on the main loop, set to g.Update
	k          []keyBindings
	log        *log.Logger
	liveFiller string
	deadFiller string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateIdle:    aurora.Colorize("idle", aurora.BlueFg).String(),
		universe.RunningStateRunning: aurora.Colorize("running", aurora.CyanFg).String(),
	}
)

//NewViewTerminal creates the terminal UI, it takes over the terminal until Start returns
func NewViewTerminal(logger *log.Logger) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		log:        logger,
		liveFiller: aurora.Green("█").String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize the terminal")
	}

	t.update = t.g.Update
	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Reset", t.cmdReset, ""},
		{'w', "W", "Randomize", t.cmdRandomize, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err = t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "failed to bind %s", kb.name)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		t.log.Error("terminal main loop failed", "err", err)
	}
}

//Refresh is called from the universe goroutines, the views are redrawn on the main loop
func (t *ConsoleUI) Refresh() {
	cells := t.u.Snapshot()
	t.update(func(g *gocui.Gui) error {
		if v, e := g.View("battlefield"); e == nil {
			v.Clear()
			t.drawField(v, cells)
		}
		return nil
	})
	s := t.u.Status()
	t.update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			t.drawStatus(v, s)
		}
		return nil
	})
}

func (t *ConsoleUI) drawField(w io.Writer, cells [universe.Size][universe.Size]bool) {
	_, _ = fmt.Fprint(w, t.fieldString(cells))
}

//fieldString renders one char per cell so that the view cursor maps onto row, col
func (t *ConsoleUI) fieldString(cells [universe.Size][universe.Size]bool) string {
	var b bytes.Buffer
	for row := range cells {
		if row != 0 {
			b.WriteByte('\n')
		}
		for _, alive := range cells[row] {
			if alive {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) drawStatus(w io.Writer, s universe.Status) {
	_, _ = fmt.Fprintln(w, renderProp("Generation", "%v", s.Generation))
	_, _ = fmt.Fprintln(w, renderProp("Live Cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(w, renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(w, renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
	if s.Stagnant {
		_, _ = fmt.Fprintln(w, " "+aurora.Yellow("stagnant").String())
	}
}

func (t *ConsoleUI) renderConfiguration(v *gocui.View) {
	c := t.u.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Dimension", "%v x %v", universe.Size, universe.Size))
	_, _ = fmt.Fprintln(v, renderProp("Interval", "%v", universe.StepInterval))
	_, _ = fmt.Fprintln(v, renderProp("Engine", "%v", c.Engine))
	if c.MaxSteps > 0 {
		_, _ = fmt.Fprintln(v, renderProp("Iterations", "%v steps", c.MaxSteps))
	}
}

func renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := universe.Size + 8

	if maxY < minWindowHeight || maxX < leftColumnWidth+universe.Size+3 {
		if _, err := t.headerLayout(g, maxY, "Terminal too small"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil && err != gocui.ErrUnknownView {
		return err
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(v)
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.drawStatus(v, t.u.Status())
	}

	//the field view is exactly Size x Size inside its frame
	//layout runs on the main loop and must not queue update events
	fieldX := leftColumnWidth + 1
	if v, err := g.SetView("battlefield", fieldX, 3, fieldX+universe.Size+1, 3+universe.Size+1); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
		t.drawField(v, t.u.Snapshot())
	}

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
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Start()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdReset(_ *gocui.View) error {
	t.u.Reset()
	return nil
}

func (t *ConsoleUI) cmdRandomize(_ *gocui.View) error {
	t.u.Randomize()
	return nil
}

//gocui moves the cursor only for clicks inside the frame, border clicks never get here
func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	col, row := v.Cursor()
	if !onField(row, col) {
		return nil
	}
	if err := t.u.Toggle(row, col); err != nil {
		t.log.Warn("click outside the field", "err", err)
	}
	return nil
}

//onField reports whether a view position lies on the grid
func onField(row int, col int) bool {
	return row >= 0 && row < universe.Size && col >= 0 && col < universe.Size
}
