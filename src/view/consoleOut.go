package view

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"toruslife/src/universe"
)

//ConsoleOut is the headless viewer, it prints the progress of a run
//Done is closed once a started run goes idle again
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	every     int
	startTime time.Time
	mu        sync.Mutex
	started   bool
	lastGen   int
	done      chan struct{}
	closeOnce sync.Once
}

//NewConsoleOut creates the viewer printing every n generations to w
func NewConsoleOut(w io.Writer, every int) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, done: make(chan struct{})}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case st.RunningMode == universe.RunningStateRunning:
		c.started = true
		if st.Generation != c.lastGen && st.Generation%c.every == 0 {
			_, _ = fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", st.Generation, st.LiveCells)
		}
		c.lastGen = st.Generation
	case c.started:
		c.started = false
		c.printSummary(st)
		c.closeOnce.Do(func() { close(c.done) })
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", universe.Size, universe.Size)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", universe.StepInterval)
	_, _ = fmt.Fprintf(c.w, "  Engine: %v\n", o.Engine)
	if o.MaxSteps > 0 {
		_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	}
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	c.startTime = time.Now()
	c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

//Done is closed after the first run has finished or was stopped
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) printSummary(st universe.Status) {
	_, _ = fmt.Fprintln(c.w, "\n"+aurora.Red("Finished:").String())
	_, _ = fmt.Fprintf(c.w, "  Last generation: %v\n", st.Generation)
	_, _ = fmt.Fprintf(c.w, "  Live cells: %v\n", st.LiveCells)
	if !c.startTime.IsZero() {
		_, _ = fmt.Fprintf(c.w, "  Total time: %v\n", time.Since(c.startTime).Round(time.Millisecond))
	}
	if st.Stagnant {
		_, _ = fmt.Fprintln(c.w, "  "+aurora.Yellow("stagnant").String())
	}
}
