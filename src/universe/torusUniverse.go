package universe

import (
	"context"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

//TorusUniverse is the simulation controller of a Size x Size toroidal grid
//implements Universe interface
//the grid is guarded by area, the running task and viewers by state
type TorusUniverse struct {
	options Options
	engine  Engine
	log     *log.Logger
	//lifecycle serializes Start and Stop so at most one task is ever alive
	lifecycle sync.Mutex
	state     struct {
		task      *ticker
		views     []Viewer
		templates map[string]Template
		sync.Mutex
	}
	area struct {
		Grid
		rng           *rand.Rand
		generation    int
		iterationTime time.Duration
		stagnant      bool
		history       []string
		sync.Mutex
	}
}

//NewTorusUniverse creates an idle universe with an empty grid
func NewTorusUniverse(o *Options) (*TorusUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if opts.Engine == "" {
		opts.Engine = DefEngine
	}
	engine, err := LookupEngine(opts.Engine)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	u := TorusUniverse{
		options: opts,
		engine:  engine,
		log:     logger.With("engine", opts.Engine),
	}
	u.area.rng = rand.New(rand.NewPCG(uint64(seed), 0))
	u.state.templates = make(map[string]Template, len(DefaultTemplates))
	for _, tmpl := range DefaultTemplates {
		u.state.templates[tmpl.Name] = tmpl
	}
	return &u, nil
}

//Status returns current universe status represented by Status struct
func (u *TorusUniverse) Status() Status {
	u.area.Lock()
	st := Status{
		Generation:    u.area.generation,
		LiveCells:     u.area.LiveCells(),
		IterationTime: u.area.iterationTime,
		Stagnant:      u.area.stagnant,
	}
	u.area.Unlock()
	if u.IsRunning() {
		st.RunningMode = RunningStateRunning
	}
	return st
}

//Options returns current universe configuration represented by Options struct
func (u *TorusUniverse) Options() Options {
	return u.options
}

//IsRunning reports whether the periodic step task is alive
func (u *TorusUniverse) IsRunning() bool {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.task != nil
}

//CellAt returns the alive state of the cell at row, col
func (u *TorusUniverse) CellAt(row int, col int) (bool, error) {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Get(row, col)
}

//Snapshot returns a copy of the alive bits of the whole grid
func (u *TorusUniverse) Snapshot() [Size][Size]bool {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.Grid.Snapshot()
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *TorusUniverse) RegisterViewer(v Viewer) {
	u.state.Lock()
	u.state.views = append(u.state.views, v)
	u.state.Unlock()
	v.Register(u)
}

//Start starts stepping every StepInterval, does nothing if already running
func (u *TorusUniverse) Start() {
	u.lifecycle.Lock()
	u.state.Lock()
	if u.state.task != nil {
		u.state.Unlock()
		u.lifecycle.Unlock()
		return
	}
	u.state.task = startTicker(StepInterval, u.tick)
	u.state.Unlock()
	u.lifecycle.Unlock()

	u.log.Info("simulation started", "interval", StepInterval)
	u.refreshView()
}

//Stop cancels the periodic task, no step starts after it returns
//safe to call when idle
func (u *TorusUniverse) Stop() {
	u.lifecycle.Lock()
	stopped := u.stopLocked()
	u.lifecycle.Unlock()

	if !stopped {
		return
	}
	u.log.Info("simulation stopped", "generation", u.generation())
	u.refreshView()
}

//stopLocked cancels the running task if any and reports whether there was one
//the caller holds lifecycle
func (u *TorusUniverse) stopLocked() bool {
	u.state.Lock()
	t := u.state.task
	u.state.task = nil
	u.state.Unlock()
	if t == nil {
		return false
	}
	t.Cancel()
	return true
}

//Step does one generation regardless of the running state
func (u *TorusUniverse) Step() {
	u.advance(context.Background())
}

//Reset stops the simulation, kills all cells and resets the counters
//no Start can slip in between stopping and clearing
func (u *TorusUniverse) Reset() {
	u.lifecycle.Lock()
	u.stopLocked()
	u.area.Lock()
	u.area.Clear()
	u.area.generation = 0
	u.area.iterationTime = 0
	u.forgetHistory()
	u.area.Unlock()
	u.lifecycle.Unlock()

	u.log.Info("universe reset")
	u.refreshView()
}

//SettleTemplate makes the cells of the named template alive, other cells are kept
func (u *TorusUniverse) SettleTemplate(name string) error {
	u.state.Lock()
	tmpl, ok := u.state.templates[name]
	u.state.Unlock()
	if !ok {
		return errors.Wrapf(ErrUnknownTemplate, "template %q", name)
	}
	u.area.Lock()
	for _, c := range tmpl.Coordinates {
		if err := checkCoordinate(c[0], c[1]); err != nil {
			u.area.Unlock()
			return errors.Wrapf(err, "template %q", name)
		}
	}
	for _, c := range tmpl.Coordinates {
		u.area.cells[c[0]][c[1]].Alive = true
	}
	u.forgetHistory()
	u.area.Unlock()

	u.log.Debug("template settled", "template", name, "cells", len(tmpl.Coordinates))
	u.refreshView()
	return nil
}

//AddTemplate adds the seeding template to the universe, a template with the same name is replaced
func (u *TorusUniverse) AddTemplate(tmpl Template) {
	u.state.Lock()
	u.state.templates[tmpl.Name] = tmpl
	u.state.Unlock()
}

//Randomize makes each cell alive with LiveProbability, the running state is kept
func (u *TorusUniverse) Randomize() {
	u.area.Lock()
	u.area.Randomize(u.area.rng, LiveProbability)
	u.forgetHistory()
	live := u.area.LiveCells()
	u.area.Unlock()

	u.log.Debug("universe randomized", "live", live)
	u.refreshView()
}

//Toggle inverses the cell state at row, col
func (u *TorusUniverse) Toggle(row int, col int) error {
	u.area.Lock()
	alive, err := u.area.Get(row, col)
	if err != nil {
		u.area.Unlock()
		u.log.Warn("toggle rejected", "row", row, "col", col)
		return err
	}
	u.area.cells[row][col].Alive = !alive
	u.forgetHistory()
	u.area.Unlock()

	u.refreshView()
	return nil
}

//Close stops the universe, it can be called several times
func (u *TorusUniverse) Close() {
	u.Stop()
}

//tick is the body of the periodic task, returning false ends the task
func (u *TorusUniverse) tick(ctx context.Context) bool {
	if u.limitReached() {
		u.finish(ctx)
		return false
	}
	if !u.advance(ctx) {
		return false
	}
	if u.limitReached() {
		u.finish(ctx)
		return false
	}
	return true
}

//advance computes the next generation unless ctx is already cancelled
//the check happens under the grid lock, so a cancelled task never steps afterwards
func (u *TorusUniverse) advance(ctx context.Context) bool {
	u.area.Lock()
	if ctx.Err() != nil {
		u.area.Unlock()
		return false
	}
	start := time.Now()
	if len(u.area.history) == 0 {
		u.area.history = append(u.area.history, u.area.Hash())
	}
	live, err := u.engine(ctx, &u.area.Grid)
	if err != nil {
		//cancelled during the evaluate phase, nothing was committed
		u.area.Unlock()
		u.log.Debug("step abandoned", "err", err)
		return false
	}
	u.area.generation++
	u.area.iterationTime = time.Since(start)

	h := u.area.Hash()
	u.area.stagnant = slices.Contains(u.area.history, h)
	u.area.history = append(u.area.history, h)
	if len(u.area.history) > DefHistoryLen {
		u.area.history = u.area.history[1:]
	}
	gen := u.area.generation
	u.area.Unlock()

	u.log.Debug("step", "generation", gen, "live", live)
	u.refreshView()
	return true
}

//finish marks the universe idle when the task identified by ctx ends by itself
func (u *TorusUniverse) finish(ctx context.Context) {
	u.state.Lock()
	mine := u.state.task != nil && u.state.task.ctx == ctx
	if mine {
		u.state.task = nil
	}
	u.state.Unlock()
	if !mine {
		return
	}
	u.log.Info("simulation finished", "generation", u.generation(), "maxSteps", u.options.MaxSteps)
	u.refreshView()
}

func (u *TorusUniverse) limitReached() bool {
	return u.options.MaxSteps > 0 && u.generation() >= u.options.MaxSteps
}

func (u *TorusUniverse) generation() int {
	u.area.Lock()
	defer u.area.Unlock()
	return u.area.generation
}

//forgetHistory drops the stagnation history after a direct edit, area must be locked
func (u *TorusUniverse) forgetHistory() {
	u.area.history = nil
	u.area.stagnant = false
}

//refreshView calls Refresh event for all registered views
//views are called without any lock held
func (u *TorusUniverse) refreshView() {
	u.state.Lock()
	views := slices.Clone(u.state.views)
	u.state.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}
