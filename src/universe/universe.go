package universe

import (
	"time"

	"github.com/charmbracelet/log"
)

//Universe is the in-process API consumed by the viewers
type Universe interface {
	Status() Status
	Options() Options
	IsRunning() bool
	CellAt(row int, col int) (bool, error)
	Snapshot() [Size][Size]bool
	RegisterViewer(v Viewer)
	Start()
	Stop()
	Step()
	Reset()
	Randomize()
	Toggle(row int, col int) error
	AddTemplate(tmpl Template)
	SettleTemplate(name string) error
	Close()
}

//Options represents the Universe's configurable options
//the grid size, step interval and live probability are constants and not part of it
type Options struct {
	Engine   string      //name of the rule engine, see EngineNames
	MaxSteps int         //the running loop stops itself after MaxSteps generations, 0 is unlimited
	Seed     int64       //randomize seed, 0 picks a time based seed
	Logger   *log.Logger //nil discards the log
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Stagnant      bool //the last step reproduced a recent generation
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//RunningState is the lifecycle state of the Universe
type RunningState int

const (
	RunningStateIdle RunningState = iota
	RunningStateRunning
)

func (s RunningState) String() string {
	if s == RunningStateRunning {
		return "running"
	}
	return "idle"
}

//fixed configuration
const (
	StepInterval    = time.Millisecond * 100
	LiveProbability = 0.20
	DefHistoryLen   = 4    //generations remembered for stagnation detection
	DefMaxSteps     = 1000 //step limit of a headless run
)

var DefaultUniverseOptions = Options{
	Engine: DefEngine,
}
