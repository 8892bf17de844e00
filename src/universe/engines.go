package universe

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

/*
	Engines evaluate one generation in place.
	"sequential" walks the whole grid in one pass,
	"parallel" splits the evaluate phase into row bands computed by individual goroutines
	and commits once all bands are done, so both produce the same generation.
	A cancelled context aborts the evaluate phase, the grid is then left as it was.
*/

//Engine advances the grid by one generation and returns the number of live cells
type Engine func(ctx context.Context, g *Grid) (int, error)

const (
	DefEngine           = "sequential"
	DefWorkers          = 4 //default workers of the parallel engine
	DefMinRowsPerWorker = 4 //minimum rows for one worker
)

//ErrUnknownEngine is returned when Options.Engine names no registered engine
var ErrUnknownEngine = errors.New("unknown engine")

var engines = map[string]Engine{
	"sequential": StepContext,
	"parallel":   StepParallel,
}

//rowBand is the range of rows [from, to) evaluated by one worker
type rowBand struct {
	from int
	to   int
}

var bands = splitRows(Size, DefWorkers, DefMinRowsPerWorker)

//StepContext is Step that gives up before the commit when ctx is cancelled
func StepContext(ctx context.Context, g *Grid) (int, error) {
	if err := evaluate(ctx, g, 0, Size); err != nil {
		return 0, err
	}
	return commit(g), nil
}

//StepParallel is StepContext with the evaluate phase spread over DefWorkers goroutines
//the first failing band cancels the others
func StepParallel(ctx context.Context, g *Grid) (int, error) {
	eg, ctx := errgroup.WithContext(ctx)
	for _, b := range bands {
		eg.Go(func() error {
			return evaluate(ctx, g, b.from, b.to)
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, errors.Wrap(err, "parallel evaluate")
	}
	return commit(g), nil
}

//evaluate runs evaluateRows row by row and stops as soon as ctx is done
func evaluate(ctx context.Context, g *Grid, from int, to int) error {
	for row := from; row < to; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		evaluateRows(g, row, row+1)
	}
	return nil
}

//EngineNames returns the sorted names of the registered engines
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//LookupEngine returns the engine registered under name
func LookupEngine(name string) (Engine, error) {
	e, ok := engines[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownEngine, "engine %q", name)
	}
	return e, nil
}

//splitRows divides rows into at most workers bands of at least minRows rows
func splitRows(rows int, workers int, minRows int) []rowBand {
	rowsPerWorker := rows / workers
	if rowsPerWorker < minRows {
		rowsPerWorker = minRows
	} else if rowsPerWorker*workers < rows {
		rowsPerWorker++
	}
	out := make([]rowBand, 0, workers)
	for from := 0; from < rows; from += rowsPerWorker {
		out = append(out, rowBand{from: from, to: min(from+rowsPerWorker, rows)})
	}
	return out
}
