package universe

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
)

func expectAlive(t *testing.T, g *Grid, cells ...[2]int) {
	t.Helper()
	want := map[[2]int]bool{}
	for _, c := range cells {
		want[c] = true
	}
	g.ForEachCell(func(row int, col int, c Cell) {
		if c.Alive != want[[2]int{row, col}] {
			t.Fatalf("cell (%d,%d) alive=%v, expected %v", row, col, c.Alive, want[[2]int{row, col}])
		}
	})
}

func TestNextState(t *testing.T) {
	for n := 0; n <= 8; n++ {
		if got, want := NextState(true, n), n == 2 || n == 3; got != want {
			t.Fatalf("live cell with %d neighbours: got %v, expected %v", n, got, want)
		}
		if got, want := NextState(false, n), n == 3; got != want {
			t.Fatalf("dead cell with %d neighbours: got %v, expected %v", n, got, want)
		}
	}
}

//stepWith adapts an engine to the plain Step signature
func stepWith(e Engine) func(g *Grid) int {
	return func(g *Grid) int {
		live, err := e(context.Background(), g)
		if err != nil {
			panic(err)
		}
		return live
	}
}

func TestStepEngines(t *testing.T) {
	for _, name := range EngineNames() {
		step := stepWith(engines[name])
		t.Run(name, func(t *testing.T) {
			t.Run("blinker", func(t *testing.T) {
				g := gridWith([2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})
				if live := step(g); live != 3 {
					t.Fatalf("live cells = %d, expected 3", live)
				}
				expectAlive(t, g, [2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1})
				step(g)
				expectAlive(t, g, [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})
			})
			t.Run("blinker across the corner", func(t *testing.T) {
				g := gridWith([2]int{0, 31}, [2]int{0, 0}, [2]int{0, 1})
				step(g)
				expectAlive(t, g, [2]int{31, 0}, [2]int{0, 0}, [2]int{1, 0})
			})
			t.Run("empty", func(t *testing.T) {
				g := NewGrid()
				if live := step(g); live != 0 {
					t.Fatalf("empty grid produced %d live cells", live)
				}
				expectAlive(t, g)
			})
			t.Run("lonely cell dies", func(t *testing.T) {
				g := gridWith([2]int{7, 9})
				step(g)
				expectAlive(t, g)
			})
			t.Run("block is still", func(t *testing.T) {
				block := [][2]int{{31, 31}, {31, 0}, {0, 31}, {0, 0}}
				g := gridWith(block...)
				step(g)
				expectAlive(t, g, block...)
			})
		})
	}
}

func TestEnginesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	for i := 0; i < 5; i++ {
		a := NewGrid()
		a.Randomize(rng, 0.35)
		b := NewGrid()
		a.ForEachCell(func(row int, col int, c Cell) {
			b.cells[row][col].Alive = c.Alive
		})
		for s := 0; s < 20; s++ {
			la, lb := Step(a), stepWith(StepParallel)(b)
			if la != lb || a.Hash() != b.Hash() {
				t.Fatalf("run %d step %d: sequential and parallel engines disagree", i, s)
			}
		}
	}
}

func TestCancelledStepKeepsTheGrid(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range EngineNames() {
		g := gridWith([2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})
		before := g.Hash()
		live, err := engines[name](ctx, g)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: error = %v, expected context.Canceled", name, err)
		}
		if live != 0 || g.Hash() != before {
			t.Fatalf("%s: cancelled step changed the grid", name)
		}
		//the grid still steps normally afterwards
		if live := stepWith(engines[name])(g); live != 3 {
			t.Fatalf("%s: live cells = %d after a cancelled step", name, live)
		}
		expectAlive(t, g, [2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1})
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		rows, workers, minRows int
		expected               []rowBand
	}{
		{32, 4, 4, []rowBand{{0, 8}, {8, 16}, {16, 24}, {24, 32}}},
		{10, 4, 4, []rowBand{{0, 4}, {4, 8}, {8, 10}}},
		{33, 4, 4, []rowBand{{0, 9}, {9, 18}, {18, 27}, {27, 33}}},
	}
	for _, tt := range tests {
		got := splitRows(tt.rows, tt.workers, tt.minRows)
		if len(got) != len(tt.expected) {
			t.Fatalf("splitRows(%d,%d,%d) = %v, expected %v", tt.rows, tt.workers, tt.minRows, got, tt.expected)
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Fatalf("splitRows(%d,%d,%d) = %v, expected %v", tt.rows, tt.workers, tt.minRows, got, tt.expected)
			}
		}
	}
}

func TestLookupEngine(t *testing.T) {
	if _, err := LookupEngine("parallel"); err != nil {
		t.Fatal(err)
	}
	if _, err := LookupEngine("smallBuff"); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("unknown engine accepted")
	}
	if _, err := NewTorusUniverse(&Options{Engine: "nope"}); err == nil {
		t.Fatalf("universe created with an unknown engine")
	}
}
