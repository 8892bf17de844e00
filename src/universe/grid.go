package universe

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
)

//Size is the dimension of the square universe, it never changes at runtime
const Size = 32

//ErrInvalidCoordinate is returned for any row or column outside [0, Size)
var ErrInvalidCoordinate = errors.New("invalid coordinate")

//Cell holds the observable state and the staging value used by the rule engine
//next is meaningful only between the evaluate and commit phases of one step
type Cell struct {
	Alive bool
	next  bool
}

//Grid is the fixed Size x Size toroidal field, it exclusively owns its cells
type Grid struct {
	cells [Size][Size]Cell
}

//NewGrid allocates an empty grid
func NewGrid() *Grid {
	return &Grid{}
}

//Get returns the alive state of the cell at row, col
func (g *Grid) Get(row int, col int) (bool, error) {
	if err := checkCoordinate(row, col); err != nil {
		return false, err
	}
	return g.cells[row][col].Alive, nil
}

//Set changes the alive state of a single cell
func (g *Grid) Set(row int, col int, alive bool) error {
	if err := checkCoordinate(row, col); err != nil {
		return err
	}
	g.cells[row][col].Alive = alive
	return nil
}

//NeighborCount counts live cells among the 8 neighbours of row, col
//rows and columns wrap independently: -1 is Size-1 and Size is 0
func (g *Grid) NeighborCount(row int, col int) (count int) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.cells[wrap(row+dr)][wrap(col+dc)].Alive {
				count++
			}
		}
	}
	return
}

//ForEachCell walks the grid in row-major order and calls the cb function for each cell
func (g *Grid) ForEachCell(cb func(row int, col int, c Cell)) {
	for row := range g.cells {
		for col := range g.cells[row] {
			cb(row, col, g.cells[row][col])
		}
	}
}

//Clear kills all cells
func (g *Grid) Clear() {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].Alive = false
		}
	}
}

//Randomize makes every cell alive with probability p, each cell is an independent trial
func (g *Grid) Randomize(rng *rand.Rand, p float64) {
	for row := range g.cells {
		for col := range g.cells[row] {
			g.cells[row][col].Alive = rng.Float64() < p
		}
	}
}

//LiveCells calculates the count of live cells
func (g *Grid) LiveCells() (live int) {
	g.ForEachCell(func(_ int, _ int, c Cell) {
		if c.Alive {
			live++
		}
	})
	return
}

//Snapshot copies the alive bits out of the grid
func (g *Grid) Snapshot() (s [Size][Size]bool) {
	g.ForEachCell(func(row int, col int, c Cell) {
		s[row][col] = c.Alive
	})
	return
}

//Hash returns the md5 digest of the alive bits in row-major order
func (g *Grid) Hash() string {
	var b [Size * Size]byte
	g.ForEachCell(func(row int, col int, c Cell) {
		if c.Alive {
			b[row*Size+col] = 1
		}
	})
	return fmt.Sprintf("%x", md5.Sum(b[:]))
}

func checkCoordinate(row int, col int) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return errors.Wrapf(ErrInvalidCoordinate, "row %d, col %d is outside [0,%d)", row, col, Size)
	}
	return nil
}

//wrap maps any index onto [0, Size)
func wrap(i int) int {
	return (i%Size + Size) % Size
}
