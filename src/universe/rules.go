package universe

//NextState is the Conway rule: a live cell survives with 2 or 3 live neighbours,
//a dead cell is born with exactly 3
func NextState(alive bool, neighbours int) bool {
	if alive {
		return neighbours == 2 || neighbours == 3
	}
	return neighbours == 3
}

//Step advances the grid by one generation and returns the number of live cells
//every cell is evaluated against the previous generation before any cell is committed
func Step(g *Grid) int {
	evaluateRows(g, 0, Size)
	return commit(g)
}

//evaluateRows is the first phase of the step, it reads Alive and writes only next
//for the rows in [from, to)
func evaluateRows(g *Grid, from int, to int) {
	for row := from; row < to; row++ {
		for col := range g.cells[row] {
			c := &g.cells[row][col]
			c.next = NextState(c.Alive, g.NeighborCount(row, col))
		}
	}
}

//commit is the second phase of the step, it makes the staged states observable
func commit(g *Grid) (live int) {
	for row := range g.cells {
		for col := range g.cells[row] {
			c := &g.cells[row][col]
			c.Alive = c.next
			if c.Alive {
				live++
			}
		}
	}
	return
}
