package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// Lookup holds the next state indexed by [current state][live neighbors].
var Lookup = buildLookup()

func buildLookup() (table [2][9]uint8) {
	for state := range 2 {
		for neighbors := range 9 {
			if ApplyConwayRules(neighbors, state == 1) {
				table[state][neighbors] = 1
			}
		}
	}
	return table
}
