package utils

// Sum adds up a row of passenger counts.
func Sum(counts []int) (total int) {
	for _, n := range counts {
		total += n
	}
	return total
}

// ForEachCount is a helper function that reduces indentation when walking a
// table of counters, e.g. pending requests by floor and destination.
func ForEachCount(table [][]int, action func(row, col, n int)) {
	for row := range table {
		for col, n := range table[row] {
			action(row, col, n)
		}
	}
}
