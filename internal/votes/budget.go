package votes

// Budget is the number of votes each participant may cast.
const Budget = 3

// CanIncrement reports whether another vote may be cast.
func CanIncrement(current []int) bool {
	return len(current) < Budget
}

// CanDecrement reports whether at least one of the current votes is on
// clusterID.
func CanDecrement(clusterID int, current []int) bool {
	for _, v := range current {
		if v == clusterID {
			return true
		}
	}
	return false
}

// Increment returns the vote list with one more vote on clusterID. The
// input is never modified. A rejected increment returns the input unchanged
// and false.
func Increment(clusterID int, current []int) ([]int, bool) {
	if !CanIncrement(current) {
		return current, false
	}
	out := make([]int, 0, len(current)+1)
	out = append(out, current...)
	return append(out, clusterID), true
}

// Decrement removes the first vote on clusterID.
func Decrement(clusterID int, current []int) ([]int, bool) {
	if !CanDecrement(clusterID, current) {
		return current, false
	}
	out := make([]int, 0, len(current)-1)
	removed := false
	for _, v := range current {
		if !removed && v == clusterID {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, true
}

// Tally counts votes per cluster.
func Tally(current []int) map[int]int {
	counts := make(map[int]int)
	for _, v := range current {
		counts[v]++
	}
	return counts
}

// Remaining is how many votes are still available.
func Remaining(current []int) int {
	if n := Budget - len(current); n > 0 {
		return n
	}
	return 0
}

// Complete reports whether a participant with n votes has used the whole
// budget.
func Complete(n int) bool {
	return n >= Budget
}
