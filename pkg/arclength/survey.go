package arclength

// Convergence summarizes inversion effort over a set of queries.
type Convergence struct {
	Queries      int
	MaxIter      int
	AvgIter      float64
	NotConverged int
}

// Survey inverts n equally spaced distances in [0, FullLength) and
// reports the iteration counts.
func Survey(a *Parametrizer, n int) Convergence {
	res := Convergence{Queries: n}
	if n <= 0 {
		return res
	}
	full := a.FullLength()
	var total int
	for i := 0; i < n; i++ {
		inv := a.Invert(full*float64(i)/float64(n), full)
		total += inv.Iterations
		if inv.Iterations > res.MaxIter {
			res.MaxIter = inv.Iterations
		}
		if !inv.Converged {
			res.NotConverged++
		}
	}
	res.AvgIter = float64(total) / float64(n)
	return res
}
