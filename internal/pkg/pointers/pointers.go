package pointers

// Float64 returns a pointer to v, for the nullable analytics columns.
func Float64(v float64) *float64 { return &v }
