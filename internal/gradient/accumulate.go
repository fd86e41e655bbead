package gradient

// Summary is the terminal result of a route analysis: the total route
// length and the accumulated length per category. TotalLength always
// equals the sum of the three category lengths.
type Summary struct {
	TotalLength      float64 `json:"total_length"`
	AcceptableLength float64 `json:"acceptable_length"`
	WarningLength    float64 `json:"warning_length"`
	SteepLength      float64 `json:"steep_length"`
}

// Merge adds another summary into this one. Used when combining per-route
// summaries into a batch total.
func (s *Summary) Merge(other Summary) {
	s.TotalLength += other.TotalLength
	s.AcceptableLength += other.AcceptableLength
	s.WarningLength += other.WarningLength
	s.SteepLength += other.SteepLength
}

// Accumulator keeps the running length totals for one route analysis. It
// is owned by a single run and updated sequentially in segment order; no
// ambient state is involved, so independent routes can be analyzed in
// parallel with one accumulator each.
type Accumulator struct {
	summary Summary
}

// Add records one segment's planar length under its category.
func (a *Accumulator) Add(length float64, cat Category) {
	a.summary.TotalLength += length
	switch cat {
	case CategoryAcceptable:
		a.summary.AcceptableLength += length
	case CategoryWarning:
		a.summary.WarningLength += length
	case CategorySteep:
		a.summary.SteepLength += length
	}
}

// Summary returns the accumulated totals.
func (a *Accumulator) Summary() Summary {
	return a.summary
}
