package migrate

// batch.go bounds the size of flushed statement groups.
//
// The store rejects a payload larger than its configured maximum message
// size, so statements are grouped into batches whose cumulative text stays
// under a ceiling set with headroom below that limit.

// DefaultBatchLimit is the default batch ceiling in bytes. Generated
// batches routinely exceed 2 MB on real data sets, so the store's
// max_allowed_packet needs headroom above this value.
const DefaultBatchLimit = 2 << 20

// Accumulator collects generated statements into byte-bounded batches,
// preserving statement order within and across batches.
type Accumulator struct {
	limit   int
	batches [][]string
	current []string
	size    int
}

// NewAccumulator returns an accumulator with the given byte ceiling.
// A non-positive limit falls back to DefaultBatchLimit.
func NewAccumulator(limit int) *Accumulator {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &Accumulator{limit: limit}
}

// Add appends a statement, closing the current batch first when the
// statement would push it over the ceiling. A single statement larger
// than the ceiling forms its own batch.
func (a *Accumulator) Add(stmt string) {
	if a.size+len(stmt) > a.limit && len(a.current) > 0 {
		a.close()
	}
	a.current = append(a.current, stmt)
	a.size += len(stmt)
	if a.size >= a.limit {
		a.close()
	}
}

// AddRows renders and adds a sequence of row descriptors in order.
func (a *Accumulator) AddRows(rows []Row) {
	for _, row := range rows {
		a.Add(Render(row))
	}
}

// Flush returns all completed batches plus the final partial batch, in
// generation order, and resets the accumulator. Concatenating the returned
// batches reproduces the added statement sequence exactly.
func (a *Accumulator) Flush() [][]string {
	if len(a.current) > 0 {
		a.close()
	}
	batches := a.batches
	a.batches = nil
	return batches
}

// Len reports the number of statements added since the last Flush.
func (a *Accumulator) Len() int {
	n := len(a.current)
	for _, b := range a.batches {
		n += len(b)
	}
	return n
}

func (a *Accumulator) close() {
	a.batches = append(a.batches, a.current)
	a.current = nil
	a.size = 0
}
