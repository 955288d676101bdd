package result

// Result is a single similarity hit. Transient, produced per query.
type Result struct {
	id    int
	text  string
	score float64
}

// New creates a search result.
func New(id int, text string, score float64) Result {
	return Result{id: id, text: text, score: score}
}

// ID returns the corpus entry identifier.
func (r *Result) ID() int { return r.id }

// Text returns the stored snippet text.
func (r *Result) Text() string { return r.text }

// Score returns the cosine similarity against the query.
func (r *Result) Score() float64 { return r.score }

// AboveThreshold keeps results whose score is at least min, preserving order.
func AboveThreshold(results []Result, min float64) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score() >= min {
			out = append(out, r)
		}
	}
	return out
}

// Texts returns the snippet texts in result order.
func Texts(results []Result) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].Text()
	}
	return out
}

// IDs returns the entry identifiers in result order.
func IDs(results []Result) []int {
	out := make([]int, len(results))
	for i := range results {
		out[i] = results[i].ID()
	}
	return out
}
