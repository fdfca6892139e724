package metrics

// Groups accumulates per-key sums, counts and distinct members, keeping keys in
// the order they were first seen. ArgMax and ArgMin resolve ties to the earliest
// key, which makes results deterministic for a given row order.
type Groups struct {
	keys     []string
	pos      map[string]int
	sum      []float64
	count    []int
	distinct []map[string]struct{}
}

// NewGroups returns an empty accumulator.
func NewGroups() *Groups {
	return &Groups{pos: map[string]int{}}
}

func (g *Groups) slot(key string) int {
	if i, ok := g.pos[key]; ok {
		return i
	}
	i := len(g.keys)
	g.pos[key] = i
	g.keys = append(g.keys, key)
	g.sum = append(g.sum, 0)
	g.count = append(g.count, 0)
	g.distinct = append(g.distinct, nil)
	return i
}

// Add adds v to the key's sum and counts one row.
func (g *Groups) Add(key string, v float64) {
	i := g.slot(key)
	g.sum[i] += v
	g.count[i]++
}

// AddMember records member as seen under key without touching sums.
func (g *Groups) AddMember(key, member string) {
	i := g.slot(key)
	if g.distinct[i] == nil {
		g.distinct[i] = map[string]struct{}{}
	}
	g.distinct[i][member] = struct{}{}
}

// Keys returns keys in first-seen order.
func (g *Groups) Keys() []string { return append([]string(nil), g.keys...) }

func (g *Groups) Len() int { return len(g.keys) }

func (g *Groups) Has(key string) bool {
	_, ok := g.pos[key]
	return ok
}

func (g *Groups) Sum(key string) float64 {
	if i, ok := g.pos[key]; ok {
		return g.sum[i]
	}
	return 0
}

func (g *Groups) Count(key string) int {
	if i, ok := g.pos[key]; ok {
		return g.count[i]
	}
	return 0
}

// Mean is sum/count, or 0 for an unseen key.
func (g *Groups) Mean(key string) float64 {
	if i, ok := g.pos[key]; ok && g.count[i] > 0 {
		return g.sum[i] / float64(g.count[i])
	}
	return 0
}

// Distinct returns the number of distinct members recorded for key.
func (g *Groups) Distinct(key string) int {
	if i, ok := g.pos[key]; ok {
		return len(g.distinct[i])
	}
	return 0
}

// ArgMax returns the key with the largest f(key).
func (g *Groups) ArgMax(f func(key string) float64) (string, float64, bool) {
	return g.pick(f, func(a, b float64) bool { return a > b })
}

// ArgMin returns the key with the smallest f(key).
func (g *Groups) ArgMin(f func(key string) float64) (string, float64, bool) {
	return g.pick(f, func(a, b float64) bool { return a < b })
}

func (g *Groups) pick(f func(string) float64, better func(a, b float64) bool) (string, float64, bool) {
	if len(g.keys) == 0 {
		return "", 0, false
	}
	bestKey, bestVal := g.keys[0], f(g.keys[0])
	for _, k := range g.keys[1:] {
		if v := f(k); better(v, bestVal) {
			bestKey, bestVal = k, v
		}
	}
	return bestKey, bestVal, true
}
