package resolve

// Unpaired marks a position with no partner.
const Unpaired = -1

// Map is the pairing accumulator threaded through the threshold sweep.
// Entries are one-directional: Partner(i) == j does not imply
// Partner(j) == i, because the shift rule and the smoothing pass repoint
// single entries.
type Map struct {
	partner []int
}

// NewMap returns an empty map over n positions.
func NewMap(n int) *Map {
	p := make([]int, n)
	for i := range p {
		p[i] = Unpaired
	}
	return &Map{partner: p}
}

// Len is the sequence length the map covers.
func (m *Map) Len() int { return len(m.partner) }

// Partner returns the partner of i and whether i is assigned.
func (m *Map) Partner(i int) (int, bool) {
	if i < 0 || i >= len(m.partner) || m.partner[i] == Unpaired {
		return Unpaired, false
	}
	return m.partner[i], true
}

func (m *Map) assigned(i int) bool {
	_, ok := m.Partner(i)
	return ok
}

func (m *Map) set(i, j int) { m.partner[i] = j }

// Partners returns a copy of the dense partner table (Unpaired = -1).
func (m *Map) Partners() []int {
	return append([]int(nil), m.partner...)
}

// Assigned counts positions that have a partner.
func (m *Map) Assigned() int {
	n := 0
	for _, p := range m.partner {
		if p != Unpaired {
			n++
		}
	}
	return n
}

// Pairs lists every i < Partner(i) whose partner points back, i.e. the
// mutually consistent base pairs.
func (m *Map) Pairs() [][2]int {
	var out [][2]int
	for i, j := range m.partner {
		if j > i && m.partner[j] == i {
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// Asymmetric lists the assigned positions whose partner does not point back.
func (m *Map) Asymmetric() []int {
	var out []int
	for i, j := range m.partner {
		if j == Unpaired {
			continue
		}
		if m.partner[j] != i {
			out = append(out, i)
		}
	}
	return out
}
