package model

// History remembers the hashes of recent generations to spot still lifes and
// short cycles.
type History struct {
	size   int
	hashes []string
}

// NewHistory keeps up to size recent states.
func NewHistory(size int) *History {
	return &History{size: max(size, 1)}
}

// Update adds the current state to history and maintains size
func (h *History) Update(g *Grid) {
	h.hashes = append(h.hashes, g.GetGridHash())
	if len(h.hashes) > h.size {
		h.hashes = h.hashes[len(h.hashes)-h.size:]
	}
}

// Reset forgets all recorded states.
func (h *History) Reset() {
	h.hashes = nil
}

// IsStagnant reports whether g repeats one of the last three recorded states.
func (h *History) IsStagnant(g *Grid) bool {
	if len(h.hashes) < 3 {
		return false
	}

	current := g.GetGridHash()
	for _, prev := range h.hashes[len(h.hashes)-3:] {
		if prev == current {
			return true
		}
	}
	return false
}
