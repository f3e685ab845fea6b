package forces

// generationClock paces grid automata against simulation time. Every cell
// force of a grid calls due on each tick; only the first call after the
// interval has elapsed reports true.
type generationClock struct {
	last float64
}

func (c *generationClock) due(t, interval float64) bool {
	if t > c.last && t-c.last >= interval {
		c.last = t
		return true
	}
	return false
}
