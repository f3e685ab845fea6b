package particle

// Payload is scene-defined per-particle state. The engine never inspects
// it; Clone calls ClonePayload to give the copy independent state.
type Payload interface {
	ClonePayload() Payload
}

// Attrs is a general-purpose numeric payload for scenes that do not need
// their own type.
type Attrs map[string]float64

func (a Attrs) ClonePayload() Payload {
	if a == nil {
		return Attrs(nil)
	}
	c := make(Attrs, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// Get returns the value for key, or def when absent.
func (a Attrs) Get(key string, def float64) float64 {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}
