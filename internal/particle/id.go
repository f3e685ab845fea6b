package particle

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a particle. IDs come from a process-wide monotonic counter
// and are never reused, so two live particles cannot share one.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return "p" + strconv.FormatUint(uint64(id), 10)
}
