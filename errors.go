package refbridge

import "errors"

// Fatal conditions. The Tracker panics with errors wrapping these
// sentinels: both indicate a state the calling side cannot repair, either
// because the two runtimes disagree about which refnums are live or
// because a 32-bit counter ran out. Recovered values satisfy errors.Is
// against the sentinel.
var (
	// ErrProtocol indicates desynchronized reference bookkeeping
	// between the two runtimes: a refnum was referenced that is not
	// tracked, or a live table entry was asked to change its object.
	ErrProtocol = errors.New("refbridge: reference bookkeeping desynchronized")

	// ErrExhausted indicates the refnum allocator or a reference count
	// would overflow its representable range.
	ErrExhausted = errors.New("refbridge: counter exhausted")
)
