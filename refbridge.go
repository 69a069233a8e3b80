// Package refbridge tracks Go objects shared with a remote runtime across
// a numeric-handle boundary.
//
// Objects cross the boundary as signed 32-bit reference numbers
// ("refnums"). Positive refnums name Go objects pinned on behalf of the
// remote runtime; negative refnums name remote-owned objects that Go sees
// only through ephemeral representatives; one reserved value is the
// cross-boundary null. A Tracker owns all bookkeeping: it pins a Go object
// for as long as the remote side holds at least one reference to it, and
// releases the pin exactly once when the count returns to zero.
//
// The Tracker does not dispatch calls or marshal arguments; it only
// manages object lifetime. The call layer is expected to IncRef an object
// before its refnum travels outward and Get a refnum when one arrives,
// and the remote runtime reports retention and release through IncRefnum
// and DecRef.
//
// For boundaries backed by a native shared library, Attach loads the
// library and wires its lifetime notifications to a Tracker. Any other
// transport can plug in through the Remote interface.
package refbridge

const (
	// NullRefnum is the reserved refnum for the cross-boundary null.
	// Both sides special-case it; no record is ever allocated for it.
	NullRefnum int32 = 41

	// refOffset is the first refnum handed out for a Go object. Go
	// refnums are positive and remote refnums negative; starting above
	// the gap keeps the two spaces easy to tell apart when reading
	// refnums in logs.
	refOffset int32 = 42
)
