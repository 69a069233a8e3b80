package refbridge

import (
	"fmt"
	"math"
	"runtime"
)

// A Ref is an object tagged with a refnum for passing back and forth
// across the runtime boundary.
//
// A Ref with a positive refnum OWNS the Go object it was created for:
// while the Ref sits in the tracker's table, the object cannot be
// collected even when the only reference to it is held by remote code.
// A Ref with a negative refnum is a representative of a remote-owned
// object; it owns nothing locally, and once it becomes unreachable the
// remote runtime is asked to drop one reference.
type Ref struct {
	refnum int32
	refcnt int32 // times the pinned object has been sent outward
	obj    any   // pinned Go object; nil for remote-origin refs
	t      *Tracker
}

// nullRef is the canonical representative of the cross-boundary null.
var nullRef = &Ref{refnum: NullRefnum}

// Refnum returns the refnum this Ref is tagged with.
func (r *Ref) Refnum() int32 { return r.refnum }

// Obj returns the pinned Go object. It is nil for the null Ref and for
// remote-origin representatives.
func (r *Ref) Obj() any { return r.obj }

// IncRefnum implements Proxy. A remote-origin representative forwards
// the retention to the remote runtime's own count; a local-origin Ref
// bumps the local pin count. The null Ref counts nothing.
func (r *Ref) IncRefnum() int32 {
	switch {
	case r.refnum == NullRefnum:
		return NullRefnum
	case r.refnum < 0:
		r.t.remote.IncRef(r.refnum)
		return r.refnum
	default:
		r.t.IncRefnum(r.refnum)
		return r.refnum
	}
}

// inc counts one more send of the pinned object to the remote side.
// Called under the tracker mutex.
func (r *Ref) inc() {
	if r.refcnt == math.MaxInt32 {
		panic(fmt.Errorf("%w: refcount of refnum %d", ErrExhausted, r.refnum))
	}
	r.refcnt++
}

// newRemoteRef materializes a representative for a remote-origin refnum.
//
// Representatives are deliberately not cached: the remote runtime
// receives exactly one DestroyRef per representative it handed out, so
// reusing one per refnum would skew its release accounting.
func (t *Tracker) newRemoteRef(refnum int32) *Ref {
	r := &Ref{refnum: refnum, t: t}
	// Release the remote reference once the representative is
	// reclaimed. The cleanup runs from the runtime's cleanup queue and
	// never touches tracker state.
	runtime.AddCleanup(r, t.remote.DestroyRef, refnum)
	return r
}
