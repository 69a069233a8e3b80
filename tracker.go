package refbridge

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/obinnaokechukwu/refbridge/internal/identity"
	"github.com/obinnaokechukwu/refbridge/internal/refmap"
)

// refnumSource hands out the positive refnums for Go objects, starting
// at refOffset. A refnum is never reused within a process. Callers hold
// the tracker mutex.
type refnumSource struct {
	next int32
}

func newRefnumSource() refnumSource {
	return refnumSource{next: refOffset}
}

func (s *refnumSource) alloc() int32 {
	if s.next == math.MaxInt32 {
		panic(fmt.Errorf("%w: refnum space", ErrExhausted))
	}
	n := s.next
	s.next++
	return n
}

// Tracker owns the reference bookkeeping for one runtime boundary: the
// refnum allocator, the refnum-to-record table that pins Go objects, and
// the identity map that lets a resent object reuse its refnum.
//
// A single mutex guards all three. Every operation is a bounded
// in-memory table operation, so the mutex is never held across I/O or a
// callback. Trackers are independent of each other; a process may run
// several boundaries side by side, each with its own refnum space.
type Tracker struct {
	remote Remote
	log    *slog.Logger

	mu      sync.Mutex
	refnums refnumSource
	objs    refmap.Map[Ref]     // refnum -> pinned record
	refs    identity.Map[int32] // object instance -> refnum
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger routes the tracker's diagnostics to log instead of
// slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// New creates a Tracker that sends remote-side retention and release
// notifications through remote.
func New(remote Remote, opts ...Option) *Tracker {
	t := &Tracker{
		remote:  remote,
		log:     slog.Default(),
		refnums: newRefnumSource(),
		objs:    refmap.New[Ref](),
		refs:    identity.New[int32](),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IncRef pins o for the remote runtime and returns its refnum,
// allocating one on first send and reusing it afterwards. Each call
// counts one outstanding remote reference; the remote side owes one
// DecRef per IncRef.
//
// A nil object maps to NullRefnum without any bookkeeping. An object
// that implements Proxy already stands for a remote-origin reference and
// is not tracked again locally; the retention is delegated to the count
// it already has.
func (t *Tracker) IncRef(o any) int32 {
	if o == nil {
		return NullRefnum
	}
	if p, ok := o.(Proxy); ok {
		return p.IncRefnum()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	refnum, ok := t.refs.Get(o)
	if !ok {
		refnum = t.refnums.alloc()
		t.refs.Put(o, refnum)
	}
	ref := t.objs.Get(refnum)
	if ref == nil {
		ref = &Ref{refnum: refnum, obj: o, t: t}
		t.objs.Put(refnum, ref)
	}
	ref.inc()
	return refnum
}

// IncRefnum adds one remote reference to an already-tracked refnum. The
// remote runtime drives this when it retains a refnum beyond the call it
// arrived in. An unknown refnum panics with ErrProtocol.
func (t *Tracker) IncRefnum(refnum int32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ref := t.objs.Get(refnum)
	if ref == nil {
		panic(fmt.Errorf("%w: IncRefnum of unknown refnum %d", ErrProtocol, refnum))
	}
	ref.inc()
}

// DecRef drops one remote reference from refnum. When the count reaches
// zero the record and its identity entry are removed together and the
// object becomes collectable again.
//
// NullRefnum is a no-op. A refnum in the remote-origin space is logged
// and ignored, never raised: this path is driven by remote-side cleanup
// code that must not fail. An unknown local refnum panics with
// ErrProtocol.
func (t *Tracker) DecRef(refnum int32) {
	if refnum == NullRefnum {
		return
	}
	if refnum <= 0 {
		// Remote-origin refnums are not tracked on this side. A
		// release for one means the notification was routed to the
		// wrong runtime.
		t.log.Error("refbridge: DecRef of remote-origin refnum", "refnum", refnum)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ref := t.objs.Get(refnum)
	if ref == nil {
		panic(fmt.Errorf("%w: DecRef of unknown refnum %d", ErrProtocol, refnum))
	}
	ref.refcnt--
	if ref.refcnt <= 0 {
		t.objs.Remove(refnum)
		t.refs.Delete(ref.obj)
	}
}

// Get returns the Ref behind a refnum arriving from the remote runtime.
//
// NullRefnum yields the shared null Ref. A positive refnum must already
// be tracked — the sender was obliged to IncRef before letting the
// refnum travel — and anything else panics with ErrProtocol. A negative
// refnum yields a fresh remote-origin representative on every call.
func (t *Tracker) Get(refnum int32) *Ref {
	if refnum == NullRefnum {
		return nullRef
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if refnum > 0 {
		ref := t.objs.Get(refnum)
		if ref == nil {
			panic(fmt.Errorf("%w: Get of unknown refnum %d", ErrProtocol, refnum))
		}
		return ref
	}
	return t.newRemoteRef(refnum)
}

// TrackerStats is a point-in-time snapshot of tracker state.
type TrackerStats struct {
	// LiveRefs is the number of Go objects currently pinned.
	LiveRefs int

	// IdentityEntries is the number of object-to-refnum identity
	// entries. It can trail LiveRefs when pinned objects carry no
	// stable instance identity.
	IdentityEntries int

	// NextRefnum is the next refnum the allocator will hand out.
	NextRefnum int32

	// TableCapacity is the backing-array capacity of the reference
	// table.
	TableCapacity int
}

// Stats returns a consistent snapshot of the tracker's bookkeeping.
func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TrackerStats{
		LiveRefs:        t.objs.Len(),
		IdentityEntries: t.refs.Len(),
		NextRefnum:      t.refnums.next,
		TableCapacity:   t.objs.Cap(),
	}
}
