package refbridge

// Remote is the lifetime half of the bridge to the remote runtime: the
// two notifications the local tracker sends outward. Implementations
// must be safe for concurrent use and must not call back into the
// Tracker; DestroyRef in particular runs from cleanup paths that hold no
// tracker state and must not block.
type Remote interface {
	// IncRef asks the remote runtime to retain the object behind a
	// remote-origin (negative) refnum. It must complete before such a
	// refnum is sent back across the boundary, so the remote count can
	// never be observed at zero while the refnum is in flight.
	IncRef(refnum int32)

	// DestroyRef tells the remote runtime that a local representative
	// of the given remote-origin refnum has been reclaimed and one
	// remote reference may be dropped.
	DestroyRef(refnum int32)
}

// Proxy marks an object as already backed by a remote-origin reference.
// Sending such an object outward must not allocate a second, local
// refnum for it; the Tracker instead delegates to IncRefnum, which
// forwards the retention to the count that already exists.
//
// Generated bindings implement Proxy by embedding the *Ref obtained from
// Tracker.Get.
type Proxy interface {
	// IncRefnum bumps the reference count backing this object and
	// returns its refnum.
	IncRefnum() int32
}
