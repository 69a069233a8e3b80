//go:build !ios && !android && (amd64 || arm64)

package refbridge

import "github.com/obinnaokechukwu/refbridge/internal/bindings"

// NativeRemote is a Remote backed by the remote runtime's native
// lifetime library, loaded through purego. Its methods are safe to call
// before Attach succeeds; they do nothing until the library is loaded.
type NativeRemote struct{}

// IncRef implements Remote.
func (NativeRemote) IncRef(refnum int32) {
	bindings.IncRef(refnum)
}

// DestroyRef implements Remote.
func (NativeRemote) DestroyRef(refnum int32) {
	bindings.DestroyRef(refnum)
}

// Attach loads the named native lifetime library (base name, without
// platform prefix or extension) and installs t's retain/release entry
// points so the remote runtime can drive them. It is safe to call
// multiple times; the first successful load wins.
//
// The usual pattern pairs Attach with a NativeRemote:
//
//	t := refbridge.New(refbridge.NativeRemote{})
//	if err := refbridge.Attach(t, "examplert"); err != nil {
//		// remote runtime not present
//	}
func Attach(t *Tracker, libname string) error {
	if err := bindings.Load(libname); err != nil {
		return err
	}
	return bindings.InstallCallbacks(t.IncRefnum, t.DecRef)
}

// Attached reports whether the native lifetime library has been loaded.
func Attached() bool {
	return bindings.IsLoaded()
}
