//go:build !ios && !android && (amd64 || arm64)

// Package bindings loads the native lifetime library of the remote
// runtime and registers the function bindings using purego.
//
// The lifetime library carries only the reference protocol: two outbound
// entry points the tracker calls to retain and release remote-owned
// objects, and a registration hook through which the remote runtime
// receives the tracker's own retain/release callbacks. Method dispatch
// and argument transport are bound elsewhere; they never pass through
// this package.
//
// Expected exports of the library:
//
//	void refbridge_inc_ref(int32_t refnum);
//	void refbridge_destroy_ref(int32_t refnum);
//	void refbridge_set_callbacks(void (*retain)(int32_t),
//	                             void (*release)(int32_t));
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/refbridge/internal/platform"
)

// ErrNotLoaded is returned when bridge functions are called before Load().
var ErrNotLoaded = errors.New("refbridge: lifetime library not loaded; call Attach first")

// ErrLibraryNotFound is returned when the lifetime library cannot be found.
var ErrLibraryNotFound = errors.New("refbridge: lifetime library not found")

var (
	lib      uintptr
	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// Function bindings into the lifetime library.
var (
	incRef       func(refnum int32)
	destroyRef   func(refnum int32)
	setCallbacks func(retain, release uintptr)
)

// IsLoaded returns true if the lifetime library has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the lifetime library by base name (without platform prefix,
// extension or version) and registers the function bindings.
// It is safe to call multiple times; only the first call's name is used.
func Load(name string) error {
	loadOnce.Do(func() {
		loadErr = doLoad(name)
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad(name string) error {
	var err error
	lib, err = loadLibrary(name, []int{1})
	if err != nil {
		return fmt.Errorf("loading %s: %w", name, err)
	}

	purego.RegisterLibFunc(&incRef, lib, "refbridge_inc_ref")
	purego.RegisterLibFunc(&destroyRef, lib, "refbridge_destroy_ref")
	purego.RegisterLibFunc(&setCallbacks, lib, "refbridge_set_callbacks")
	return nil
}

// IncRef asks the remote runtime to retain the object behind a
// remote-origin refnum. It is a no-op before Load succeeds.
func IncRef(refnum int32) {
	if !loaded {
		return
	}
	incRef(refnum)
}

// DestroyRef tells the remote runtime a local representative of refnum
// was reclaimed. It is a no-op before Load succeeds: this is called from
// cleanup paths that must not fail.
func DestroyRef(refnum int32) {
	if !loaded {
		return
	}
	destroyRef(refnum)
}

var (
	callbackMu   sync.Mutex
	callbackOnce sync.Once
	retainCBPtr  uintptr
	releaseCBPtr uintptr
	retainFn     func(int32)
	releaseFn    func(int32)
)

// InstallCallbacks hands the tracker's retain/release entry points to
// the remote runtime: retain is driven when the remote side keeps a
// refnum beyond a single call, release when it drops its last reference
// to one.
func InstallCallbacks(retain, release func(refnum int32)) error {
	if !loaded {
		return ErrNotLoaded
	}

	callbackMu.Lock()
	defer callbackMu.Unlock()

	retainFn = retain
	releaseFn = release

	// purego callbacks are a limited resource; create the trampolines once.
	callbackOnce.Do(func() {
		retainCBPtr = purego.NewCallback(retainTrampoline)
		releaseCBPtr = purego.NewCallback(releaseTrampoline)
	})

	setCallbacks(retainCBPtr, releaseCBPtr)
	return nil
}

// retainTrampoline is called by the remote runtime and forwards to the
// installed Go callback. Signature: void (*)(int32_t refnum)
func retainTrampoline(refnum int32) {
	callbackMu.Lock()
	fn := retainFn
	callbackMu.Unlock()

	if fn != nil {
		fn(refnum)
	}
}

// releaseTrampoline is called by the remote runtime and forwards to the
// installed Go callback. Signature: void (*)(int32_t refnum)
func releaseTrampoline(refnum int32) {
	callbackMu.Lock()
	fn := releaseFn
	callbackMu.Unlock()

	if fn != nil {
		fn(refnum)
	}
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	// Try each search path
	for _, searchPath := range LibrarySearchPaths() {
		// Try versioned names first (more specific)
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			fullPath := filepath.Join(searchPath, libName)

			l, err := tryOpen(fullPath)
			if err == nil {
				return l, nil
			}
		}

		// Try unversioned name
		libName := platform.FormatLibraryName(name, 0)
		fullPath := filepath.Join(searchPath, libName)
		l, err := tryOpen(fullPath)
		if err == nil {
			return l, nil
		}
	}

	// Try just the library name (let the system find it)
	for _, ver := range versions {
		libName := platform.FormatLibraryName(name, ver)
		l, err := tryOpen(libName)
		if err == nil {
			return l, nil
		}
	}

	// Try unversioned
	libName := platform.FormatLibraryName(name, 0)
	l, err := tryOpen(libName)
	if err == nil {
		return l, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	l, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return l, nil
}

// FindLibrary searches for the lifetime library and returns its full path.
// This is useful for diagnostics.
func FindLibrary(name string, versions []int) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			libName := platform.FormatLibraryName(name, ver)
			fullPath := filepath.Join(searchPath, libName)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
		// Try unversioned
		libName := platform.FormatLibraryName(name, 0)
		fullPath := filepath.Join(searchPath, libName)
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "linux":
		// Check LD_LIBRARY_PATH first
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		// Standard paths
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)
	case "darwin":
		if ldPath := os.Getenv("DYLD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/opt/homebrew/lib",
			"/usr/lib",
		)
	case "windows":
		if p := os.Getenv("PATH"); p != "" {
			paths = append(paths, filepath.SplitList(p)...)
		}
	default:
		paths = append(paths, "/usr/local/lib", "/usr/lib")
	}

	// Current directory last
	paths = append(paths, ".")
	return paths
}
