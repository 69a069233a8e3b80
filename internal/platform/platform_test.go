//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"testing"
)

func TestIs64Bit(t *testing.T) {
	// We only support 64-bit platforms
	if !Is64Bit {
		t.Error("Platform should be 64-bit")
	}
}

func TestLibraryExtension(t *testing.T) {
	switch runtime.GOOS {
	case "darwin":
		if LibraryExtension != ".dylib" {
			t.Errorf("expected .dylib, got %s", LibraryExtension)
		}
	case "windows":
		if LibraryExtension != ".dll" {
			t.Errorf("expected .dll, got %s", LibraryExtension)
		}
	default:
		if LibraryExtension != ".so" {
			t.Errorf("expected .so, got %s", LibraryExtension)
		}
	}
}

func TestFormatLibraryName(t *testing.T) {
	versioned := FormatLibraryName("examplert", 1)
	unversioned := FormatLibraryName("examplert", 0)

	switch runtime.GOOS {
	case "darwin":
		if versioned != "libexamplert.1.dylib" {
			t.Errorf("versioned name: got %s", versioned)
		}
		if unversioned != "libexamplert.dylib" {
			t.Errorf("unversioned name: got %s", unversioned)
		}
	case "windows":
		if versioned != "examplert-1.dll" {
			t.Errorf("versioned name: got %s", versioned)
		}
		if unversioned != "examplert.dll" {
			t.Errorf("unversioned name: got %s", unversioned)
		}
	default:
		if versioned != "libexamplert.so.1" {
			t.Errorf("versioned name: got %s", versioned)
		}
		if unversioned != "libexamplert.so" {
			t.Errorf("unversioned name: got %s", unversioned)
		}
	}
}
