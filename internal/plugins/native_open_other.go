//go:build !((linux || darwin || freebsd) && cgo)

package plugins

func openNative(string) (Symbols, error) {
	return nil, ErrNativeUnsupported
}

// NativeSupported reports whether this build can open native plugin modules.
func NativeSupported() bool { return false }
