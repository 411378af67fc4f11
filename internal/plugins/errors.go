package plugins

import "errors"

// Skip reasons. The loader never returns these from Plugins; they surface
// through Inspect so callers can report why a directory produced no plugin.
var (
	ErrManifestNotFound  = errors.New("no manifest file")
	ErrInvalidManifest   = errors.New("invalid manifest")
	ErrUnsupportedKind   = errors.New("unsupported plugin kind")
	ErrScriptUnsupported = errors.New("script plugins are not supported yet")
	ErrEntryUnreadable   = errors.New("entry file unreadable")
	ErrInvalidEntries    = errors.New("invalid entry file")
	ErrModuleOpen        = errors.New("cannot open native module")
	ErrNoEntrySymbol     = errors.New("native module exports neither NewPlugin nor Plugin")
	ErrAmbiguousEntry    = errors.New("native module exports both NewPlugin and Plugin")
	ErrBadEntrySymbol    = errors.New("native entry symbol has the wrong type")
	ErrNativeUnsupported = errors.New("native plugins are not supported on this platform")
	ErrInitialize        = errors.New("plugin initialization failed")
)
