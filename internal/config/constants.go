// Package config holds process-wide constants shared across the compiler's
// front-end and middle-end: target machine facts, test/LSP normalization
// switches, and the modifier vocabulary recognized by the type layer.
package config

// Version is the current compiler version, set at release time.
var Version = "0.4.0"

// NativePointerWidth is the bit width of a pointer, a native-width integer,
// and any type that lowers to a bare machine address (Function, MetaFunction,
// FunctionList aggregates). Sizing an unbound type variable is always fatal;
// there is no option that falls back to this width for it.
//
// Fixed at 64 for this build; a cross-compiling front-end would plumb this
// from the target triple instead of hard-coding it.
const NativePointerWidth = 64

// IsTestMode marks a test run. No package in this module reads it; type
// names and strings are produced the same way whatever its value.
var IsTestMode = false

// IsLSPMode marks a run under a language server. No package in this module
// reads it; type strings are produced the same way whatever its value.
var IsLSPMode = false

const SourceFileExt = ".an"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".an", ".ante"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Modifier tokens recognized by the type layer. The set is closed: anything
// else reaching WithModifierSet is a caller bug, not a user diagnostic.
const (
	ModMut      = "mut"
	ModOwned    = "owned"
	ModShared   = "shared"
	ModConst    = "const"
	ModVolatile = "volatile"
)

// AllModifiers lists every recognized modifier token, in declaration order.
// The type layer's canonical string form prints a modifier set sorted
// alphabetically, not in this order.
var AllModifiers = []string{ModMut, ModOwned, ModShared, ModConst, ModVolatile}

// Built-in trait names known to the prelude. User code may declare more;
// these are the ones the analyzer wires into operator resolution.
const (
	TraitShow = "Show"
	TraitEq   = "Eq"
	TraitOrd  = "Ord"
)
