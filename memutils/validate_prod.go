//go:build !debug_ndmem

package memutils

// DebugEnabled is true when the module is built with the debug_ndmem build tag
const DebugEnabled bool = false

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_ndmem build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_ndmem build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}

// DebugFatal panics with the provided error if it is not nil. Destroy methods pass their leak reports
// through it so that leaks stop the process in debug builds. This method no-ops unless the debug_ndmem
// build tag is present.
func DebugFatal(err error) {
}
