package trampoline

import (
	"github.com/wippyai/wasi-trampoline-bindgen/internal/casing"
)

// ExternalName returns the exported symbol of a hook under variant.
func ExternalName(variant AbiVariant, module, function string) string {
	switch variant {
	case Latest:
		return "__imported_" + casing.Snake(module) + "_" + casing.Snake(function)
	case Legacy:
		return "__wasi_" + casing.Snake(function)
	}
	panic("trampoline: invalid AbiVariant " + variant.String())
}

// TrampolineName returns the internal symbol a hook forwards to.
func TrampolineName(module, function string) string {
	return "wasi_vfs_" + casing.Snake(module) + "_" + casing.Snake(function)
}
