package trampoline

import (
	"github.com/wippyai/wasi-trampoline-bindgen/errors"
)

// AbiVariant selects the naming convention of exported hook symbols.
type AbiVariant int

const (
	// Legacy names hooks __wasi_<func>, without the module.
	Legacy AbiVariant = iota
	// Latest names hooks __imported_<module>_<func>.
	Latest
)

func (v AbiVariant) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Latest:
		return "latest"
	}
	return "unknown"
}

// ParseAbiVariant parses "legacy" or "latest".
func ParseAbiVariant(s string) (AbiVariant, error) {
	switch s {
	case "legacy":
		return Legacy, nil
	case "latest":
		return Latest, nil
	default:
		return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(s).
			Detail("unsupported abi variant %s", s).
			Build()
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v AbiVariant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *AbiVariant) UnmarshalText(text []byte) error {
	parsed, err := ParseAbiVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
