package keys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Record sizes in bytes
const (
	ElementFlagsSize       = 4
	ElementIDSize          = 20
	ElementIDWithFlagsSize = ElementFlagsSize + ElementIDSize
	ModelIDSize            = 16
	XrefKeySize            = ModelIDSize + ElementIDWithFlagsSize

	// SystemIDSize is the buffer capacity for a system id varint, not its
	// encoded length.
	SystemIDSize = 9
)

// Flags words for full keys
const (
	KeyFlagsPhysical uint32 = 0x00000000
	KeyFlagsLogical  uint32 = 0x01000000
)

// ElementFlags is the element category stored alongside an element. The codec
// never interprets it.
type ElementFlags uint32

const (
	ElementFlagsSimpleElement ElementFlags = 0x00000000
	ElementFlagsFamilyType    ElementFlags = 0x01000000
	ElementFlagsLevel         ElementFlags = 0x01000001
	ElementFlagsRoom          ElementFlags = 0x00000005
	ElementFlagsStream        ElementFlags = 0x01000003
	ElementFlagsSystem        ElementFlags = 0x01000004
)

func (f ElementFlags) String() string {
	switch f {
	case ElementFlagsSimpleElement:
		return "element"
	case ElementFlagsFamilyType:
		return "family-type"
	case ElementFlagsLevel:
		return "level"
	case ElementFlagsRoom:
		return "room"
	case ElementFlagsStream:
		return "stream"
	case ElementFlagsSystem:
		return "system"
	default:
		return fmt.Sprintf("flags(0x%08x)", uint32(f))
	}
}

// Errors
var (
	ErrMalformedBase64  = errors.New("malformed base64 key text")
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrTruncatedArray   = errors.New("truncated key array")
	ErrMalformedKey     = errors.New("malformed key")
)

// Xref is a decoded cross-model reference.
type Xref struct {
	ModelID    string `json:"model_id"`
	ElementKey string `json:"element_key"`
}

// ArrayOptions controls how key arrays are decoded and encoded.
type ArrayOptions struct {
	FullKeys bool // Emit (or accept) 24-byte full keys instead of short keys
	Logical  bool // Flags word for emitted full keys: logical instead of physical
	Strict   bool // Fail with ErrTruncatedArray instead of dropping a partial record
}

func keyFlags(logical bool) uint32 {
	if logical {
		return KeyFlagsLogical
	}
	return KeyFlagsPhysical
}

func lengthError(what string, got, want int) error {
	return errors.Wrapf(ErrInvalidKeyLength, "%s: got %d bytes, want %d", what, got, want)
}

// ParseElementFlags is the inverse of ElementFlags.String. It also accepts a
// hex flags word such as 0x01000001.
func ParseElementFlags(s string) (ElementFlags, error) {
	for _, f := range []ElementFlags{
		ElementFlagsSimpleElement,
		ElementFlagsFamilyType,
		ElementFlagsLevel,
		ElementFlagsRoom,
		ElementFlagsStream,
		ElementFlagsSystem,
	} {
		if f.String() == s {
			return f, nil
		}
	}

	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return 0, errors.Newf("unknown element flags %q", s)
	}
	v, err := strconv.ParseUint(rest, 16, 32)
	if err != nil {
		return 0, errors.Newf("unknown element flags %q", s)
	}
	return ElementFlags(v), nil
}
