package keys

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
)

// DecodeXrefKey splits an xref key into its model id and element key.
// The element key is whatever follows the model id; its length is not checked.
func DecodeXrefKey(key string) (modelID, elementKey string, err error) {
	buf, err := decodeKey(key)
	if err != nil {
		return "", "", err
	}
	if len(buf) < ModelIDSize {
		return "", "", lengthError("xref key", len(buf), XrefKeySize)
	}

	return makeWebSafe(buf[:ModelIDSize]), makeWebSafe(buf[ModelIDSize:]), nil
}

// ToXrefKey joins a model id and a full element key into an xref key.
func ToXrefKey(modelID, elementKey string) (string, error) {
	model, err := decodeKey(modelID)
	if err != nil {
		return "", err
	}
	if len(model) != ModelIDSize {
		return "", lengthError("model id", len(model), ModelIDSize)
	}

	element, err := decodeKey(elementKey)
	if err != nil {
		return "", err
	}
	if len(element) != ElementIDWithFlagsSize {
		return "", lengthError("full key", len(element), ElementIDWithFlagsSize)
	}

	buf := make([]byte, 0, XrefKeySize)
	buf = append(buf, model...)
	buf = append(buf, element...)
	return makeWebSafe(buf), nil
}

// ToFullKey prefixes a short key with the physical or logical flags word.
func ToFullKey(shortKey string, logical bool) (string, error) {
	buf, err := decodeKey(shortKey)
	if err != nil {
		return "", err
	}
	if len(buf) != ElementIDSize {
		return "", lengthError("short key", len(buf), ElementIDSize)
	}

	return makeWebSafe(appendFullKey(make([]byte, 0, ElementIDWithFlagsSize), buf, logical)), nil
}

// ToShortKey drops the flags word of a full key.
func ToShortKey(fullKey string) (string, error) {
	buf, err := decodeKey(fullKey)
	if err != nil {
		return "", err
	}
	if len(buf) < ElementIDWithFlagsSize {
		return "", lengthError("full key", len(buf), ElementIDWithFlagsSize)
	}

	return makeWebSafe(buf[ElementFlagsSize:ElementIDWithFlagsSize]), nil
}

// KeyFlags returns the flags word of a full key.
func KeyFlags(fullKey string) (uint32, error) {
	buf, err := decodeKey(fullKey)
	if err != nil {
		return 0, err
	}
	if len(buf) != ElementIDWithFlagsSize {
		return 0, lengthError("full key", len(buf), ElementIDWithFlagsSize)
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ToGUIDString renders an element key as a Revit unique id: the first 16
// bytes as a GUID followed by the last 4 bytes in hex. Works for short and
// full keys; only meaningful for models imported from Revit.
func ToGUIDString(key string) (string, error) {
	buf, err := decodeKey(key)
	if err != nil {
		return "", err
	}
	if len(buf) == ElementIDWithFlagsSize {
		buf = buf[ElementFlagsSize:]
	}
	if len(buf) != ElementIDSize {
		return "", lengthError("element key", len(buf), ElementIDSize)
	}

	guid, err := uuid.FromBytes(buf[:16])
	if err != nil {
		return "", err
	}
	return guid.String() + "-" + hex.EncodeToString(buf[16:]), nil
}

func appendFullKey(dst, shortKey []byte, logical bool) []byte {
	dst = binary.BigEndian.AppendUint32(dst, keyFlags(logical))
	return append(dst, shortKey...)
}

// ElementID returns the raw element id of a short or full key.
func ElementID(key string) ([]byte, error) {
	buf, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	switch len(buf) {
	case ElementIDSize:
		return buf, nil
	case ElementIDWithFlagsSize:
		return buf[ElementFlagsSize:], nil
	default:
		return nil, lengthError("element key", len(buf), ElementIDSize)
	}
}

// ModelIDBytes returns the raw model id of a bare model id or model URN.
func ModelIDBytes(modelID string) ([]byte, error) {
	buf, err := decodeKey(ModelIDFromURN(modelID))
	if err != nil {
		return nil, err
	}
	if len(buf) != ModelIDSize {
		return nil, lengthError("model id", len(buf), ModelIDSize)
	}
	return buf, nil
}

// EncodeKey renders raw key bytes as web-safe key text.
func EncodeKey(b []byte) string {
	return makeWebSafe(b)
}
