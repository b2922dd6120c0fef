package keys

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/multiformats/go-varint"
)

// ToSystemID converts an element key (short or full) to its system id: the
// uint32 held in the last 4 bytes, varint encoded, as standard base64
// without padding. Unlike keys, system ids are not made web-safe.
func ToSystemID(key string) (string, error) {
	buf, err := decodeKey(key)
	if err != nil {
		return "", err
	}
	if len(buf) < 4 {
		return "", lengthError("element key", len(buf), ElementIDSize)
	}

	id := binary.BigEndian.Uint32(buf[len(buf)-4:])

	res := make([]byte, SystemIDSize)
	n := varint.PutUvarint(res, uint64(id))
	return base64.RawStdEncoding.EncodeToString(res[:n]), nil
}

// FromSystemID decodes a system id back to its integer value.
func FromSystemID(text string) (uint32, error) {
	buf, err := decodeKey(text)
	if err != nil {
		return 0, err
	}

	id, n, err := varint.FromUvarint(buf)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "system id %q", text), ErrMalformedKey)
	}
	if n != len(buf) {
		return 0, errors.Wrapf(ErrMalformedKey, "system id %q: %d trailing bytes", text, len(buf)-n)
	}
	if id > uint64(^uint32(0)) {
		return 0, errors.Wrapf(ErrMalformedKey, "system id %q: value %d overflows uint32", text, id)
	}
	return uint32(id), nil
}
