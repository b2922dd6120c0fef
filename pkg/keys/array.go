package keys

import (
	"iter"
	"strings"

	"github.com/cockroachdb/errors"
)

// DecodeShortKeyArray decodes a packed array of short keys (for example a
// same-model room reference list). Keys are yielded in input order, as short
// keys or, with opts.FullKeys, as full keys carrying the opts.Logical flags.
//
// A trailing record shorter than ElementIDSize is dropped unless opts.Strict
// is set. Malformed text fails before any key is yielded.
func DecodeShortKeyArray(text string, opts ArrayOptions) (iter.Seq[string], error) {
	buf, err := decodeKey(text)
	if err != nil {
		return nil, err
	}
	if err := checkTail(len(buf), ElementIDSize, opts.Strict); err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		full := make([]byte, 0, ElementIDWithFlagsSize)
		for offset := 0; len(buf)-offset >= ElementIDSize; offset += ElementIDSize {
			chunk := buf[offset : offset+ElementIDSize]
			var key string
			if opts.FullKeys {
				key = makeWebSafe(appendFullKey(full[:0], chunk, opts.Logical))
			} else {
				key = makeWebSafe(chunk)
			}
			if !yield(key) {
				return
			}
		}
	}, nil
}

// EncodeShortKeyArray packs keys into a short key array. With opts.FullKeys
// the inputs must be full keys and their flags words are dropped.
func EncodeShortKeyArray(keys []string, opts ArrayOptions) (string, error) {
	want, what := ElementIDSize, "short key"
	if opts.FullKeys {
		want, what = ElementIDWithFlagsSize, "full key"
	}

	buf := make([]byte, 0, len(keys)*ElementIDSize)
	for i, key := range keys {
		b, err := decodeKey(key)
		if err != nil {
			return "", errors.Wrapf(err, "key %d", i)
		}
		if len(b) != want {
			return "", errors.Wrapf(lengthError(what, len(b), want), "key %d", i)
		}
		buf = append(buf, b[want-ElementIDSize:]...)
	}
	return makeWebSafe(buf), nil
}

// DecodeXrefKeyArray decodes a packed array of xref keys (for example a
// cross-model room reference list). Empty text yields an empty sequence.
// Only opts.Strict applies; a trailing partial record is otherwise dropped.
func DecodeXrefKeyArray(text string, opts ArrayOptions) (iter.Seq[Xref], error) {
	if strings.TrimSpace(text) == "" {
		return func(func(Xref) bool) {}, nil
	}

	buf, err := decodeKey(text)
	if err != nil {
		return nil, err
	}
	if err := checkTail(len(buf), XrefKeySize, opts.Strict); err != nil {
		return nil, err
	}

	return func(yield func(Xref) bool) {
		for offset := 0; len(buf)-offset >= XrefKeySize; offset += XrefKeySize {
			record := buf[offset : offset+XrefKeySize]
			ref := Xref{
				ModelID:    makeWebSafe(record[:ModelIDSize]),
				ElementKey: makeWebSafe(record[ModelIDSize:]),
			}
			if !yield(ref) {
				return
			}
		}
	}, nil
}

// EncodeXrefKeyArray packs xrefs into an xref key array.
func EncodeXrefKeyArray(refs []Xref) (string, error) {
	buf := make([]byte, 0, len(refs)*XrefKeySize)
	for i, ref := range refs {
		model, err := decodeKey(ref.ModelID)
		if err != nil {
			return "", errors.Wrapf(err, "xref %d", i)
		}
		if len(model) != ModelIDSize {
			return "", errors.Wrapf(lengthError("model id", len(model), ModelIDSize), "xref %d", i)
		}
		element, err := decodeKey(ref.ElementKey)
		if err != nil {
			return "", errors.Wrapf(err, "xref %d", i)
		}
		if len(element) != ElementIDWithFlagsSize {
			return "", errors.Wrapf(lengthError("full key", len(element), ElementIDWithFlagsSize), "xref %d", i)
		}
		buf = append(buf, model...)
		buf = append(buf, element...)
	}
	return makeWebSafe(buf), nil
}

func checkTail(n, recordSize int, strict bool) error {
	if rem := n % recordSize; strict && rem != 0 {
		return errors.Wrapf(ErrTruncatedArray, "%d trailing bytes after %d records of %d", rem, n/recordSize, recordSize)
	}
	return nil
}
