// Package keys provides the element key codec for digital-twin facility data.
//
// Facility elements are addressed by compact binary keys. The service that
// issues them exchanges keys as web-safe base64 text; this package converts
// between that text and the underlying fixed-width byte records.
//
// # Key Formats
//
// All keys are fixed-width byte records:
//
//	Model id:   [ModelID(16)]
//	Short key:  [ElementID(20)]
//	Full key:   [Flags(4)][ElementID(20)]
//	Xref key:   [ModelID(16)][Flags(4)][ElementID(20)]
//	System id:  LEB128 varint of the last 4 bytes of a key (1-5 bytes)
//
// Fields:
//   - Flags: 32-bit unsigned integer (big-endian). KeyFlagsPhysical or
//     KeyFlagsLogical for element keys
//   - ElementID: raw element identifier
//   - ModelID: raw model identifier
//
// # Text Encoding
//
// Keys are rendered as standard base64 with '+' replaced by '-', '/' replaced
// by '_' and trailing '=' removed. Decoding reverses the substitution and
// re-pads with len(text)%4 characters, which is what the issuing scripts do;
// any excess padding this produces is ignored.
//
// System ids are the one exception: they use the standard alphabet with the
// padding removed and no substitution.
//
// # Usage
//
// Converting between key forms:
//
//	full, err := keys.ToFullKey(shortKey, false)
//	if err != nil {
//	    return err
//	}
//
//	short, err := keys.ToShortKey(full)
//	if err != nil {
//	    return err
//	}
//
// Reading a reference array:
//
//	refs, err := keys.DecodeShortKeyArray(text, keys.ArrayOptions{})
//	if err != nil {
//	    return err
//	}
//	for key := range refs {
//	    fmt.Println(key)
//	}
//
// # Error Handling
//
// Errors wrap one of the package sentinels and can be matched with errors.Is:
//   - ErrMalformedBase64: the text is not valid base64
//   - ErrInvalidKeyLength: the decoded bytes have the wrong size for the operation
//   - ErrTruncatedArray: a strict array decode found an incomplete trailing record
//   - ErrMalformedKey: a system id is not a valid varint
//
// Array decoding drops an incomplete trailing record by default rather than
// failing; set ArrayOptions.Strict to get ErrTruncatedArray instead.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. Sequences returned by
// the array decoders may be ranged over any number of times.
package keys
