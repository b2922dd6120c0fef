package keys

import (
	"encoding/base64"
	"strings"

	"github.com/cockroachdb/errors"
)

var fromWebSafe = strings.NewReplacer("-", "+", "_", "/")

// makeWebSafe encodes b as standard base64 with '+' -> '-', '/' -> '_' and
// the padding removed. That is exactly the raw URL alphabet.
func makeWebSafe(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// b64Prepare turns web-safe text back into standard base64. The pad count is
// len%4, as issued by the service tooling, not the conventional (4-len%4)%4.
func b64Prepare(text string) string {
	result := fromWebSafe.Replace(text)
	return result + strings.Repeat("=", len(result)%4)
}

// decodeKey decodes web-safe (or standard) base64 key text. Excess padding
// from b64Prepare is ignored the same way a lenient decoder would.
func decodeKey(text string) ([]byte, error) {
	prepared := strings.TrimRight(b64Prepare(text), "=")
	buf, err := base64.RawStdEncoding.DecodeString(prepared)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode key %q", text), ErrMalformedBase64)
	}
	return buf, nil
}
