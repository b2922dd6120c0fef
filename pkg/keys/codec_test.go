package keys

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

const (
	testShortKey    = "AQIDBAUGBwgJCgsMDQ4PEBESExQ" // bytes 0x01..0x14
	testFullKey     = "AAAAAAECAwQFBgcICQoLDA0ODxAREhMU"
	testLogicalKey  = "AQAAAAECAwQFBgcICQoLDA0ODxAREhMU"
	testModelID     = "oKGio6SlpqeoqaqrrK2urw" // bytes 0xa0..0xaf
	testXrefKey     = "oKGio6SlpqeoqaqrrK2urwEAAAABAgMEBQYHCAkKCwwNDg8QERITFA"
	testGUID        = "01020304-0506-0708-090a-0b0c0d0e0f10-11121314"
	testKey300      = "AAAAAAAAAAAAAAAAAAAAAAAAASw"
	testSystemID300 = "rAI"
)

func mustDecode(t *testing.T, text string) []byte {
	t.Helper()
	b, err := decodeKey(text)
	if err != nil {
		t.Fatalf("decodeKey(%q) failed: %v", text, err)
	}
	return b
}

func seqBytes(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestToFullKey(t *testing.T) {
	testCases := []struct {
		name    string
		logical bool
		want    string
		flags   uint32
	}{
		{name: "physical", logical: false, want: testFullKey, flags: KeyFlagsPhysical},
		{name: "logical", logical: true, want: testLogicalKey, flags: KeyFlagsLogical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			full, err := ToFullKey(testShortKey, tc.logical)
			if err != nil {
				t.Fatalf("ToFullKey failed: %v", err)
			}
			if full != tc.want {
				t.Errorf("full key mismatch: got %q, want %q", full, tc.want)
			}

			flags, err := KeyFlags(full)
			if err != nil {
				t.Fatalf("KeyFlags failed: %v", err)
			}
			if flags != tc.flags {
				t.Errorf("flags mismatch: got 0x%08x, want 0x%08x", flags, tc.flags)
			}
		})
	}
}

func TestShortFullRoundTrip(t *testing.T) {
	keys := []string{
		testShortKey,
		makeWebSafe(bytes.Repeat([]byte{0xff}, ElementIDSize)),
		makeWebSafe(make([]byte, ElementIDSize)),
		makeWebSafe(bytes.Repeat([]byte{0xfb, 0xef}, ElementIDSize/2)),
	}

	for _, key := range keys {
		for _, logical := range []bool{false, true} {
			full, err := ToFullKey(key, logical)
			if err != nil {
				t.Fatalf("ToFullKey(%q, %t) failed: %v", key, logical, err)
			}
			short, err := ToShortKey(full)
			if err != nil {
				t.Fatalf("ToShortKey(%q) failed: %v", full, err)
			}
			if short != key {
				t.Errorf("round trip mismatch: got %q, want %q", short, key)
			}
		}
	}
}

func TestToFullKey_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 16, 19, 21, 24} {
		_, err := ToFullKey(makeWebSafe(make([]byte, n)), false)
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("%d bytes: expected ErrInvalidKeyLength, got %v", n, err)
		}
	}
}

func TestToShortKey(t *testing.T) {
	t.Run("full key", func(t *testing.T) {
		short, err := ToShortKey(testLogicalKey)
		if err != nil {
			t.Fatalf("ToShortKey failed: %v", err)
		}
		if short != testShortKey {
			t.Errorf("got %q, want %q", short, testShortKey)
		}
	})

	t.Run("longer input keeps the 20 element bytes", func(t *testing.T) {
		long := append(mustDecode(t, testFullKey), 0xee, 0xee)
		short, err := ToShortKey(makeWebSafe(long))
		if err != nil {
			t.Fatalf("ToShortKey failed: %v", err)
		}
		if short != testShortKey {
			t.Errorf("got %q, want %q", short, testShortKey)
		}
	})

	t.Run("short key is rejected", func(t *testing.T) {
		_, err := ToShortKey(testShortKey)
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("expected ErrInvalidKeyLength, got %v", err)
		}
	})
}

func TestXrefKeyRoundTrip(t *testing.T) {
	xref, err := ToXrefKey(testModelID, testLogicalKey)
	if err != nil {
		t.Fatalf("ToXrefKey failed: %v", err)
	}
	if xref != testXrefKey {
		t.Errorf("xref mismatch: got %q, want %q", xref, testXrefKey)
	}

	model, element, err := DecodeXrefKey(xref)
	if err != nil {
		t.Fatalf("DecodeXrefKey failed: %v", err)
	}
	if model != testModelID {
		t.Errorf("model id mismatch: got %q, want %q", model, testModelID)
	}
	if element != testLogicalKey {
		t.Errorf("element key mismatch: got %q, want %q", element, testLogicalKey)
	}
	if !bytes.Equal(mustDecode(t, model), seqBytes(0xa0, ModelIDSize)) {
		t.Errorf("model bytes mismatch: %x", mustDecode(t, model))
	}
}

func TestDecodeXrefKey_Boundaries(t *testing.T) {
	t.Run("model id only", func(t *testing.T) {
		model, element, err := DecodeXrefKey(testModelID)
		if err != nil {
			t.Fatalf("DecodeXrefKey failed: %v", err)
		}
		if model != testModelID || element != "" {
			t.Errorf("got (%q, %q), want (%q, \"\")", model, element, testModelID)
		}
	})

	t.Run("truncated element is passed through", func(t *testing.T) {
		raw := append(seqBytes(0xa0, ModelIDSize), 1, 2, 3)
		_, element, err := DecodeXrefKey(makeWebSafe(raw))
		if err != nil {
			t.Fatalf("DecodeXrefKey failed: %v", err)
		}
		if !bytes.Equal(mustDecode(t, element), []byte{1, 2, 3}) {
			t.Errorf("element bytes mismatch: %x", mustDecode(t, element))
		}
	})

	t.Run("shorter than a model id", func(t *testing.T) {
		_, _, err := DecodeXrefKey(makeWebSafe(make([]byte, ModelIDSize-1)))
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("expected ErrInvalidKeyLength, got %v", err)
		}
	})
}

func TestToXrefKey_InvalidLength(t *testing.T) {
	testCases := []struct {
		name    string
		modelID string
		key     string
	}{
		{name: "short key instead of full key", modelID: testModelID, key: testShortKey},
		{name: "model id too long", modelID: testShortKey, key: testFullKey},
		{name: "empty model id", modelID: "", key: testFullKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ToXrefKey(tc.modelID, tc.key)
			if !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("expected ErrInvalidKeyLength, got %v", err)
			}
		})
	}
}

func TestToGUIDString(t *testing.T) {
	for _, key := range []string{testShortKey, testFullKey, testLogicalKey} {
		guid, err := ToGUIDString(key)
		if err != nil {
			t.Fatalf("ToGUIDString(%q) failed: %v", key, err)
		}
		if guid != testGUID {
			t.Errorf("ToGUIDString(%q) = %q, want %q", key, guid, testGUID)
		}
	}

	groups := strings.Split(testGUID, "-")
	wantLens := []int{8, 4, 4, 4, 12, 8}
	for i, g := range groups {
		if len(g) != wantLens[i] {
			t.Errorf("group %d has %d hex chars, want %d", i, len(g), wantLens[i])
		}
	}

	for _, n := range []int{16, 21, 23, 40} {
		_, err := ToGUIDString(makeWebSafe(make([]byte, n)))
		if !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("%d bytes: expected ErrInvalidKeyLength, got %v", n, err)
		}
	}
}

func TestToSystemID(t *testing.T) {
	testCases := []struct {
		name string
		key  string
		want string
		id   uint32
	}{
		{name: "300", key: testKey300, want: testSystemID300, id: 300},
		{name: "short key tail", key: testShortKey, want: "lKbIiAE", id: 0x11121314},
		{name: "full key tail", key: testFullKey, want: "lKbIiAE", id: 0x11121314},
		{name: "zero", key: makeWebSafe(make([]byte, ElementIDSize)), want: "AA", id: 0},
		{name: "max uses the standard alphabet", key: makeWebSafe(bytes.Repeat([]byte{0xff}, ElementIDSize)), want: "/////w8", id: 0xffffffff},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sid, err := ToSystemID(tc.key)
			if err != nil {
				t.Fatalf("ToSystemID failed: %v", err)
			}
			if sid != tc.want {
				t.Errorf("system id mismatch: got %q, want %q", sid, tc.want)
			}
			if strings.Contains(sid, "=") {
				t.Errorf("system id %q contains padding", sid)
			}

			id, err := FromSystemID(sid)
			if err != nil {
				t.Fatalf("FromSystemID failed: %v", err)
			}
			if id != tc.id {
				t.Errorf("id mismatch: got %d, want %d", id, tc.id)
			}
		})
	}
}

func TestToSystemID_VarintBytes(t *testing.T) {
	sid, err := ToSystemID(testKey300)
	if err != nil {
		t.Fatalf("ToSystemID failed: %v", err)
	}
	raw, err := base64.RawStdEncoding.DecodeString(sid)
	if err != nil {
		t.Fatalf("system id is not raw std base64: %v", err)
	}
	if !bytes.Equal(raw, []byte{0xAC, 0x02}) {
		t.Errorf("varint bytes mismatch: got %x, want ac02", raw)
	}
}

func TestFromSystemID_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "unterminated", raw: []byte{0x80}},
		{name: "not minimal", raw: []byte{0x80, 0x00}},
		{name: "trailing bytes", raw: []byte{0x01, 0x02}},
		{name: "overflows uint32", raw: []byte{0xff, 0xff, 0xff, 0xff, 0x7f}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromSystemID(base64.RawStdEncoding.EncodeToString(tc.raw))
			if !errors.Is(err, ErrMalformedKey) {
				t.Errorf("expected ErrMalformedKey, got %v", err)
			}
		})
	}
}

func TestMalformedBase64(t *testing.T) {
	inputs := []string{"A", "AAAAA", "ab=c", "not base64!", "ÿÿÿÿ"}

	for _, in := range inputs {
		if _, err := ToFullKey(in, false); !errors.Is(err, ErrMalformedBase64) {
			t.Errorf("ToFullKey(%q): expected ErrMalformedBase64, got %v", in, err)
		}
		if _, err := DecodeShortKeyArray(in, ArrayOptions{}); !errors.Is(err, ErrMalformedBase64) {
			t.Errorf("DecodeShortKeyArray(%q): expected ErrMalformedBase64, got %v", in, err)
		}
		if _, _, err := DecodeXrefKey(in); !errors.Is(err, ErrMalformedBase64) {
			t.Errorf("DecodeXrefKey(%q): expected ErrMalformedBase64, got %v", in, err)
		}
	}
}

func TestWebSafeInvariance(t *testing.T) {
	// 0xfb 0xff 0xbf 0xfe 0xff encodes to "+/+//v8=" in standard base64
	raw := []byte{0xfb, 0xff, 0xbf, 0xfe, 0xff}
	text := makeWebSafe(raw)
	if text != "-_-__v8" {
		t.Errorf("web-safe text mismatch: got %q, want %q", text, "-_-__v8")
	}

	for n := 0; n < 64; n++ {
		buf := bytes.Repeat([]byte{0xfb, 0xff, 0xbf}, n)[:n]
		text := makeWebSafe(buf)
		if strings.ContainsAny(text, "+/=") {
			t.Fatalf("web-safe text %q contains '+', '/' or '='", text)
		}
		if got := mustDecode(t, text); !bytes.Equal(got, buf) {
			t.Fatalf("decode mismatch for %d bytes: got %x, want %x", n, got, buf)
		}
	}
}

func TestDecodeKey_Padding(t *testing.T) {
	// len%4 padding yields "===" for 27-char short keys; it must still decode.
	if got := b64Prepare(testShortKey); !strings.HasSuffix(got, "===") {
		t.Errorf("expected three pad characters, got %q", got)
	}
	if got := mustDecode(t, testShortKey); !bytes.Equal(got, seqBytes(1, ElementIDSize)) {
		t.Errorf("decode mismatch: %x", got)
	}

	// Standard, already padded text is accepted as well.
	std := base64.StdEncoding.EncodeToString(seqBytes(1, ElementIDSize))
	if got := mustDecode(t, std); !bytes.Equal(got, seqBytes(1, ElementIDSize)) {
		t.Errorf("decode mismatch for standard text: %x", got)
	}
}

func TestElementFlags_String(t *testing.T) {
	testCases := map[ElementFlags]string{
		ElementFlagsSimpleElement: "element",
		ElementFlagsFamilyType:    "family-type",
		ElementFlagsLevel:         "level",
		ElementFlagsRoom:          "room",
		ElementFlagsStream:        "stream",
		ElementFlagsSystem:        "system",
		ElementFlags(0x02000000):  "flags(0x02000000)",
	}
	for flags, want := range testCases {
		if got := flags.String(); got != want {
			t.Errorf("ElementFlags(0x%08x).String() = %q, want %q", uint32(flags), got, want)
		}
	}
}

func TestParseElementFlags(t *testing.T) {
	testCases := map[string]ElementFlags{
		"element":    ElementFlagsSimpleElement,
		"level":      ElementFlagsLevel,
		"room":       ElementFlagsRoom,
		"stream":     ElementFlagsStream,
		"0x02000000": ElementFlags(0x02000000),
	}
	for text, want := range testCases {
		got, err := ParseElementFlags(text)
		if err != nil {
			t.Fatalf("ParseElementFlags(%q) failed: %v", text, err)
		}
		if got != want {
			t.Errorf("ParseElementFlags(%q) = %v, want %v", text, got, want)
		}
	}

	for _, text := range []string{"door", "0x1zz", "0x", "0x100000000", "1000000"} {
		if _, err := ParseElementFlags(text); err == nil {
			t.Errorf("ParseElementFlags(%q) expected error", text)
		}
	}
}

func TestElementID(t *testing.T) {
	want := seqBytes(1, ElementIDSize)
	for _, key := range []string{testShortKey, testFullKey, testLogicalKey} {
		id, err := ElementID(key)
		if err != nil {
			t.Fatalf("ElementID(%q) failed: %v", key, err)
		}
		if !bytes.Equal(id, want) {
			t.Errorf("ElementID(%q) = %x, want %x", key, id, want)
		}
	}

	if _, err := ElementID(testModelID); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("expected ErrInvalidKeyLength, got %v", err)
	}
}

func TestModelIDBytes(t *testing.T) {
	for _, id := range []string{testModelID, ModelURN(testModelID)} {
		b, err := ModelIDBytes(id)
		if err != nil {
			t.Fatalf("ModelIDBytes(%q) failed: %v", id, err)
		}
		if EncodeKey(b) != testModelID {
			t.Errorf("ModelIDBytes(%q) round trip = %q", id, EncodeKey(b))
		}
	}

	if _, err := ModelIDBytes(testShortKey); !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("expected ErrInvalidKeyLength, got %v", err)
	}
}
