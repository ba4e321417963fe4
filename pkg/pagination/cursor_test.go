package pagination

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	c := Cursor{
		V:   1,
		Sid: "sess-123",
		Dsv: 2,
		Off: 200,
		Ps:  100,
		Fh:  FilterHash("Acme", "all", "sales"),
		Co:  "Acme",
		Dt:  "sales",
	}
	tok, err := EncodeCursor(c)
	if err != nil {
		t.Fatalf("EncodeCursor error: %v", err)
	}
	// token should be url-safe base64 (no '+', '/', '=')
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token contains non-url-safe chars: %q", tok)
	}
	out, err := DecodeCursor(tok)
	if err != nil {
		t.Fatalf("DecodeCursor error: %v", err)
	}
	if out.Sid != c.Sid || out.Dsv != c.Dsv || out.Off != c.Off || out.Ps != c.Ps || out.Fh != c.Fh || out.Co != c.Co {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, c)
	}
	if out.Iat == 0 {
		t.Fatalf("expected issued-at to be defaulted")
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := []string{
		"",    // empty
		"!!!", // not base64
		base64.RawURLEncoding.EncodeToString([]byte("not-json")),
		// missing required fields
		mustB64(`{"v":1}`),
		mustB64(`{"v":1,"sid":"","dsv":1,"off":0,"ps":10}`),
		mustB64(`{"v":1,"sid":"x","dsv":0,"off":0,"ps":10}`),
		mustB64(`{"v":1,"sid":"x","dsv":1,"off":-1,"ps":10}`),
		mustB64(`{"v":1,"sid":"x","dsv":1,"off":0,"ps":0}`),
	}
	for i, tok := range cases {
		if _, err := DecodeCursor(tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: expected ErrInvalid for token %q, got %v", i, tok, err)
		}
	}
}

func TestDecodeCursor_RejectsOtherSchema(t *testing.T) {
	if _, err := DecodeCursor(mustB64(`{"v":2,"sid":"x","dsv":1,"off":0,"ps":10}`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected schema version rejection, got %v", err)
	}
}

func TestCursorBind(t *testing.T) {
	fh := FilterHash("Company A", "all", "sales")
	c := Cursor{V: SchemaVersion, Sid: "s1", Dsv: 1, Ps: 10, Fh: fh}
	if err := c.Bind("", fh); err != nil {
		t.Fatalf("bind without session: %v", err)
	}
	if err := c.Bind("s1", fh); err != nil {
		t.Fatalf("bind same session: %v", err)
	}
	if err := c.Bind("s2", fh); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
	if err := c.Bind("s1", FilterHash("Company B", "all", "sales")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected filter mismatch, got %v", err)
	}
}

func TestFilterHashStable(t *testing.T) {
	a := FilterHash("Acme", "Widgets", "all")
	if a != FilterHash("Acme", "Widgets", "all") {
		t.Fatalf("hash not stable")
	}
	if a == FilterHash("AcmeWidgets", "", "all") {
		t.Fatalf("hash must separate parts")
	}
	if len(a) != 16 {
		t.Fatalf("hash length = %d, want 16", len(a))
	}
}

func TestNextOffset(t *testing.T) {
	if got := NextOffset(-5, 10); got != 10 {
		t.Fatalf("NextOffset(-5,10) = %d", got)
	}
	if got := NextOffset(20, 0); got != 20 {
		t.Fatalf("NextOffset(20,0) = %d", got)
	}
}

func FuzzDecodeCursor(f *testing.F) {
	seeds := []string{
		"", "abc", mustB64(`{"v":1}`), mustB64(`{"sid":"x"}`),
		mustB64(`{"v":1,"sid":"s","dsv":1,"off":0,"ps":1}`),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, token string) {
		_, _ = DecodeCursor(token)
	})
}

func mustB64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
