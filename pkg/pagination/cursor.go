// Package pagination encodes the opaque cursors get_records hands out.
package pagination

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is written into every cursor issued by this build.
const SchemaVersion = 1

// ErrInvalid wraps every decode or binding failure.
var ErrInvalid = errors.New("cursor: invalid")

// Cursor is the payload of a page token, serialized as minified JSON and
// encoded with unpadded URL-safe base64. Short field names keep tokens small.
//
//   - v:   schema version
//   - sid: session id
//   - dsv: dataset version; reprocessing the session invalidates the cursor
//   - off: record offset within the filtered records
//   - ps:  page size
//   - iat: issued-at (unix seconds)
//   - fh:  FilterHash of the filter below
//   - co, ca, dt: the filter, so a cursor alone resumes paging
type Cursor struct {
	V   int    `json:"v"`
	Sid string `json:"sid"`
	Dsv int64  `json:"dsv"`
	Off int    `json:"off"`
	Ps  int    `json:"ps"`
	Iat int64  `json:"iat"`
	Fh  string `json:"fh,omitempty"`
	Co  string `json:"co,omitempty"`
	Ca  string `json:"ca,omitempty"`
	Dt  string `json:"dt,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// EncodeCursor checks c, fills the schema version and issue time when unset
// and returns the token.
func EncodeCursor(c Cursor) (string, error) {
	if c.V == 0 {
		c.V = SchemaVersion
	}
	if c.Iat == 0 {
		c.Iat = time.Now().Unix()
	}
	if err := c.check(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("cursor: encode: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid("empty token")
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, invalid("not base64url: %v", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, invalid("malformed payload: %v", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Cursor) check() error {
	switch {
	case c.V != SchemaVersion:
		return invalid("unsupported schema version %d", c.V)
	case strings.TrimSpace(c.Sid) == "":
		return invalid("session id required")
	case c.Dsv <= 0:
		return invalid("dataset version must be > 0")
	case c.Off < 0:
		return invalid("offset must be >= 0")
	case c.Ps <= 0:
		return invalid("page size must be > 0")
	}
	return nil
}

// Bind checks that the cursor was issued for sessionID (when given) and for
// the filter whose FilterHash is filterHash.
func (c *Cursor) Bind(sessionID, filterHash string) error {
	if sessionID != "" && sessionID != c.Sid {
		return invalid("cursor belongs to a different session")
	}
	if c.Fh != filterHash {
		return invalid("filter hash mismatch")
	}
	return nil
}

// FilterHash returns a short stable digest of filter dimensions.
func FilterHash(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(h[:8])
}

// NextOffset returns the offset following n records served from curr.
func NextOffset(curr, n int) int {
	if curr < 0 {
		curr = 0
	}
	if n > 0 {
		curr += n
	}
	return curr
}
