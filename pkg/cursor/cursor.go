package cursor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Separator joins the timestamp and id parts of an encoded cursor.
const Separator = "_"

// ErrMalformed is returned for tokens that do not decode to a timestamp and id.
var ErrMalformed = errors.New("malformed cursor")

// Cursor marks a position in a listing ordered by (CreatedAt DESC, ID DESC).
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// New builds a cursor from a record's ordering key.
func New(createdAt time.Time, id string) Cursor {
	return Cursor{CreatedAt: createdAt, ID: id}
}

// Encode renders the cursor as "<RFC 3339 timestamp>_<id>". The timestamp is
// written in UTC with full precision and never contains the separator, so
// Decode can split on the first separator and ids may contain it freely.
func (c Cursor) Encode() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + Separator + c.ID
}

func (c Cursor) String() string {
	return c.Encode()
}

// Decode parses a token produced by Encode. Timestamps with millisecond
// precision (as produced by JavaScript clients) are accepted.
func Decode(token string) (Cursor, error) {
	ts, id, ok := strings.Cut(token, Separator)
	if !ok {
		return Cursor{}, fmt.Errorf("%w: missing %q separator", ErrMalformed, Separator)
	}
	if id == "" {
		return Cursor{}, fmt.Errorf("%w: empty id", ErrMalformed)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformed, ts)
	}

	return Cursor{CreatedAt: createdAt.UTC(), ID: id}, nil
}

// Before reports whether a record keyed (createdAt, id) sorts strictly after
// the cursor in descending order, i.e. would appear on a following page.
func (c Cursor) Before(createdAt time.Time, id string) bool {
	if createdAt.Equal(c.CreatedAt) {
		return id < c.ID
	}
	return createdAt.Before(c.CreatedAt)
}
