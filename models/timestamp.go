package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Timestamp is a time.Time that persists as an ISO-8601 (RFC 3339) UTC
// string. All entity timestamps cross the storage boundary as strings and
// are re-parsed on read; documents written by older tooling with native
// BSON datetimes still decode.
type Timestamp struct {
	time.Time
}

// isoLayout keeps fractional seconds fixed-width (6 digits) so the stored
// strings sort lexicographically in chronological order. The store sorts
// listings on these strings directly.
const isoLayout = "2006-01-02T15:04:05.000000Z07:00"

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp {
	return Timestamp{time.Now().UTC()}
}

// At wraps an existing time.
func At(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time.UTC().Format(isoLayout))
}

func (t *Timestamp) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bsontype.String:
		parsed, err := parseISO(rv.StringValue())
		if err != nil {
			return err
		}
		t.Time = parsed
	case bsontype.DateTime:
		t.Time = rv.Time().UTC()
	case bsontype.Null:
		t.Time = time.Time{}
	default:
		return fmt.Errorf("cannot decode %s into Timestamp", bt)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.UTC().Format(isoLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := parseISO(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseISO(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
