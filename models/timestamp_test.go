package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func TestTimestampBSONStoresString(t *testing.T) {
	ts := At(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))

	bt, data, err := ts.MarshalBSONValue()
	require.NoError(t, err)
	assert.Equal(t, bsontype.String, bt)

	var decoded Timestamp
	require.NoError(t, decoded.UnmarshalBSONValue(bt, data))
	assert.True(t, ts.Time.Equal(decoded.Time))
}

func TestTimestampDecodesLegacyDateTime(t *testing.T) {
	// Documents written by older tooling carry native BSON datetimes.
	when := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	doc, err := bson.Marshal(bson.M{"created_at": when})
	require.NoError(t, err)

	var out struct {
		CreatedAt Timestamp `bson:"created_at"`
	}
	require.NoError(t, bson.Unmarshal(doc, &out))
	assert.True(t, when.Equal(out.CreatedAt.Time))
}

func TestTimestampJSON(t *testing.T) {
	ts := At(time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-15T10:30:00.000000Z"`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, ts.Time.Equal(decoded.Time))
}

func bsonString(t *testing.T, ts Timestamp) string {
	bt, data, err := ts.MarshalBSONValue()
	require.NoError(t, err)
	rv := bson.RawValue{Type: bt, Value: data}
	return rv.StringValue()
}

func TestTimestampStringsSortChronologically(t *testing.T) {
	// Listings sort on the stored strings, so fractional seconds must be
	// fixed-width: .5 and .51 within the same second, and a whole second
	// against both.
	whole := At(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	earlier := At(time.Date(2026, 1, 15, 10, 0, 0, 500_000_000, time.UTC))
	later := At(time.Date(2026, 1, 15, 10, 0, 0, 510_000_000, time.UTC))

	ws, es, ls := bsonString(t, whole), bsonString(t, earlier), bsonString(t, later)
	assert.Less(t, ws, es)
	assert.Less(t, es, ls)
	assert.Len(t, ws, len(es), "whole seconds keep the same width as fractional ones")
}

func TestTimestampParsesNaiveISO(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-06-01T08:00:00.123456"`), &ts))
	assert.Equal(t, 2025, ts.Time.Year())
}
