package journal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() Collection {
	ts := time.Date(2024, time.March, 3, 9, 15, 0, 0, time.UTC)
	return Collection{
		{
			ID:          "a1",
			Title:       "Read a Book",
			Description: "Reading log",
			Entries: []Entry{
				{ID: "e1", Timestamp: ts, Description: "Finished chapter 1"},
				{ID: "e2", Timestamp: ts.Add(26 * time.Hour), Description: "Chapter 2", ImageData: []byte{0xff, 0xd8, 0xff, 0x00, 0x01}},
			},
		},
		{
			ID:      "a2",
			Title:   "Ran 5k",
			Entries: []Entry{},
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := sampleCollection()

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))

	for i := range original {
		assert.Equal(t, original[i].ID, decoded[i].ID)
		assert.Equal(t, original[i].Title, decoded[i].Title)
		assert.Equal(t, original[i].Description, decoded[i].Description)
		require.Len(t, decoded[i].Entries, len(original[i].Entries))
		for j := range original[i].Entries {
			want, got := original[i].Entries[j], decoded[i].Entries[j]
			assert.Equal(t, want.ID, got.ID)
			assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp %v != %v", want.Timestamp, got.Timestamp)
			assert.Equal(t, want.Description, got.Description)
			assert.Equal(t, want.ImageData, got.ImageData)
		}
	}

	again, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestEncode_FieldNames(t *testing.T) {
	data, err := Encode(sampleCollection())
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)

	for _, key := range []string{"id", "title", "description", "entries"} {
		assert.Contains(t, raw[0], key)
	}

	entries := raw[0]["entries"].([]any)
	first := entries[0].(map[string]any)
	second := entries[1].(map[string]any)

	assert.Equal(t, "2024-03-03T09:15:00Z", first["timestamp"])
	assert.NotContains(t, first, "imageData", "absent image must be omitted")
	assert.Equal(t, "/9j/AAE=", second["imageData"], "image must be base64 encoded")
}

func TestEncode_NilValues(t *testing.T) {
	tests := []struct {
		name     string
		input    Collection
		contains string
	}{
		{name: "nil collection", input: nil, contains: "[]"},
		{name: "nil entries", input: Collection{{ID: "a", Title: "t"}}, contains: `"entries": []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.input)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.contains)
		})
	}
}

func TestEncode_LeavesInputUntouched(t *testing.T) {
	empty := []byte{}
	input := Collection{
		{ID: "a", Title: "t", Entries: []Entry{{ID: "e", ImageData: empty}}},
		{ID: "b", Title: "u"},
	}

	data, err := Encode(input)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "imageData")

	assert.NotNil(t, input[0].Entries[0].ImageData, "empty image must not be reset in the caller's entries")
	assert.Nil(t, input[1].Entries, "nil entries must stay nil in the caller's collection")
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "truncated", input: `[{"id":"a1","title":"x"`},
		{name: "object instead of array", input: `{"id":"a1"}`},
		{name: "trailing data", input: `[] []`},
		{name: "bad base64", input: `[{"id":"a","title":"t","description":"","entries":[{"id":"e","timestamp":"2024-01-01T00:00:00Z","description":"","imageData":"***"}]}]`},
		{name: "bad timestamp", input: `[{"id":"a","title":"t","description":"","entries":[{"id":"e","timestamp":"yesterday","description":""}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestDecode_NullEntriesNormalized(t *testing.T) {
	c, err := Decode([]byte(`[{"id":"a","title":"t","description":"","entries":null}]`))
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.NotNil(t, c[0].Entries)
	assert.Empty(t, c[0].Entries)
}

func TestDecode_EmptyArray(t *testing.T) {
	c, err := Decode([]byte("[]\n"))
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestValidate(t *testing.T) {
	ts := time.Now()
	tests := []struct {
		name    string
		input   Collection
		wantErr error
	}{
		{name: "valid", input: sampleCollection()},
		{name: "empty", input: Collection{}},
		{name: "empty action id", input: Collection{{Title: "x"}}, wantErr: ErrEmptyID},
		{
			name:    "empty entry id",
			input:   Collection{{ID: "a", Entries: []Entry{{Timestamp: ts}}}},
			wantErr: ErrEmptyID,
		},
		{name: "duplicate action ids", input: Collection{{ID: "a"}, {ID: "a"}}, wantErr: ErrDuplicateID},
		{
			name: "duplicate entry ids across actions",
			input: Collection{
				{ID: "a", Entries: []Entry{{ID: "e", Timestamp: ts}}},
				{ID: "b", Entries: []Entry{{ID: "e", Timestamp: ts}}},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "entry id equal to action id",
			input:   Collection{{ID: "x", Entries: []Entry{{ID: "x", Timestamp: ts}}}},
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestValidate_ErrorNamesID(t *testing.T) {
	err := Collection{{ID: "dup"}, {ID: "dup"}}.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "dup"))
}
