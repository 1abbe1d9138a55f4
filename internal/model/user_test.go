package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestUserUpdate_UnmarshalJSON(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name  string
		input string
		want  UserUpdate
	}{
		{
			name:  "Valid array",
			input: `{"owned_codes":["abc123","def456"]}`,
			want:  UserUpdate{OwnedCodes: &[]string{"abc123", "def456"}},
		},
		{
			name:  "Malformed value coerced to empty slice",
			input: `{"owned_codes":"junk"}`,
			want:  UserUpdate{OwnedCodes: &[]string{}},
		},
		{
			name:  "Array of non-strings coerced to empty slice",
			input: `{"owned_codes":[1,2,3]}`,
			want:  UserUpdate{OwnedCodes: &[]string{}},
		},
		{
			name:  "Null leaves codes unset",
			input: `{"owned_codes":null}`,
			want:  UserUpdate{},
		},
		{
			name:  "Absent leaves codes unset",
			input: `{"full_name":"Ada Lovelace"}`,
			want:  UserUpdate{FullName: strPtr("Ada Lovelace")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got UserUpdate
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("unmarshaling: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserRecord_AppendCodes(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		codes    []string
		want     []string
	}{
		{
			name:     "Appends preserving order",
			existing: []string{"old001"},
			codes:    []string{"new002", "new003"},
			want:     []string{"old001", "new002", "new003"},
		},
		{
			name:     "Drops codes already present",
			existing: []string{"old001"},
			codes:    []string{"new002", "old001", "new002"},
			want:     []string{"old001", "new002"},
		},
		{
			name:  "Empty owned set",
			codes: []string{"abc123"},
			want:  []string{"abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := UserRecord{OwnedCodes: tt.existing}
			rec.AppendCodes(tt.codes)

			if !reflect.DeepEqual(rec.OwnedCodes, tt.want) {
				t.Errorf("AppendCodes() = %v, want %v", rec.OwnedCodes, tt.want)
			}
		})
	}
}

func TestUserUpdate_Apply(t *testing.T) {
	rec := UserRecord{
		FullName:     "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "old-hash",
		OwnedCodes:   []string{"abc123"},
	}

	verified := true
	codes := []string{"abc123", "def456"}
	update := UserUpdate{
		EmailVerified: &verified,
		OwnedCodes:    &codes,
	}

	got := update.Apply(rec)

	if got.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q, want unchanged", got.FullName)
	}
	if !got.EmailVerified {
		t.Error("EmailVerified = false, want true")
	}
	if got.PasswordHash != "old-hash" {
		t.Errorf("PasswordHash = %q, want unchanged", got.PasswordHash)
	}
	if !reflect.DeepEqual(got.OwnedCodes, codes) {
		t.Errorf("OwnedCodes = %v, want %v", got.OwnedCodes, codes)
	}

	// Apply copies the slice; mutating the update afterwards must not
	// leak into the record.
	codes[0] = "mutated"
	if got.OwnedCodes[0] != "abc123" {
		t.Error("Apply shared the slice with the update")
	}
}
