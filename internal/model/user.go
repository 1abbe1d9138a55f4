package model

import "encoding/json"

// UserRecord is a persisted account. Email is the unique account key.
// OwnedCodes holds the short codes created by this account, in creation
// order.
type UserRecord struct {
	FullName      string   `json:"full_name"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	PasswordHash  string   `json:"password_hash"`
	OwnedCodes    []string `json:"owned_codes"`
}

// AppendCodes adds codes to the owned set, preserving creation order and
// dropping codes already present.
func (u *UserRecord) AppendCodes(codes []string) {
	seen := make(map[string]bool, len(u.OwnedCodes))
	for _, code := range u.OwnedCodes {
		seen[code] = true
	}

	for _, code := range codes {
		if !seen[code] {
			u.OwnedCodes = append(u.OwnedCodes, code)
			seen[code] = true
		}
	}
}

// UserUpdate carries a partial update for a UserRecord. Nil fields are
// left untouched by the merge; OwnedCodes replaces the stored slice when
// set.
type UserUpdate struct {
	FullName      *string
	EmailVerified *bool
	PasswordHash  *string
	OwnedCodes    *[]string
}

type userUpdateJSON struct {
	FullName      *string         `json:"full_name"`
	EmailVerified *bool           `json:"email_verified"`
	PasswordHash  *string         `json:"password_hash"`
	OwnedCodes    json.RawMessage `json:"owned_codes"`
}

// UnmarshalJSON decodes a partial update. A malformed owned_codes value
// (anything other than a JSON array of strings) is coerced to an empty
// slice instead of rejecting the update, so a bad client payload can never
// corrupt the persisted shape of the collection.
func (u *UserUpdate) UnmarshalJSON(data []byte) error {
	var raw userUpdateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.FullName = raw.FullName
	u.EmailVerified = raw.EmailVerified
	u.PasswordHash = raw.PasswordHash
	u.OwnedCodes = nil

	if raw.OwnedCodes == nil || string(raw.OwnedCodes) == "null" {
		return nil
	}

	var codes []string
	if err := json.Unmarshal(raw.OwnedCodes, &codes); err != nil {
		codes = []string{}
	}
	if codes == nil {
		codes = []string{}
	}
	u.OwnedCodes = &codes

	return nil
}

// Apply merges the set fields of the update into a copy of the record and
// returns it.
func (u UserUpdate) Apply(rec UserRecord) UserRecord {
	if u.FullName != nil {
		rec.FullName = *u.FullName
	}
	if u.EmailVerified != nil {
		rec.EmailVerified = *u.EmailVerified
	}
	if u.PasswordHash != nil {
		rec.PasswordHash = *u.PasswordHash
	}
	if u.OwnedCodes != nil {
		rec.OwnedCodes = append([]string(nil), (*u.OwnedCodes)...)
	}
	return rec
}
