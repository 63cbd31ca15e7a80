// Package models defines client-side data models used by the pharmafhe CLI.
package models

import (
	"fmt"
	"time"
)

// Record is a confidential-compound entry as read from the on-chain store.
// Its public fields are plaintext; the encrypted field is only reachable
// through a ciphertext handle fetched separately.
type Record struct {
	// ID is the store-wide identifier, "<prefix>-<unix_millis>".
	ID string

	// Name and Description are free-text public fields.
	Name        string
	Description string

	// Creator is the hex account of the submitter. Immutable.
	Creator string

	// CreatedAt is the unix-seconds timestamp assigned by the store. Immutable.
	CreatedAt int64

	// PublicValue1 is the plaintext shadow of the encrypted field.
	PublicValue1 int64
	// PublicValue2 is a purely public score in [1,100].
	PublicValue2 int64

	// IsVerified flips false→true once a decryption proof has been accepted
	// by the store and never reverts.
	IsVerified bool

	// DecryptedValue is authoritative only when IsVerified is true.
	DecryptedValue int64
}

// Created returns CreatedAt as a time.Time in UTC.
func (r Record) Created() time.Time {
	return time.Unix(r.CreatedAt, 0).UTC()
}

// StatusLabel is the per-record state shown to the user.
func (r Record) StatusLabel() string {
	if r.IsVerified {
		return "verified"
	}
	return "encrypted"
}

func (r Record) String() string {
	return fmt.Sprintf("%s  %-24s  value1=%d  score=%d  %s", r.ID, r.Name, r.PublicValue1, r.PublicValue2, r.StatusLabel())
}

// NewRecordID builds a record identifier from a prefix and a creation time.
func NewRecordID(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, at.UnixMilli())
}
