package entity

import (
	"regexp"
	"time"
)

// MembershipLevel is the loyalty tier of an account.
type MembershipLevel string

const (
	MembershipBronze   MembershipLevel = "Bronze"
	MembershipSilver   MembershipLevel = "Silver"
	MembershipGold     MembershipLevel = "Gold"
	MembershipPlatinum MembershipLevel = "Platinum"
)

// Valid reports whether the level is one of the known tiers.
func (m MembershipLevel) Valid() bool {
	switch m {
	case MembershipBronze, MembershipSilver, MembershipGold, MembershipPlatinum:
		return true
	}
	return false
}

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in PasswordHash
//
// FirstName, LastName and Phone are nil until a profile update sets them.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	FirstName       *string
	LastName        *string
	Phone           *string
	MembershipLevel MembershipLevel
	Points          int64
	CreatedAt       time.Time
}

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

// ValidPhone reports whether s contains only digits, spaces, +, - and parentheses.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ProfileUpdate carries the optional fields of a profile change.
// Nil fields are left untouched by the store.
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	MembershipLevel *MembershipLevel
	Points          *int64
}

// Empty reports whether the update would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.MembershipLevel == nil && p.Points == nil
}
