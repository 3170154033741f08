package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "fortunasbet-api/pkg/errors"
)

// MembershipStatus is where a membership stands
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusApproved MembershipStatus = "approved"
	StatusDenied   MembershipStatus = "denied"
)

// ParseMembershipStatus validates a status case-insensitively
func ParseMembershipStatus(value string) (MembershipStatus, error) {
	switch s := MembershipStatus(strings.ToLower(strings.TrimSpace(value))); s {
	case StatusPending, StatusApproved, StatusDenied:
		return s, nil
	}
	return "", pkgerrors.NewInvalidMembershipStatusError(fmt.Sprintf("invalid membership status '%s'", value))
}

// SortPriority orders statuses approved, pending, denied
func (s MembershipStatus) SortPriority() int {
	switch s {
	case StatusApproved:
		return 0
	case StatusPending:
		return 1
	case StatusDenied:
		return 2
	default:
		return 3
	}
}

// MembershipType records how a membership came about and the member's role
type MembershipType string

const (
	TypeRequest    MembershipType = "request"
	TypeInvitation MembershipType = "invitation"
	TypeMember     MembershipType = "member"
	TypeAdmin      MembershipType = "admin"
)

// ParseMembershipType validates a type case-insensitively
func ParseMembershipType(value string) (MembershipType, error) {
	switch t := MembershipType(strings.ToLower(strings.TrimSpace(value))); t {
	case TypeRequest, TypeInvitation, TypeMember, TypeAdmin:
		return t, nil
	}
	return "", pkgerrors.NewInvalidMembershipTypeError(value)
}

// IsRole reports whether the type describes a settled role rather than an open ask
func (t MembershipType) IsRole() bool {
	return t == TypeMember || t == TypeAdmin
}
