package domain

import "time"

type MemberRole string

const (
	RoleCreator MemberRole = "creator"
	RoleAdmin   MemberRole = "admin"
	RoleMember  MemberRole = "member"
)

// Assignable - роли, которые можно выдать через смену роли
func (r MemberRole) Assignable() bool {
	return r == RoleAdmin || r == RoleMember
}

type MembershipStatus string

const (
	MembershipActive  MembershipStatus = "active"
	MembershipLeft    MembershipStatus = "left"
	MembershipRemoved MembershipStatus = "removed"
)

type Membership struct {
	ID        string
	GroupID   string
	UserID    string
	Role      MemberRole
	Status    MembershipStatus
	JoinedAt  time.Time
	LeftAt    *time.Time
	InvitedBy *string
}

// Member - активное членство вместе с профилем пользователя
type Member struct {
	Membership
	Profile *Profile
}
