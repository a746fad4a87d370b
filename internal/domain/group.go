package domain

import "time"

// StoredStatus - статус, сохраненный в строке группы. Носит рекомендательный характер,
// фактический статус вычисляется через EffectiveStatusAt.
type StoredStatus string

const (
	StoredStatusActive    StoredStatus = "active"
	StoredStatusScheduled StoredStatus = "scheduled"
	StoredStatusArchived  StoredStatus = "archived"
)

func (s StoredStatus) Valid() bool {
	switch s {
	case StoredStatusActive, StoredStatusScheduled, StoredStatusArchived:
		return true
	}
	return false
}

// EffectiveStatus - статус группы на момент чтения.
type EffectiveStatus string

const (
	EffectiveStatusActive    EffectiveStatus = "active"
	EffectiveStatusScheduled EffectiveStatus = "scheduled"
	EffectiveStatusArchived  EffectiveStatus = "archived"
)

const DefaultMaxMembers = 10

type Group struct {
	ID             string
	Name           string
	Description    string
	Subject        string
	Faculty        string
	Course         string
	YearOfStudy    string
	CreatorID      string
	MaxMembers     int
	IsPrivate      bool
	InviteCode     string
	Status         StoredStatus
	IsScheduled    bool
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	MeetingTimes   []string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// GroupView - группа с производными полями, которые вычисляются при каждом чтении
type GroupView struct {
	Group         *Group
	Creator       *Profile
	MemberCount   int
	CurrentStatus EffectiveStatus
}

// UserGroup - группа пользователя с его ролью
type UserGroup struct {
	GroupView
	Role     MemberRole
	JoinedAt time.Time
}

type GroupFilter struct {
	Status *StoredStatus
	Limit  int
	Offset int
}

type PublicSearchFilter struct {
	Subject                string
	Faculty                string
	Course                 string
	YearOfStudy            string
	IsScheduled            *bool
	IncludeActiveScheduled bool
}

// GroupUpdate - частичное обновление группы, nil означает "не менять"
type GroupUpdate struct {
	Name         *string
	Description  *string
	MaxMembers   *int
	MeetingTimes []string
}

type GroupStats struct {
	TotalMembers   int
	Creators       int
	Admins         int
	RegularMembers int
	TotalLeft      int
	TotalRemoved   int
}

type Profile struct {
	ID      string
	Name    string
	Email   string
	Faculty string
	Course  string
}
