package handler

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateGroupRequest struct {
	Name           string     `json:"name" validate:"max=200"`
	Description    string     `json:"description" validate:"max=2000"`
	Subject        string     `json:"subject" validate:"max=200"`
	Faculty        string     `json:"faculty" validate:"max=200"`
	Course         string     `json:"course" validate:"max=200"`
	YearOfStudy    string     `json:"year_of_study" validate:"max=50"`
	CreatorID      string     `json:"creator_id"`
	MaxMembers     *int       `json:"max_members"`
	IsPrivate      bool       `json:"is_private"`
	IsScheduled    bool       `json:"is_scheduled"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	MeetingTimes   []string   `json:"meeting_times" validate:"omitempty,max=50,dive,max=100"`
}

type UpdateGroupRequest struct {
	UserID       string   `json:"user_id" validate:"notblank"`
	Name         *string  `json:"name" validate:"omitempty,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	MaxMembers   *int     `json:"max_members"`
	MeetingTimes []string `json:"meeting_times" validate:"omitempty,max=50,dive,max=100"`
}

type JoinGroupRequest struct {
	UserID    string  `json:"user_id" validate:"notblank"`
	InvitedBy *string `json:"invited_by"`
}

type JoinByCodeRequest struct {
	InviteCode string `json:"invite_code" validate:"notblank"`
	UserID     string `json:"user_id" validate:"notblank"`
}

type ChangeRoleRequest struct {
	UserID  string `json:"user_id" validate:"notblank"`
	NewRole string `json:"new_role" validate:"notblank"`
}

// ActorRequest - тело запросов, где нужен только действующий пользователь
type ActorRequest struct {
	UserID string `json:"user_id" validate:"notblank"`
}

type ProfileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Faculty string `json:"faculty,omitempty"`
	Course  string `json:"course,omitempty"`
}

type GroupResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Subject        string           `json:"subject"`
	Faculty        string           `json:"faculty"`
	Course         string           `json:"course"`
	YearOfStudy    string           `json:"year_of_study"`
	CreatorID      string           `json:"creator_id"`
	Creator        *ProfileResponse `json:"creator,omitempty"`
	MaxMembers     int              `json:"max_members"`
	MemberCount    int              `json:"member_count"`
	IsPrivate      bool             `json:"is_private"`
	InviteCode     string           `json:"invite_code"`
	Status         string           `json:"status"`
	CurrentStatus  string           `json:"current_status"`
	IsScheduled    bool             `json:"is_scheduled"`
	ScheduledStart *string          `json:"scheduled_start,omitempty"`
	ScheduledEnd   *string          `json:"scheduled_end,omitempty"`
	MeetingTimes   []string         `json:"meeting_times"`
	CreatedAt      *string          `json:"created_at,omitempty"`
	UpdatedAt      *string          `json:"updated_at,omitempty"`
}

type UserGroupResponse struct {
	GroupResponse
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type MembershipResponse struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"group_id"`
	UserID    string  `json:"user_id"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	JoinedAt  string  `json:"joined_at"`
	LeftAt    *string `json:"left_at,omitempty"`
	InvitedBy *string `json:"invited_by,omitempty"`
}

type MemberResponse struct {
	MembershipResponse
	Profile *ProfileResponse `json:"profile,omitempty"`
}

type GroupEnvelope struct {
	Group GroupResponse `json:"group"`
}

type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
	Count  int             `json:"count"`
	Total  int             `json:"total"`
}

type UserGroupsResponse struct {
	Groups []UserGroupResponse `json:"groups"`
	Count  int                 `json:"count"`
}

type SearchFiltersResponse struct {
	Subject                string `json:"subject,omitempty"`
	Faculty                string `json:"faculty,omitempty"`
	Course                 string `json:"course,omitempty"`
	YearOfStudy            string `json:"year_of_study,omitempty"`
	IsScheduled            *bool  `json:"is_scheduled,omitempty"`
	IncludeActiveScheduled bool   `json:"include_active_scheduled"`
}

type PublicSearchResponse struct {
	Groups  []GroupResponse       `json:"groups"`
	Count   int                   `json:"count"`
	Filters SearchFiltersResponse `json:"filters"`
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
	Count   int              `json:"count"`
}

type MembershipEnvelope struct {
	Membership MembershipResponse `json:"membership"`
}

type JoinByCodeResponse struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}

type StatsResponse struct {
	TotalMembers   int `json:"total_members"`
	Creators       int `json:"creators"`
	Admins         int `json:"admins"`
	RegularMembers int `json:"regular_members"`
	TotalLeft      int `json:"total_left"`
	TotalRemoved   int `json:"total_removed"`
}

type StatsEnvelope struct {
	Stats StatsResponse `json:"stats"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
