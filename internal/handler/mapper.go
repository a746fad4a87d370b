package handler

import (
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/service"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func domainProfileToHTTP(profile *domain.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	return &ProfileResponse{
		ID:      profile.ID,
		Name:    profile.Name,
		Email:   profile.Email,
		Faculty: profile.Faculty,
		Course:  profile.Course,
	}
}

func domainGroupViewToHTTP(view *domain.GroupView) GroupResponse {
	group := view.Group

	meetingTimes := group.MeetingTimes
	if meetingTimes == nil {
		meetingTimes = []string{}
	}

	var createdAt *string
	if !group.CreatedAt.IsZero() {
		createdAt = formatTimePtr(&group.CreatedAt)
	}

	return GroupResponse{
		ID:             group.ID,
		Name:           group.Name,
		Description:    group.Description,
		Subject:        group.Subject,
		Faculty:        group.Faculty,
		Course:         group.Course,
		YearOfStudy:    group.YearOfStudy,
		CreatorID:      group.CreatorID,
		Creator:        domainProfileToHTTP(view.Creator),
		MaxMembers:     group.MaxMembers,
		MemberCount:    view.MemberCount,
		IsPrivate:      group.IsPrivate,
		InviteCode:     group.InviteCode,
		Status:         string(group.Status),
		CurrentStatus:  string(view.CurrentStatus),
		IsScheduled:    group.IsScheduled,
		ScheduledStart: formatTimePtr(group.ScheduledStart),
		ScheduledEnd:   formatTimePtr(group.ScheduledEnd),
		MeetingTimes:   meetingTimes,
		CreatedAt:      createdAt,
		UpdatedAt:      formatTimePtr(group.UpdatedAt),
	}
}

func domainGroupViewsToHTTP(views []*domain.GroupView) []GroupResponse {
	result := make([]GroupResponse, 0, len(views))
	for _, view := range views {
		result = append(result, domainGroupViewToHTTP(view))
	}
	return result
}

func domainUserGroupsToHTTP(groups []*domain.UserGroup) []UserGroupResponse {
	result := make([]UserGroupResponse, 0, len(groups))
	for _, ug := range groups {
		result = append(result, UserGroupResponse{
			GroupResponse: domainGroupViewToHTTP(&ug.GroupView),
			Role:          string(ug.Role),
			JoinedAt:      formatTime(ug.JoinedAt),
		})
	}
	return result
}

func domainMembershipToHTTP(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		JoinedAt:  formatTime(m.JoinedAt),
		LeftAt:    formatTimePtr(m.LeftAt),
		InvitedBy: m.InvitedBy,
	}
}

func domainMembersToHTTP(members []*domain.Member) []MemberResponse {
	result := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		result = append(result, MemberResponse{
			MembershipResponse: domainMembershipToHTTP(&member.Membership),
			Profile:            domainProfileToHTTP(member.Profile),
		})
	}
	return result
}

func domainStatsToHTTP(stats *domain.GroupStats) StatsResponse {
	return StatsResponse{
		TotalMembers:   stats.TotalMembers,
		Creators:       stats.Creators,
		Admins:         stats.Admins,
		RegularMembers: stats.RegularMembers,
		TotalLeft:      stats.TotalLeft,
		TotalRemoved:   stats.TotalRemoved,
	}
}

func httpCreateGroupToInput(req CreateGroupRequest) service.CreateGroupInput {
	return service.CreateGroupInput{
		Name:           req.Name,
		Description:    req.Description,
		Subject:        req.Subject,
		Faculty:        req.Faculty,
		Course:         req.Course,
		YearOfStudy:    req.YearOfStudy,
		CreatorID:      req.CreatorID,
		MaxMembers:     req.MaxMembers,
		IsPrivate:      req.IsPrivate,
		IsScheduled:    req.IsScheduled,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		MeetingTimes:   req.MeetingTimes,
	}
}

func httpUpdateGroupToDomain(req UpdateGroupRequest) domain.GroupUpdate {
	return domain.GroupUpdate{
		Name:         req.Name,
		Description:  req.Description,
		MaxMembers:   req.MaxMembers,
		MeetingTimes: req.MeetingTimes,
	}
}
