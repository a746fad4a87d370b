package handler

import (
	"net/http"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	group, err := h.membershipService.CreateGroup(r.Context(), httpCreateGroupToInput(req))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	// Создатель - единственный участник новой группы
	view := domain.NewGroupView(group, nil, 1, time.Now())
	writeJSON(w, http.StatusCreated, GroupEnvelope{Group: domainGroupViewToHTTP(view)})
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGroupFilter(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	views, total, err := h.groupService.ListGroups(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupListResponse{
		Groups: domainGroupViewsToHTTP(views),
		Count:  len(views),
		Total:  total,
	})
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	view, err := h.groupService.GetGroupByID(r.Context(), chi.URLParam(r, "group_id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupEnvelope{Group: domainGroupViewToHTTP(view)})
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req UpdateGroupRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	view, err := h.groupService.UpdateGroup(r.Context(), chi.URLParam(r, "group_id"), req.UserID, httpUpdateGroupToDomain(req))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupEnvelope{Group: domainGroupViewToHTTP(view)})
}

func (h *Handler) GetGroupByInviteCode(w http.ResponseWriter, r *http.Request) {
	view, err := h.groupService.GetGroupByInviteCode(r.Context(), chi.URLParam(r, "invite_code"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupEnvelope{Group: domainGroupViewToHTTP(view)})
}

func (h *Handler) SearchPublicGroups(w http.ResponseWriter, r *http.Request) {
	filter, err := parsePublicSearchFilter(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	views, err := h.groupService.SearchPublicGroups(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PublicSearchResponse{
		Groups: domainGroupViewsToHTTP(views),
		Count:  len(views),
		Filters: SearchFiltersResponse{
			Subject:                filter.Subject,
			Faculty:                filter.Faculty,
			Course:                 filter.Course,
			YearOfStudy:            filter.YearOfStudy,
			IsScheduled:            filter.IsScheduled,
			IncludeActiveScheduled: filter.IncludeActiveScheduled,
		},
	})
}

func (h *Handler) ListUserGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.ListUserGroups(r.Context(), chi.URLParam(r, "user_id"), queryStatus(r.URL.Query()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserGroupsResponse{
		Groups: domainUserGroupsToHTTP(groups),
		Count:  len(groups),
	})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groupService.ListMembers(r.Context(), chi.URLParam(r, "group_id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MembersResponse{
		Members: domainMembersToHTTP(members),
		Count:   len(members),
	})
}
