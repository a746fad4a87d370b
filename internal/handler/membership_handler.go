package handler

import (
	"net/http"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req JoinGroupRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	membership, err := h.membershipService.JoinGroup(r.Context(), chi.URLParam(r, "group_id"), req.UserID, req.InvitedBy)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MembershipEnvelope{Membership: domainMembershipToHTTP(membership)})
}

func (h *Handler) JoinByInviteCode(w http.ResponseWriter, r *http.Request) {
	var req JoinByCodeRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	group, _, err := h.membershipService.JoinByInviteCode(r.Context(), req.InviteCode, req.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, JoinByCodeResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
	})
}

// ChangeMemberRole: member_id в пути - идентификатор пользователя, чью роль меняют
func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	membership, err := h.membershipService.ChangeMemberRole(
		r.Context(),
		chi.URLParam(r, "group_id"),
		req.UserID,
		chi.URLParam(r, "member_id"),
		domain.MemberRole(req.NewRole),
	)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MembershipEnvelope{Membership: domainMembershipToHTTP(membership)})
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	var req ActorRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	membership, err := h.membershipService.LeaveGroup(r.Context(), chi.URLParam(r, "group_id"), req.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MembershipEnvelope{Membership: domainMembershipToHTTP(membership)})
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req ActorRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	membership, err := h.membershipService.RemoveMember(
		r.Context(),
		chi.URLParam(r, "group_id"),
		req.UserID,
		chi.URLParam(r, "member_id"),
	)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MembershipEnvelope{Membership: domainMembershipToHTTP(membership)})
}
