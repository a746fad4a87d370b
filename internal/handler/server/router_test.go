package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/handler"
	"github.com/bagdasarian/study-groups/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(basePath string, db handler.Pinger) (http.Handler, *MockGroupService, *MockMembershipService) {
	groupService := new(MockGroupService)
	membershipService := new(MockMembershipService)
	if db == nil {
		db = stubPinger{}
	}

	h := handler.NewHandler(groupService, membershipService, db, zap.NewNop())
	return NewRouter(h, basePath, []string{"*"}, zap.NewNop()), groupService, membershipService
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func testGroup(id string) *domain.Group {
	return &domain.Group{
		ID:         id,
		Name:       "Algo Study",
		Subject:    "CS",
		CreatorID:  "u1",
		MaxMembers: 2,
		InviteCode: "AB12CD34",
		Status:     domain.StoredStatusActive,
		CreatedAt:  testTime,
	}
}

func testView(id string, count int) *domain.GroupView {
	return &domain.GroupView{
		Group:         testGroup(id),
		Creator:       &domain.Profile{ID: "u1", Name: "Alice"},
		MemberCount:   count,
		CurrentStatus: domain.EffectiveStatusActive,
	}
}

func testMembership(userID string, role domain.MemberRole, status domain.MembershipStatus) *domain.Membership {
	return &domain.Membership{
		ID:       "m-" + userID,
		GroupID:  "g1",
		UserID:   userID,
		Role:     role,
		Status:   status,
		JoinedAt: testTime,
	}
}

func TestRouter_CreateGroup(t *testing.T) {
	t.Run("201 и создатель как единственный участник", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("CreateGroup", mock.Anything, mock.MatchedBy(func(in service.CreateGroupInput) bool {
			return in.Name == "Algo Study" && in.CreatorID == "u1" && in.MaxMembers != nil && *in.MaxMembers == 2
		})).Return(testGroup("g1"), nil).Once()

		rec := doRequest(router, http.MethodPost, "/groups", `{"name":"Algo Study","subject":"CS","creator_id":"u1","max_members":2}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		group := body["group"].(map[string]any)
		assert.Equal(t, "g1", group["id"])
		assert.Equal(t, float64(1), group["member_count"])
		assert.Equal(t, "active", group["current_status"])
		assert.Equal(t, "AB12CD34", group["invite_code"])
		assert.Equal(t, []any{}, group["meeting_times"])
		membershipService.AssertExpectations(t)
	})

	t.Run("400 при отсутствии обязательных полей", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("CreateGroup", mock.Anything, mock.Anything).
			Return(nil, domain.NewValidationError("missing required fields: name, subject")).Once()

		rec := doRequest(router, http.MethodPost, "/groups", `{"creator_id":"u1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"missing required fields: name, subject"}`, rec.Body.String())
	})

	t.Run("500 при исчерпании попыток invite code", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("CreateGroup", mock.Anything, mock.Anything).Return(nil, domain.ErrInviteCodeExhausted).Once()

		rec := doRequest(router, http.MethodPost, "/groups", `{"name":"Algo","subject":"CS","creator_id":"u1"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRouter_ListGroups(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	status := domain.StoredStatusActive
	groupService.On("ListGroups", mock.Anything, domain.GroupFilter{Status: &status, Limit: 5, Offset: 5}).
		Return([]*domain.GroupView{testView("g1", 2)}, 6, nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups?status=active&page=2&limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(6), body["total"])
	groups := body["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, "Alice", groups[0].(map[string]any)["creator"].(map[string]any)["name"])
	groupService.AssertExpectations(t)
}

func TestRouter_SearchPublicGroups(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	groupService.On("SearchPublicGroups", mock.Anything, domain.PublicSearchFilter{Subject: "cs", IncludeActiveScheduled: false}).
		Return([]*domain.GroupView{}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups/search/public?subject=cs&include_active_scheduled=false", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"groups":[],"count":0,"filters":{"subject":"cs","include_active_scheduled":false}}`, rec.Body.String())
}

func TestRouter_GetGroup(t *testing.T) {
	t.Run("200", func(t *testing.T) {
		router, groupService, _ := newTestRouter("", nil)

		groupService.On("GetGroupByID", mock.Anything, "g1").Return(testView("g1", 2), nil).Once()

		rec := doRequest(router, http.MethodGet, "/groups/g1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		group := decodeBody(t, rec)["group"].(map[string]any)
		assert.Equal(t, float64(2), group["member_count"])
		assert.Equal(t, "2026-03-10T12:00:00Z", group["created_at"])
	})

	t.Run("404", func(t *testing.T) {
		router, groupService, _ := newTestRouter("", nil)

		groupService.On("GetGroupByID", mock.Anything, "missing").
			Return(nil, domain.NewNotFoundError("group with id missing")).Once()

		rec := doRequest(router, http.MethodGet, "/groups/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"group with id missing not found"}`, rec.Body.String())
	})
}

func TestRouter_GetGroupByInviteCode(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	groupService.On("GetGroupByInviteCode", mock.Anything, "ab12cd34").Return(testView("g1", 1), nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups/by-code/ab12cd34", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "g1", decodeBody(t, rec)["group"].(map[string]any)["id"])
	groupService.AssertExpectations(t)
}

func TestRouter_JoinByInviteCode(t *testing.T) {
	router, _, membershipService := newTestRouter("", nil)

	membershipService.On("JoinByInviteCode", mock.Anything, "ab12cd34", "u2").
		Return(testGroup("g1"), testMembership("u2", domain.RoleMember, domain.MembershipActive), nil).Once()

	rec := doRequest(router, http.MethodPost, "/groups/join-by-code", `{"invite_code":"ab12cd34","user_id":"u2"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"group_id":"g1","group_name":"Algo Study"}`, rec.Body.String())
}

func TestRouter_ListUserGroups(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	status := domain.StoredStatusActive
	userGroups := []*domain.UserGroup{{GroupView: *testView("g1", 2), Role: domain.RoleAdmin, JoinedAt: testTime}}
	groupService.On("ListUserGroups", mock.Anything, "u2", &status).Return(userGroups, nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups/user/u2?status=active", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	group := body["groups"].([]any)[0].(map[string]any)
	assert.Equal(t, "admin", group["role"])
	assert.Equal(t, "g1", group["id"])
	assert.Equal(t, "2026-03-10T12:00:00Z", group["joined_at"])
}

func TestRouter_JoinGroup(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "группа заполнена", err: domain.ErrGroupFull, wantStatus: http.StatusBadRequest, wantError: "group has reached maximum capacity"},
		{name: "уже участник", err: domain.ErrAlreadyMember, wantStatus: http.StatusBadRequest, wantError: "user is already a member of this group"},
		{name: "группа неактивна", err: domain.ErrNotJoinable, wantStatus: http.StatusBadRequest, wantError: "group is not currently active"},
		{name: "закрытая группа", err: domain.ErrPrivateGroup, wantStatus: http.StatusForbidden},
		{name: "группа не найдена", err: domain.NewNotFoundError("group with id g1"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, membershipService := newTestRouter("", nil)

			membershipService.On("JoinGroup", mock.Anything, "g1", "u3", (*string)(nil)).Return(nil, tt.err).Once()

			rec := doRequest(router, http.MethodPost, "/groups/g1/join", `{"user_id":"u3"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody(t, rec)["error"])
			}
		})
	}

	t.Run("успешное вступление по приглашению", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		invitedBy := "u1"
		membership := testMembership("u2", domain.RoleMember, domain.MembershipActive)
		membership.InvitedBy = &invitedBy
		membershipService.On("JoinGroup", mock.Anything, "g1", "u2", &invitedBy).Return(membership, nil).Once()

		rec := doRequest(router, http.MethodPost, "/groups/g1/join", `{"user_id":"u2","invited_by":"u1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)["membership"].(map[string]any)
		assert.Equal(t, "member", got["role"])
		assert.Equal(t, "active", got["status"])
		assert.Equal(t, "u1", got["invited_by"])
		assert.NotContains(t, got, "left_at")
	})

	t.Run("400 без user_id, сервис не вызывается", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		rec := doRequest(router, http.MethodPost, "/groups/g1/join", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "user_id must not be blank", decodeBody(t, rec)["error"])
		membershipService.AssertNotCalled(t, "JoinGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRouter_ChangeMemberRole(t *testing.T) {
	t.Run("200", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("ChangeMemberRole", mock.Anything, "g1", "u1", "u3", domain.RoleAdmin).
			Return(testMembership("u3", domain.RoleAdmin, domain.MembershipActive), nil).Once()

		rec := doRequest(router, http.MethodPatch, "/groups/g1/members/u3/role", `{"user_id":"u1","new_role":"admin"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin", decodeBody(t, rec)["membership"].(map[string]any)["role"])
	})

	t.Run("403 для администратора", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("ChangeMemberRole", mock.Anything, "g1", "u2", "u3", domain.RoleAdmin).
			Return(nil, domain.NewForbiddenError("only the group creator can change member roles")).Once()

		rec := doRequest(router, http.MethodPatch, "/groups/g1/members/u3/role", `{"user_id":"u2","new_role":"admin"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_LeaveAndRemove(t *testing.T) {
	t.Run("выход из группы", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		left := testMembership("u2", domain.RoleMember, domain.MembershipLeft)
		leftAt := testTime.Add(time.Hour)
		left.LeftAt = &leftAt
		membershipService.On("LeaveGroup", mock.Anything, "g1", "u2").Return(left, nil).Once()

		rec := doRequest(router, http.MethodPost, "/groups/g1/leave", `{"user_id":"u2"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody(t, rec)["membership"].(map[string]any)
		assert.Equal(t, "left", got["status"])
		assert.Equal(t, "2026-03-10T13:00:00Z", got["left_at"])
	})

	t.Run("исключение участника", func(t *testing.T) {
		router, _, membershipService := newTestRouter("", nil)

		membershipService.On("RemoveMember", mock.Anything, "g1", "u1", "u3").
			Return(testMembership("u3", domain.RoleMember, domain.MembershipRemoved), nil).Once()

		rec := doRequest(router, http.MethodDelete, "/groups/g1/members/u3", `{"user_id":"u1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "removed", decodeBody(t, rec)["membership"].(map[string]any)["status"])
	})
}

func TestRouter_UpdateGroup(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	name := "Algo II"
	groupService.On("UpdateGroup", mock.Anything, "g1", "u1", domain.GroupUpdate{Name: &name}).
		Return(testView("g1", 2), nil).Once()

	rec := doRequest(router, http.MethodPatch, "/groups/g1", `{"user_id":"u1","name":"Algo II"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	groupService.AssertExpectations(t)
}

func TestRouter_MembersAndStats(t *testing.T) {
	router, groupService, _ := newTestRouter("", nil)

	members := []*domain.Member{
		{Membership: *testMembership("u1", domain.RoleCreator, domain.MembershipActive), Profile: &domain.Profile{ID: "u1", Name: "Alice"}},
		{Membership: *testMembership("u2", domain.RoleMember, domain.MembershipActive)},
	}
	groupService.On("ListMembers", mock.Anything, "g1").Return(members, nil).Once()
	groupService.On("GetGroupStats", mock.Anything, "g1").
		Return(&domain.GroupStats{TotalMembers: 2, Creators: 1, RegularMembers: 1, TotalLeft: 1}, nil).Once()

	rec := doRequest(router, http.MethodGet, "/groups/g1/members", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	first := body["members"].([]any)[0].(map[string]any)
	assert.Equal(t, "Alice", first["profile"].(map[string]any)["name"])

	rec = doRequest(router, http.MethodGet, "/groups/g1/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"stats":{"total_members":2,"creators":1,"admins":0,"regular_members":1,"total_left":1,"total_removed":0}}`,
		rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	t.Run("база доступна", func(t *testing.T) {
		router, _, _ := newTestRouter("", stubPinger{})

		rec := doRequest(router, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("база недоступна", func(t *testing.T) {
		router, _, _ := newTestRouter("", stubPinger{err: errors.New("dial tcp: connection refused")})

		rec := doRequest(router, http.MethodGet, "/healthz", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRouter_BasePathAndCORS(t *testing.T) {
	router, groupService, _ := newTestRouter("/api/v1", nil)

	groupService.On("GetGroupByID", mock.Anything, "g1").Return(testView("g1", 1), nil).Once()

	rec := doRequest(router, http.MethodGet, "/api/v1/groups/g1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/groups/g1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/groups", nil)
	req.Header.Set("Origin", "https://study.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	preflight := httptest.NewRecorder()
	router.ServeHTTP(preflight, req)

	assert.Equal(t, "*", preflight.Header().Get("Access-Control-Allow-Origin"))
}
