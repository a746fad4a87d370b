package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bagdasarian/study-groups/internal/domain"
	"github.com/bagdasarian/study-groups/internal/service"
)

func queryInt(q url.Values, name string) (int, bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, domain.NewValidationError("%s must be an integer", name)
	}
	return value, true, nil
}

func queryBool(q url.Values, name string) (*bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError("%s must be true or false", name)
	}
	return &value, nil
}

func queryStatus(q url.Values) *domain.StoredStatus {
	raw := strings.TrimSpace(q.Get("status"))
	if raw == "" {
		return nil
	}
	status := domain.StoredStatus(strings.ToLower(raw))
	return &status
}

// parseGroupFilter читает status, limit, offset и page. page (с единицы) имеет приоритет над offset.
func parseGroupFilter(q url.Values) (domain.GroupFilter, error) {
	limit, _, err := queryInt(q, "limit")
	if err != nil {
		return domain.GroupFilter{}, err
	}
	offset, _, err := queryInt(q, "offset")
	if err != nil {
		return domain.GroupFilter{}, err
	}
	page, hasPage, err := queryInt(q, "page")
	if err != nil {
		return domain.GroupFilter{}, err
	}

	filter := service.NormalizeGroupFilter(domain.GroupFilter{
		Status: queryStatus(q),
		Limit:  limit,
		Offset: offset,
	})
	if hasPage {
		filter.Offset = service.PageOffset(page, filter.Limit)
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

func parsePublicSearchFilter(q url.Values) (domain.PublicSearchFilter, error) {
	isScheduled, err := queryBool(q, "is_scheduled")
	if err != nil {
		return domain.PublicSearchFilter{}, err
	}
	includeScheduled, err := queryBool(q, "include_active_scheduled")
	if err != nil {
		return domain.PublicSearchFilter{}, err
	}

	filter := domain.PublicSearchFilter{
		Subject:                strings.TrimSpace(q.Get("subject")),
		Faculty:                strings.TrimSpace(q.Get("faculty")),
		Course:                 strings.TrimSpace(q.Get("course")),
		YearOfStudy:            strings.TrimSpace(q.Get("year_of_study")),
		IsScheduled:            isScheduled,
		IncludeActiveScheduled: true,
	}
	if includeScheduled != nil {
		filter.IncludeActiveScheduled = *includeScheduled
	}

	return filter, nil
}
