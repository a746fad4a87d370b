package service

import (
	"math"

	"github.com/bagdasarian/study-groups/internal/domain"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// NormalizeGroupFilter подставляет лимит по умолчанию и ограничивает его сверху
func NormalizeGroupFilter(filter domain.GroupFilter) domain.GroupFilter {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

// PageOffset переводит номер страницы (с единицы) в смещение.
// При переполнении смещение упирается в math.MaxInt, такая страница просто пустая.
func PageOffset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
