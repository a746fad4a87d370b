package domain

import "time"

// EffectiveStatusAt вычисляет статус группы на момент now.
// Для запланированной группы внутри окна [ScheduledStart, ScheduledEnd] статус active,
// вне окна возвращается сохраненный статус без изменений. Ничего не записывается в БД.
func EffectiveStatusAt(g *Group, now time.Time) EffectiveStatus {
	if g.IsScheduled && g.ScheduledStart != nil && g.ScheduledEnd != nil {
		if !now.Before(*g.ScheduledStart) && !now.After(*g.ScheduledEnd) {
			return EffectiveStatusActive
		}
	}
	return EffectiveStatus(g.Status)
}

// IsJoinableAt сообщает, принимает ли группа участников в момент now
func IsJoinableAt(g *Group, now time.Time) bool {
	return EffectiveStatusAt(g, now) == EffectiveStatusActive
}

// NewGroupView прикрепляет к группе производные поля
func NewGroupView(g *Group, creator *Profile, memberCount int, now time.Time) *GroupView {
	return &GroupView{
		Group:         g,
		Creator:       creator,
		MemberCount:   memberCount,
		CurrentStatus: EffectiveStatusAt(g, now),
	}
}
