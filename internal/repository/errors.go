package repository

import "errors"

var (
	// ErrInviteCodeConflict - invite code уже занят другой группой
	ErrInviteCodeConflict = errors.New("invite code already in use")
	// ErrDuplicateMembership - у пользователя уже есть активное членство в группе
	ErrDuplicateMembership = errors.New("active membership already exists")
)
