package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

const (
	CodeValidation          = "VALIDATION"
	CodeNotJoinable         = "NOT_JOINABLE"
	CodeAlreadyMember       = "ALREADY_MEMBER"
	CodeGroupFull           = "GROUP_FULL"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeInviteCodeExhausted = "INVITE_CODE_EXHAUSTED"
)

var (
	// ErrValidation - некорректный запрос
	ErrValidation = &DomainError{
		Code:    CodeValidation,
		Message: "invalid request",
	}

	// ErrNotJoinable - группа сейчас не принимает участников
	ErrNotJoinable = &DomainError{
		Code:    CodeNotJoinable,
		Message: "group is not currently active",
	}

	// ErrAlreadyMember - пользователь уже состоит в группе
	ErrAlreadyMember = &DomainError{
		Code:    CodeAlreadyMember,
		Message: "user is already a member of this group",
	}

	// ErrGroupFull - достигнут лимит участников
	ErrGroupFull = &DomainError{
		Code:    CodeGroupFull,
		Message: "group has reached maximum capacity",
	}

	// ErrForbidden - недостаточно прав
	ErrForbidden = &DomainError{
		Code:    CodeForbidden,
		Message: "action not permitted",
	}

	// ErrPrivateGroup - закрытая группа без приглашения
	ErrPrivateGroup = &DomainError{
		Code:    CodeForbidden,
		Message: "private group requires an invitation or a connection with a member",
	}

	// ErrInviteCodeExhausted - не удалось подобрать уникальный invite code
	ErrInviteCodeExhausted = &DomainError{
		Code:    CodeInviteCodeExhausted,
		Message: "failed to generate a unique invite code, please retry",
	}

	// ErrNotFound - ресурс не найден
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "resource not found",
	}

	// Ошибки уровня хранилища, сервис переводит их в ErrNotFound с контекстом
	ErrGroupNotFound      = &DomainError{Code: CodeNotFound, Message: "group not found"}
	ErrMembershipNotFound = &DomainError{Code: CodeNotFound, Message: "membership not found"}
)

// NewNotFoundError создает ошибку NOT_FOUND с дополнительным контекстом
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError создает ошибку VALIDATION с описанием поля
func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewForbiddenError создает ошибку FORBIDDEN с описанием причины
func NewForbiddenError(message string) *DomainError {
	return &DomainError{
		Code:    CodeForbidden,
		Message: message,
	}
}
