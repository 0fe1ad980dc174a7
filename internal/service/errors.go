package service

import "errors"

var (
	ErrValidation = errors.New("validation error")
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError is a user-facing input error. Every value matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var (
	ErrUsernameTooShort = invalid("username", "username must be at least 3 characters")
	ErrUsernameInvalid  = invalid("username", "username may only contain letters, digits and underscores")
	ErrUsernameTaken    = invalid("username", "username is already taken")
	ErrPasswordTooShort = invalid("password", "password must be at least 8 characters")
	ErrPasswordTooLong  = invalid("password", "password must be at most 72 bytes")
	ErrPasswordMismatch = invalid("confirm_password", "passwords do not match")
	ErrInvalidRole      = invalid("role", "role must be USER or ADMIN")

	ErrTitleRequired   = invalid("title", "title is required")
	ErrInvalidStatus   = invalid("status", "status must be one of TODO, IN_PROGRESS, DONE, CANCELLED")
	ErrInvalidPriority = invalid("priority", "priority must be one of LOW, MEDIUM, HIGH")
	ErrUnknownCategory = invalid("category_id", "category does not exist")
	ErrUnknownAssignee = invalid("user_id", "assigned user does not exist")

	ErrCategoryNameRequired = invalid("name", "category name is required")
	ErrCategoryExists       = invalid("name", "a category with this name already exists")
	ErrCategoryNameReserved = invalid("name", "\"uncategorized\" is reserved for tasks without a category")

	// ErrSelfModification stops an admin from deleting or demoting their own account.
	ErrSelfModification = invalid("id", "you cannot delete or demote your own account")
)
