package constants

// ContextKeyUserID is the gin context / session key holding the caller's user ID.
const ContextKeyUserID = "user_id"

// SessionCookieName names the HTTP-only session cookie.
const SessionCookieName = "todo_session"

// Pagination bounds for list endpoints. Limits above MaxPageSize are clamped,
// not rejected.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Field limits enforced by the domain services.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxTagNameLength     = 50
	MinPasswordLength    = 8
)
