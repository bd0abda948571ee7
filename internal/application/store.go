package application

import "voicebot/internal/domain"

// SessionStore holds per-user mode and language preference. Reads of a
// user that never stored anything return the documented defaults without
// creating state. Implementations must be safe for concurrent use; writes
// followed by reads for the same user must observe the write.
type SessionStore interface {
	Mode(user domain.UserID) domain.Mode
	SetMode(user domain.UserID, mode domain.Mode)
	Language(user domain.UserID) string
	SetLanguage(user domain.UserID, code string)
}
