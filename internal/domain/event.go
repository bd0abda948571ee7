package domain

// Event is one inbound interaction from the transport. Exactly one of the
// variants below is produced per update; each carries only the fields valid
// for that variant.
type Event interface {
	Sender() UserID
	ChatID() int64
}

// UserID identifies a user across the session store; opaque to the core.
type UserID int64

// Command is an administrative text message ("/start", "/help", ...).
type Command struct {
	Chat int64
	User UserID
	Name string
}

// VoiceMedia is a message carrying a voice or generic audio attachment.
// Size is the declared size in bytes; zero means the transport did not
// report one.
type VoiceMedia struct {
	Chat   int64
	User   UserID
	FileID string
	Size   int64
}

// FreeText is a non-command text message.
type FreeText struct {
	Chat int64
	User UserID
	Text string
}

// ButtonCallback is an inline-button press carrying its payload token.
type ButtonCallback struct {
	Chat  int64
	User  UserID
	Token string
}

func (c Command) Sender() UserID        { return c.User }
func (c Command) ChatID() int64         { return c.Chat }
func (v VoiceMedia) Sender() UserID     { return v.User }
func (v VoiceMedia) ChatID() int64      { return v.Chat }
func (t FreeText) Sender() UserID       { return t.User }
func (t FreeText) ChatID() int64        { return t.Chat }
func (b ButtonCallback) Sender() UserID { return b.User }
func (b ButtonCallback) ChatID() int64  { return b.Chat }
