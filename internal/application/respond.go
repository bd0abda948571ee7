package application

import "context"

// Button is one labeled inline button bound to a callback token.
type Button struct {
	Label string
	Token string
}

// Responder delivers replies back through the transport.
type Responder interface {
	SendText(ctx context.Context, chat int64, text string) error
	SendMenu(ctx context.Context, chat int64, text string, rows [][]Button) error
	SendAudio(ctx context.Context, chat int64, caption, filename string, audio []byte) error
}
