package domain

// Mode is the per-user processing pipeline selection.
type Mode string

const (
	ModeVoiceToText  Mode = "v2t"
	ModeVoiceToAudio Mode = "mp3"
	ModeTextToSpeech Mode = "t2s"
)

// DefaultMode applies to users who never selected a mode.
const DefaultMode = ModeVoiceToText

// LanguageAuto is the sentinel preference for automatic language detection.
const LanguageAuto = "auto"

// ParseMode maps a command or button token to a mode.
func ParseMode(token string) (Mode, bool) {
	switch Mode(token) {
	case ModeVoiceToText, ModeVoiceToAudio, ModeTextToSpeech:
		return Mode(token), true
	}
	return "", false
}
