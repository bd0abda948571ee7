package application

import (
	"fmt"
	"strings"

	"voicebot/internal/domain"
)

// Callback tokens understood by the dispatcher. Mode tokens are the mode
// values themselves; language tokens carry the code after the prefix.
const (
	tokenInfo     = "info"
	tokenHelp     = "help"
	tokenLangMenu = "lang"
	langPrefix    = "lang_"
)

const emptyMarker = "(empty)"

const welcomeText = "🏠 **Welcome to your personal voice assistant!**\n\n" +
	"Choose an option below to get started 👇"

const helpText = "❓ **How to use this bot:**\n\n" +
	"/info – Info about this bot\n" +
	"/v2t – Send voice, get text\n" +
	"/mp3 – Convert voice to MP3\n" +
	"/t2s – Convert your text to speech\n" +
	"/lang – Set language for recognition\n"

const infoText = "ℹ️ **About this bot**\n\n" +
	"This bot uses **Whisper** to transcribe voice messages and synthesizes speech for you.\n" +
	"No permanent files: everything is processed in temp and deleted right away."

const hintText = "💡 Send a voice message for transcription, or /t2s to synthesize your text."

const emptyTextPrompt = "✍️ Send some text first."

func mainMenu() [][]Button {
	return [][]Button{
		{{Label: "ℹ️ About", Token: tokenInfo}, {Label: "❓ Help", Token: tokenHelp}},
		{{Label: "🎙️ Voice → Text", Token: string(domain.ModeVoiceToText)}, {Label: "🎵 Voice → MP3", Token: string(domain.ModeVoiceToAudio)}},
		{{Label: "🗣️ Text → Speech", Token: string(domain.ModeTextToSpeech)}, {Label: "🌍 Language", Token: tokenLangMenu}},
	}
}

func languageMenu() [][]Button {
	return [][]Button{
		{{Label: "🇺🇸 English", Token: langPrefix + "en"}, {Label: "🇷🇺 Russian", Token: langPrefix + "ru"}},
		{{Label: "🇫🇷 French", Token: langPrefix + "fr"}, {Label: "🇩🇪 German", Token: langPrefix + "de"}},
		{{Label: "🇪🇸 Spanish", Token: langPrefix + "es"}, {Label: "🧠 Auto-detect", Token: langPrefix + domain.LanguageAuto}},
	}
}

const languageMenuText = "🌍 Choose recognition language:"

func modePrompt(mode domain.Mode) string {
	switch mode {
	case domain.ModeVoiceToAudio:
		return "🎵 Send a voice/audio message to convert to MP3."
	case domain.ModeTextToSpeech:
		return "🗣️ Send text and I will turn it into speech."
	default:
		return "🎙️ Send a voice message and I'll transcribe it."
	}
}

func modeActivated(mode domain.Mode) string {
	switch mode {
	case domain.ModeVoiceToAudio:
		return "🎵 MP3 conversion mode activated. Send a voice message."
	case domain.ModeTextToSpeech:
		return "🗣 Text-to-speech mode activated. Send a text message."
	default:
		return "🎙 Voice-to-text mode activated. Send a voice message."
	}
}

func languageSet(code string) string {
	if code == domain.LanguageAuto {
		return "🧠 Language detection set to **automatic**"
	}
	return fmt.Sprintf("🌍 Language set to **%s**", strings.ToUpper(code))
}

func sizeWarning(thresholdMB float64) string {
	return fmt.Sprintf("⚠️ File is larger than %g MB. Please send a shorter one.", thresholdMB)
}

func transcribingNotice(language string) string {
	return fmt.Sprintf("🔍 Transcribing (language: %s)...", language)
}

const synthesizingNotice = "🎧 Generating speech..."

func transcriptionReply(text string) string {
	if text == "" {
		text = emptyMarker
	}
	return "📝 Transcription:\n" + text
}

const mp3Caption = "🎵 Here's your MP3:"

func synthesisCaption(language string) string {
	return fmt.Sprintf("🔊 Language: **%s**", strings.ToUpper(language))
}

// failureReply maps a pipeline error kind to its fixed user-facing text.
func failureReply(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrConversion:
		return "❌ Failed to convert the audio."
	case domain.ErrRecognition:
		return "❌ Failed to transcribe."
	case domain.ErrSynthesis:
		return "❌ Failed to generate audio."
	default:
		return "❌ Something went wrong. Please try again."
	}
}
