package application

import (
	"context"
	"strings"

	"voicebot/internal/domain"
)

// SpeechRecognizer invokes the recognition backend on normalized audio.
// An empty language lets the backend pick one; otherwise the given code
// is forced.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, wav []byte, language string) (domain.Recognition, error)
}

// SpeechSynthesizer renders text to audio in the given language.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// LanguageDetector guesses the language of a piece of text.
type LanguageDetector interface {
	Detect(text string) (string, error)
}

// Transcriber turns normalized audio into assembled text.
type Transcriber struct {
	recognizer SpeechRecognizer
}

func NewTranscriber(recognizer SpeechRecognizer) *Transcriber {
	return &Transcriber{recognizer: recognizer}
}

// Transcribe runs recognition with the user's preference. The auto
// sentinel maps to backend-side detection. Segments are joined in backend
// order with single spaces and trimmed.
func (t *Transcriber) Transcribe(ctx context.Context, wav []byte, language string) (domain.TranscriptionResult, error) {
	backendLang := language
	if backendLang == domain.LanguageAuto {
		backendLang = ""
	}

	rec, err := t.recognizer.Recognize(ctx, wav, backendLang)
	if err != nil {
		return domain.TranscriptionResult{}, domain.Pipeline(domain.ErrRecognition, err)
	}

	return domain.TranscriptionResult{
		Text:     strings.TrimSpace(strings.Join(rec.Segments, " ")),
		Language: rec.Language,
	}, nil
}

// Synthesizer resolves the effective language and renders speech.
type Synthesizer struct {
	backend  SpeechSynthesizer
	detector LanguageDetector
	fallback string
}

func NewSynthesizer(backend SpeechSynthesizer, detector LanguageDetector, fallback string) *Synthesizer {
	return &Synthesizer{backend: backend, detector: detector, fallback: fallback}
}

// Synthesize uses the explicit preference when set; for auto it consults
// the detector and falls back to the configured default code when
// detection fails. The resolved code is returned alongside the audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text, preference string) (domain.SynthesisResult, error) {
	language := preference
	if language == domain.LanguageAuto {
		detected, err := s.detector.Detect(text)
		if err != nil {
			language = s.fallback
		} else {
			language = detected
		}
	}

	audio, err := s.backend.Synthesize(ctx, text, language)
	if err != nil {
		return domain.SynthesisResult{}, domain.Pipeline(domain.ErrSynthesis, err)
	}

	return domain.SynthesisResult{Audio: audio, Language: language}, nil
}
