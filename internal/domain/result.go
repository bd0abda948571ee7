package domain

// Recognition is the raw backend output: segments in utterance order plus
// the language the backend actually used.
type Recognition struct {
	Segments []string
	Language string
}

// TranscriptionResult is assembled recognizer output.
type TranscriptionResult struct {
	Text     string
	Language string
}

// SynthesisResult carries synthesized audio and the language that was
// actually used (the preference, or the detected code).
type SynthesisResult struct {
	Audio    []byte
	Language string
}
