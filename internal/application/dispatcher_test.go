package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"voicebot/internal/application"
	"voicebot/internal/domain"
	"voicebot/internal/infra/session"
)

type mockIngestor struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (m *mockIngestor) Download(_ context.Context, _ string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

func (m *mockIngestor) downloads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockTranscoder struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (m *mockTranscoder) Transcode(_ context.Context, data []byte, target string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = append(m.targets, target)
	if m.err != nil {
		return nil, m.err
	}
	return append([]byte("converted:"), data...), nil
}

type mockRecognizer struct {
	mu        sync.Mutex
	languages []string
	segments  []string
	err       error
}

func (m *mockRecognizer) Recognize(_ context.Context, _ []byte, language string) (domain.Recognition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages = append(m.languages, language)
	if m.err != nil {
		return domain.Recognition{}, m.err
	}
	return domain.Recognition{Segments: m.segments, Language: language}, nil
}

func (m *mockRecognizer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.languages)
}

type mockSynthBackend struct {
	mu        sync.Mutex
	languages []string
	err       error
}

func (m *mockSynthBackend) Synthesize(_ context.Context, _ string, language string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages = append(m.languages, language)
	if m.err != nil {
		return nil, m.err
	}
	return []byte("mp3"), nil
}

func (m *mockSynthBackend) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.languages)
}

type mockDetector struct {
	code string
	err  error
}

func (m *mockDetector) Detect(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.code, nil
}

type sentAudio struct {
	caption  string
	filename string
	audio    []byte
}

// mockResponder records replies and signals each delivery so tests can
// wait for offloaded pipelines to finish.
type mockResponder struct {
	mu     sync.Mutex
	texts  []string
	menus  []string
	audios []sentAudio
	sent   chan struct{}
}

func newMockResponder() *mockResponder {
	return &mockResponder{sent: make(chan struct{}, 16)}
}

func (m *mockResponder) SendText(_ context.Context, _ int64, text string) error {
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *mockResponder) SendMenu(_ context.Context, _ int64, text string, _ [][]application.Button) error {
	m.mu.Lock()
	m.menus = append(m.menus, text)
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *mockResponder) SendAudio(_ context.Context, _ int64, caption, filename string, audio []byte) error {
	m.mu.Lock()
	m.audios = append(m.audios, sentAudio{caption: caption, filename: filename, audio: audio})
	m.mu.Unlock()
	m.sent <- struct{}{}
	return nil
}

func (m *mockResponder) waitForSends(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.sent:
		case <-time.After(5 * time.Second):
			t.Fatalf("timeout waiting for reply %d of %d", i+1, n)
		}
	}
}

func (m *mockResponder) lastText(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		t.Fatal("no text replies sent")
	}
	return m.texts[len(m.texts)-1]
}

type fixture struct {
	dispatcher *application.Dispatcher
	store      *session.MemoryStore
	ingestor   *mockIngestor
	transcoder *mockTranscoder
	recognizer *mockRecognizer
	synth      *mockSynthBackend
	detector   *mockDetector
	responder  *mockResponder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{
		store:      session.NewMemoryStore(),
		ingestor:   &mockIngestor{data: []byte("ogg")},
		transcoder: &mockTranscoder{},
		recognizer: &mockRecognizer{segments: []string{" hello", "world "}},
		synth:      &mockSynthBackend{},
		detector:   &mockDetector{code: "fr"},
		responder:  newMockResponder(),
	}

	pool := application.NewPool(2, 8)
	pool.Start(ctx)

	f.dispatcher = application.NewDispatcher(
		f.store,
		f.ingestor,
		f.transcoder,
		application.NewTranscriber(f.recognizer),
		application.NewSynthesizer(f.synth, f.detector, "en"),
		f.responder,
		pool,
		25,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func TestDispatcher_ModeCommandSetsModeAndPrompts(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.Command{Chat: 1, User: 7, Name: "mp3"})
	f.responder.waitForSends(t, 1)

	if got := f.store.Mode(7); got != domain.ModeVoiceToAudio {
		t.Errorf("mode: got %q, want %q", got, domain.ModeVoiceToAudio)
	}
	if !strings.Contains(f.responder.lastText(t), "MP3") {
		t.Errorf("prompt should mention MP3, got %q", f.responder.lastText(t))
	}
}

func TestDispatcher_LanguageCallbackForcesExplicitRecognition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.Dispatch(ctx, domain.ButtonCallback{Chat: 1, User: 7, Token: "lang_fr"})
	f.responder.waitForSends(t, 1)

	if got := f.store.Language(7); got != "fr" {
		t.Fatalf("language: got %q, want fr", got)
	}

	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 1024})
	// Progress notice plus final transcription.
	f.responder.waitForSends(t, 2)

	f.recognizer.mu.Lock()
	defer f.recognizer.mu.Unlock()
	if len(f.recognizer.languages) != 1 || f.recognizer.languages[0] != "fr" {
		t.Errorf("recognizer languages: got %v, want [fr]", f.recognizer.languages)
	}
}

func TestDispatcher_AutoLanguageLeavesBackendDetection(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 1024})
	f.responder.waitForSends(t, 2)

	f.recognizer.mu.Lock()
	defer f.recognizer.mu.Unlock()
	if len(f.recognizer.languages) != 1 || f.recognizer.languages[0] != "" {
		t.Errorf("recognizer languages: got %v, want one empty entry", f.recognizer.languages)
	}
}

func TestDispatcher_OversizedMediaRejectedBeforeDownload(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 40 * 1024 * 1024})
	f.responder.waitForSends(t, 1)

	if got := f.responder.lastText(t); !strings.Contains(got, "25") {
		t.Errorf("warning should name the threshold, got %q", got)
	}
	if f.ingestor.downloads() != 0 {
		t.Errorf("download should not run, got %d calls", f.ingestor.downloads())
	}
	if f.recognizer.calls() != 0 {
		t.Errorf("recognizer should not run, got %d calls", f.recognizer.calls())
	}
}

func TestDispatcher_UnknownSizeIsNotRejected(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 0})
	f.responder.waitForSends(t, 2)

	if f.ingestor.downloads() != 1 {
		t.Errorf("download should run for unknown size, got %d calls", f.ingestor.downloads())
	}
}

func TestDispatcher_EmptyTextNeverReachesSynthesizer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.SetMode(7, domain.ModeTextToSpeech)
	f.dispatcher.Dispatch(ctx, domain.FreeText{Chat: 1, User: 7, Text: "   \n "})
	f.responder.waitForSends(t, 1)

	if f.synth.calls() != 0 {
		t.Errorf("synthesizer should not run, got %d calls", f.synth.calls())
	}
	if got := f.responder.lastText(t); !strings.Contains(got, "text") {
		t.Errorf("expected corrective prompt, got %q", got)
	}
}

func TestDispatcher_EmptyTranscriptionRendersMarker(t *testing.T) {
	f := newFixture(t)
	f.recognizer.segments = nil

	f.dispatcher.Dispatch(context.Background(), domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 10})
	f.responder.waitForSends(t, 2)

	if got := f.responder.lastText(t); !strings.Contains(got, "(empty)") {
		t.Errorf("expected empty marker, got %q", got)
	}
}

func TestDispatcher_MP3ModeSendsAudioFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.SetMode(7, domain.ModeVoiceToAudio)
	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 10})
	f.responder.waitForSends(t, 1)

	f.responder.mu.Lock()
	defer f.responder.mu.Unlock()
	if len(f.responder.audios) != 1 {
		t.Fatalf("audio replies: got %d, want 1", len(f.responder.audios))
	}
	if f.responder.audios[0].filename != "audio.mp3" {
		t.Errorf("filename: got %q", f.responder.audios[0].filename)
	}
	if len(f.responder.texts) != 0 {
		t.Errorf("no transcript should be sent, got %v", f.responder.texts)
	}

	f.transcoder.mu.Lock()
	defer f.transcoder.mu.Unlock()
	if len(f.transcoder.targets) != 1 || f.transcoder.targets[0] != application.FormatMP3 {
		t.Errorf("transcode targets: got %v, want [mp3]", f.transcoder.targets)
	}
}

func TestDispatcher_VoiceInSpeechModeStillTranscribes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.SetMode(7, domain.ModeTextToSpeech)
	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 10})
	f.responder.waitForSends(t, 2)

	if f.recognizer.calls() != 1 {
		t.Errorf("recognizer calls: got %d, want 1", f.recognizer.calls())
	}
	if f.synth.calls() != 0 {
		t.Errorf("synthesizer should not run on voice input, got %d calls", f.synth.calls())
	}
}

func TestDispatcher_TextOutsideSpeechModeGetsHint(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.FreeText{Chat: 1, User: 7, Text: "hello"})
	f.responder.waitForSends(t, 1)

	if f.synth.calls() != 0 {
		t.Errorf("synthesizer should not run, got %d calls", f.synth.calls())
	}
	if got := f.responder.lastText(t); !strings.Contains(got, "/t2s") {
		t.Errorf("expected hint mentioning /t2s, got %q", got)
	}
}

func TestDispatcher_SpeechModeSendsSynthesizedAudioWithLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.SetMode(7, domain.ModeTextToSpeech)
	f.dispatcher.Dispatch(ctx, domain.FreeText{Chat: 1, User: 7, Text: "Bonjour"})
	// Progress notice plus audio reply.
	f.responder.waitForSends(t, 2)

	f.responder.mu.Lock()
	defer f.responder.mu.Unlock()
	if len(f.responder.audios) != 1 {
		t.Fatalf("audio replies: got %d, want 1", len(f.responder.audios))
	}
	if !strings.Contains(f.responder.audios[0].caption, "FR") {
		t.Errorf("caption should show detected language FR, got %q", f.responder.audios[0].caption)
	}
}

func TestDispatcher_RecognitionFailureKeepsLoopAlive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.recognizer.err = errors.New("model exploded")
	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 10})
	f.responder.waitForSends(t, 2)

	if got := f.responder.lastText(t); !strings.Contains(got, "transcribe") {
		t.Errorf("expected transcription failure message, got %q", got)
	}

	// A later request must still be served.
	f.recognizer.err = nil
	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f2", Size: 10})
	f.responder.waitForSends(t, 2)

	if got := f.responder.lastText(t); !strings.Contains(got, "hello world") {
		t.Errorf("expected transcription after recovery, got %q", got)
	}
}

func TestDispatcher_FailureDoesNotRollBackSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dispatcher.Dispatch(ctx, domain.ButtonCallback{Chat: 1, User: 7, Token: "lang_de"})
	f.responder.waitForSends(t, 1)

	f.ingestor.err = errors.New("network down")
	f.dispatcher.Dispatch(ctx, domain.VoiceMedia{Chat: 1, User: 7, FileID: "f1", Size: 10})
	f.responder.waitForSends(t, 2)

	if got := f.store.Language(7); got != "de" {
		t.Errorf("language should survive pipeline failure: got %q, want de", got)
	}
}

func TestDispatcher_StartShowsMainMenu(t *testing.T) {
	f := newFixture(t)

	f.dispatcher.Dispatch(context.Background(), domain.Command{Chat: 1, User: 7, Name: "start"})
	f.responder.waitForSends(t, 1)

	f.responder.mu.Lock()
	defer f.responder.mu.Unlock()
	if len(f.responder.menus) != 1 {
		t.Fatalf("menus: got %d, want 1", len(f.responder.menus))
	}
	if !strings.Contains(f.responder.menus[0], "Welcome") {
		t.Errorf("welcome text missing, got %q", f.responder.menus[0])
	}
}
