package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"voicebot/internal/domain"
)

// Dispatcher is the entry point for every inbound event. It reads the
// user's session, routes media and text to the matching pipeline, and
// offloads heavy work to the pool so one user's conversion never stalls
// another's events.
type Dispatcher struct {
	sessions    SessionStore
	ingestor    MediaIngestor
	transcoder  Transcoder
	transcriber *Transcriber
	synthesizer *Synthesizer
	responder   Responder
	pool        *Pool
	maxFileMB   float64
	logger      *slog.Logger
}

func NewDispatcher(
	sessions SessionStore,
	ingestor MediaIngestor,
	transcoder Transcoder,
	transcriber *Transcriber,
	synthesizer *Synthesizer,
	responder Responder,
	pool *Pool,
	maxFileMB float64,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		sessions:    sessions,
		ingestor:    ingestor,
		transcoder:  transcoder,
		transcriber: transcriber,
		synthesizer: synthesizer,
		responder:   responder,
		pool:        pool,
		maxFileMB:   maxFileMB,
		logger:      logger,
	}
}

// Dispatch routes one inbound event. It never returns an error: every
// failure is logged and answered with a fixed user-facing message.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	logger := d.logger.With(
		"request_id", uuid.NewString(),
		"user", int64(ev.Sender()),
	)

	switch ev := ev.(type) {
	case domain.Command:
		d.handleCommand(ctx, logger, ev)
	case domain.ButtonCallback:
		d.handleCallback(ctx, logger, ev)
	case domain.VoiceMedia:
		d.handleMedia(ctx, logger, ev)
	case domain.FreeText:
		d.handleText(ctx, logger, ev)
	default:
		logger.Warn("unknown event type")
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, logger *slog.Logger, cmd domain.Command) {
	logger.Info("command", "name", cmd.Name)

	if mode, ok := domain.ParseMode(cmd.Name); ok {
		d.sessions.SetMode(cmd.User, mode)
		d.reply(ctx, logger, cmd.Chat, modePrompt(mode))
		return
	}

	switch cmd.Name {
	case "start":
		d.replyMenu(ctx, logger, cmd.Chat, welcomeText, mainMenu())
	case "help":
		d.reply(ctx, logger, cmd.Chat, helpText)
	case "info":
		d.reply(ctx, logger, cmd.Chat, infoText)
	case "lang":
		d.replyMenu(ctx, logger, cmd.Chat, languageMenuText, languageMenu())
	default:
		d.reply(ctx, logger, cmd.Chat, helpText)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, logger *slog.Logger, cb domain.ButtonCallback) {
	logger.Info("callback", "token", cb.Token)

	if code, ok := strings.CutPrefix(cb.Token, langPrefix); ok {
		d.sessions.SetLanguage(cb.User, code)
		d.reply(ctx, logger, cb.Chat, languageSet(code))
		return
	}

	if mode, ok := domain.ParseMode(cb.Token); ok {
		d.sessions.SetMode(cb.User, mode)
		d.reply(ctx, logger, cb.Chat, modeActivated(mode))
		return
	}

	switch cb.Token {
	case tokenInfo:
		d.reply(ctx, logger, cb.Chat, infoText)
	case tokenHelp:
		d.reply(ctx, logger, cb.Chat, helpText)
	case tokenLangMenu:
		d.replyMenu(ctx, logger, cb.Chat, languageMenuText, languageMenu())
	default:
		logger.Warn("unknown callback token", "token", cb.Token)
	}
}

// handleMedia routes voice/audio by the current mode. Voice input always
// resolves to a voice-oriented handler: TextToSpeech mode still gets a
// transcription, not a rejection.
func (d *Dispatcher) handleMedia(ctx context.Context, logger *slog.Logger, media domain.VoiceMedia) {
	if ExceedsLimit(media.Size, d.maxFileMB) {
		logger.Info("media rejected", "size_bytes", media.Size, "limit_mb", d.maxFileMB)
		d.reply(ctx, logger, media.Chat, sizeWarning(d.maxFileMB))
		return
	}

	if d.sessions.Mode(media.User) == domain.ModeVoiceToAudio {
		d.offload(ctx, logger, media.Chat, func(ctx context.Context) error {
			return d.convertToMP3(ctx, logger, media)
		})
		return
	}

	language := d.sessions.Language(media.User)
	d.reply(ctx, logger, media.Chat, transcribingNotice(language))
	d.offload(ctx, logger, media.Chat, func(ctx context.Context) error {
		return d.transcribeVoice(ctx, logger, media, language)
	})
}

func (d *Dispatcher) handleText(ctx context.Context, logger *slog.Logger, msg domain.FreeText) {
	if d.sessions.Mode(msg.User) != domain.ModeTextToSpeech {
		d.reply(ctx, logger, msg.Chat, hintText)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		d.reply(ctx, logger, msg.Chat, emptyTextPrompt)
		return
	}

	language := d.sessions.Language(msg.User)
	d.reply(ctx, logger, msg.Chat, synthesizingNotice)
	d.offload(ctx, logger, msg.Chat, func(ctx context.Context) error {
		return d.synthesizeText(ctx, logger, msg.Chat, text, language)
	})
}

func (d *Dispatcher) transcribeVoice(ctx context.Context, logger *slog.Logger, media domain.VoiceMedia, language string) error {
	data, err := d.ingestor.Download(ctx, media.FileID)
	if err != nil {
		return domain.Pipeline(domain.ErrTransport, err)
	}

	wav, err := d.transcoder.Transcode(ctx, data, FormatWAV)
	if err != nil {
		return domain.Pipeline(domain.ErrConversion, err)
	}

	result, err := d.transcriber.Transcribe(ctx, wav, language)
	if err != nil {
		return err
	}

	logger.Info("transcribed", "language", result.Language, "chars", len(result.Text))
	d.reply(ctx, logger, media.Chat, transcriptionReply(result.Text))
	return nil
}

func (d *Dispatcher) convertToMP3(ctx context.Context, logger *slog.Logger, media domain.VoiceMedia) error {
	data, err := d.ingestor.Download(ctx, media.FileID)
	if err != nil {
		return domain.Pipeline(domain.ErrTransport, err)
	}

	mp3, err := d.transcoder.Transcode(ctx, data, FormatMP3)
	if err != nil {
		return domain.Pipeline(domain.ErrConversion, err)
	}

	logger.Info("converted", "in_bytes", len(data), "out_bytes", len(mp3))
	if err := d.responder.SendAudio(ctx, media.Chat, mp3Caption, "audio.mp3", mp3); err != nil {
		return domain.Pipeline(domain.ErrTransport, err)
	}
	return nil
}

func (d *Dispatcher) synthesizeText(ctx context.Context, logger *slog.Logger, chat int64, text, language string) error {
	result, err := d.synthesizer.Synthesize(ctx, text, language)
	if err != nil {
		return err
	}

	logger.Info("synthesized", "language", result.Language, "bytes", len(result.Audio))
	if err := d.responder.SendAudio(ctx, chat, synthesisCaption(result.Language), "speech.mp3", result.Audio); err != nil {
		return domain.Pipeline(domain.ErrTransport, err)
	}
	return nil
}

// offload hands a pipeline to the worker pool. Failures are logged with
// their cause and answered with the fixed message for the error kind.
func (d *Dispatcher) offload(ctx context.Context, logger *slog.Logger, chat int64, run func(ctx context.Context) error) {
	err := d.pool.Submit(ctx, func() {
		if err := run(ctx); err != nil {
			kind := domain.KindOf(err)
			logger.Error("pipeline failed", "kind", string(kind), "error", err)
			d.reply(ctx, logger, chat, failureReply(kind))
		}
	})
	if err != nil {
		logger.Warn("offload rejected", "error", err)
	}
}

func (d *Dispatcher) reply(ctx context.Context, logger *slog.Logger, chat int64, text string) {
	if err := d.responder.SendText(ctx, chat, text); err != nil {
		logger.Error("sending reply", "error", err)
	}
}

func (d *Dispatcher) replyMenu(ctx context.Context, logger *slog.Logger, chat int64, text string, rows [][]Button) {
	if err := d.responder.SendMenu(ctx, chat, text, rows); err != nil {
		logger.Error("sending menu", "error", err)
	}
}
