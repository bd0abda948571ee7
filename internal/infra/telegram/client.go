package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voicebot/internal/application"
	"voicebot/internal/domain"
	"voicebot/internal/infra"
)

// Dispatcher consumes the events this adapter produces.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event)
}

// Client adapts the Telegram Bot API: the update loop on the inbound
// side, and the Responder plus MediaIngestor contracts on the outbound
// side.
type Client struct {
	bot        *tgbotapi.BotAPI
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(token string, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	return &Client{
		bot:        bot,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Run receives updates until ctx is cancelled, converting each into one
// event variant and handing it to the dispatcher in arrival order.
func (c *Client) Run(ctx context.Context, dispatcher Dispatcher) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := c.bot.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			ev := c.toEvent(update)
			if ev == nil {
				continue
			}
			dispatcher.Dispatch(ctx, ev)
		}
	}
}

func (c *Client) toEvent(update tgbotapi.Update) domain.Event {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := c.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			c.logger.Warn("acking callback", "error", err)
		}
		if cq.Message == nil {
			return nil
		}
		return domain.ButtonCallback{
			Chat:  cq.Message.Chat.ID,
			User:  domain.UserID(cq.From.ID),
			Token: cq.Data,
		}
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	chat := msg.Chat.ID
	user := domain.UserID(msg.From.ID)

	switch {
	case msg.IsCommand():
		return domain.Command{Chat: chat, User: user, Name: msg.Command()}
	case msg.Voice != nil:
		return domain.VoiceMedia{Chat: chat, User: user, FileID: msg.Voice.FileID, Size: int64(msg.Voice.FileSize)}
	case msg.Audio != nil:
		return domain.VoiceMedia{Chat: chat, User: user, FileID: msg.Audio.FileID, Size: int64(msg.Audio.FileSize)}
	case msg.Text != "":
		return domain.FreeText{Chat: chat, User: user, Text: msg.Text}
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chat int64, text string) error {
	msg := tgbotapi.NewMessage(chat, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

func (c *Client) SendMenu(ctx context.Context, chat int64, text string, rows [][]application.Button) error {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		keyboard = append(keyboard, buttons)
	}

	msg := tgbotapi.NewMessage(chat, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("sending menu: %w", err)
	}
	return nil
}

func (c *Client) SendAudio(ctx context.Context, chat int64, caption, filename string, audio []byte) error {
	msg := tgbotapi.NewAudio(chat, tgbotapi.FileBytes{Name: filename, Bytes: audio})
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("sending audio: %w", err)
	}
	return nil
}

// Download fetches the complete attachment into memory. The result is
// whole or the call fails; nothing partial is returned.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolving file: %w", err)
	}
	link := file.Link(c.bot.Token)

	var data []byte
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("downloading file: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("download error %d (retryable)", resp.StatusCode)
			}
			return fmt.Errorf("download error %d", resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return data, nil
}
