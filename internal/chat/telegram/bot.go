package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mind-engage/lecture-quiz/internal/chat"
)


// Bot adapts the Telegram Bot API to chat.Messenger and chat.Files and
// feeds long-polled updates to a handler.
type Bot struct {
	api *tgbotapi.BotAPI
}

func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Bot{api: api}, nil
}

// NewWithEndpoint points the client at a Bot API compatible server
// (format "http://host/bot%s/%s").
func NewWithEndpoint(token, endpoint string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Bot{api: api}, nil
}

func (b *Bot) Username() string { return b.api.Self.UserName }

func (b *Bot) SendText(_ context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendConfirm(_ context.Context, chatID int64, text, button string) error {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(button)))
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	_, err := b.api.Send(msg)
	return err
}

// SendLink falls back to plain text when Telegram rejects the button URL
// (it refuses localhost links, for example).
func (b *Bot) SendLink(ctx context.Context, chatID int64, text, label, url string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(label, url)),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("[WARN] telegram: inline link rejected for chat %d: %v", chatID, err)
		return b.SendText(ctx, chatID, text)
	}
	return nil
}

func (b *Bot) Download(ctx context.Context, fileID string) ([]byte, error) {
	link, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("telegram: file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram: download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, chat.MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("telegram: download: %w", err)
	}
	if len(data) > chat.MaxDocumentBytes {
		return nil, fmt.Errorf("telegram: download: file exceeds %d bytes", chat.MaxDocumentBytes)
	}
	return data, nil
}

// Run polls for updates until ctx is done, handling each message on its own
// goroutine. It waits for in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context, handle func(context.Context, chat.Event)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := toEvent(upd.Message)
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if p := recover(); p != nil {
						log.Printf("[ERROR] telegram: handler panic for chat %d: %v\n%s", ev.ChatID, p, debug.Stack())
					}
				}()
				handle(ctx, ev)
			}()
		}
	}
}

func toEvent(m *tgbotapi.Message) (chat.Event, bool) {
	if m == nil || m.Chat == nil {
		return chat.Event{}, false
	}
	ev := chat.Event{ChatID: m.Chat.ID, Text: m.Text}
	if m.From != nil {
		ev.UserName = m.From.FirstName
	}
	if m.IsCommand() {
		ev.Command = m.Command()
	}
	if m.Document != nil {
		ev.Document = &chat.Document{
			FileID:   m.Document.FileID,
			FileName: m.Document.FileName,
			MimeType: m.Document.MimeType,
			FileSize: m.Document.FileSize,
		}
	}
	return ev, true
}
