// Package bot runs LUMINA as a Telegram bot: each command maps to one of the
// analysis forms and the rendered result is sent back as plain text.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/cache"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/render"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/validate"
)

const (
	// maxMessageLength is Telegram's limit for one text message.
	maxMessageLength = 4096
	pendingCapacity  = 1000
	replyWidth       = 60
)

const busyMessage = "Still working on your previous request, please wait."

// ErrNoToken is returned by New when no bot token is configured.
var ErrNoToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

type Config struct {
	Token string
	// AllowedChats restricts the bot to these chats when non-empty.
	AllowedChats []int64
	// LogChat receives a copy of every reply when non-zero.
	LogChat  int64
	Language string
}

// messenger is the part of the Telegram API the bot uses.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	sender messenger
	forms  *forms.Set
	logger *slog.Logger
	config Config

	allowed map[int64]bool
	// pending holds the upload a chat asked for with /image or /video.
	pending *cache.LRUCache[int64, mediaKind]

	busyMu sync.Mutex
	busy   map[int64]bool

	files    *http.Client
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

func New(cfg Config, set *forms.Set, logger *slog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, ErrNoToken
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	b := newBot(api, set, cfg, logger)
	b.api = api
	return b, nil
}

func newBot(sender messenger, set *forms.Set, cfg Config, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[int64]bool)
	for _, id := range cfg.AllowedChats {
		allowed[id] = true
	}

	return &Bot{
		sender:   sender,
		forms:    set,
		logger:   logger,
		config:   cfg,
		allowed:  allowed,
		pending:  cache.NewLRUCache[int64, mediaKind](pendingCapacity),
		busy:     make(map[int64]bool),
		files:    &http.Client{Timeout: 2 * time.Minute},
		stopChan: make(chan struct{}),
	}
}

// Start long-polls for updates until ctx is cancelled or Stop is called.
// Each message is handled on its own goroutine; Start returns once they have
// all finished.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot is not connected")
	}
	b.logger.Info("Authorized on account", "username", b.api.Self.UserName)
	b.logger.Info("Starting bot", "allowedChats", b.config.AllowedChats, "logChat", b.config.LogChat)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.stopChan:
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if update.Message.From != nil && update.Message.From.ID == b.api.Self.ID {
				continue
			}
			msg := update.Message
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}()
		}
	}
}

func (b *Bot) Stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
}

// tryAcquire marks chatID busy, reporting false if it already was.
func (b *Bot) tryAcquire(chatID int64) bool {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	if b.busy[chatID] {
		return false
	}
	b.busy[chatID] = true
	return true
}

func (b *Bot) release(chatID int64) {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	delete(b.busy, chatID)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if len(b.allowed) > 0 && !b.allowed[chatID] {
		b.logger.Debug("Skipping message from chat not in allow list", "chatID", chatID)
		return
	}

	req, ok := b.route(msg)
	if !ok {
		return
	}
	if req.immediate != "" {
		b.reply(msg, req.immediate)
		return
	}

	if !b.tryAcquire(chatID) {
		b.reply(msg, busyMessage)
		return
	}
	defer b.release(chatID)

	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("Failed to send chat action", "chatID", chatID, "error", err)
	}

	text, err := b.run(ctx, req)
	if err != nil {
		b.logger.Warn("Request failed", "chatID", chatID, "command", req.command, "error", err)
		text = errorReply(err)
	} else {
		b.logger.Info("Request finished", "chatID", chatID, "command", req.command)
	}
	b.reply(msg, text)
	b.copyToLog(chatID, req.command, text)
}

func errorReply(err error) string {
	switch {
	case errors.Is(err, validate.ErrValidation):
		return err.Error()
	case errors.Is(err, forms.ErrBusy):
		return busyMessage
	}
	return "Error: " + err.Error()
}

func (b *Bot) run(ctx context.Context, req request) (string, error) {
	r := render.New(io.Discard, render.Options{Width: replyWidth})

	var media *structs.Upload
	if req.file != nil {
		upload, err := b.download(ctx, *req.file)
		if err != nil {
			return "", err
		}
		media = upload
	}

	cmd, ok := commands[req.command]
	if !ok {
		return "", fmt.Errorf("unknown command: %s", req.command)
	}
	return cmd.run(ctx, b, r, req.arg, media)
}

// download fetches a Telegram file into an upload.
func (b *Bot) download(ctx context.Context, f fileRef) (*structs.Upload, error) {
	link, err := b.sender.GetFileDirectURL(f.id)
	if err != nil {
		return nil, fmt.Errorf("error resolving file: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := b.files.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error downloading file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading file: status %d", resp.StatusCode)
	}

	// One byte over the ceiling is enough for validation to reject it.
	limit := b.forms.Limits().MaxVideoBytes
	if f.kind == mediaImage {
		limit = b.forms.Limits().MaxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	upload := structs.NewUpload(f.name, data)
	return &upload, nil
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, truncate(text))
	out.ReplyToMessageID = msg.MessageID
	out.DisableWebPagePreview = true
	b.send(out)
}

func (b *Bot) copyToLog(chatID int64, command, text string) {
	if b.config.LogChat == 0 || b.config.LogChat == chatID {
		return
	}
	b.send(tgbotapi.NewMessage(b.config.LogChat, truncate(fmt.Sprintf("Chat %d /%s\n%s", chatID, command, text))))
}

func (b *Bot) send(out tgbotapi.MessageConfig) {
	err := retry.Do(
		func() error {
			_, err := b.sender.Send(out)
			return err
		},
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			b.logger.Warn("Send failed, retrying", "chatID", out.ChatID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		b.logger.Error("Failed to send message", "chatID", out.ChatID, "error", err)
	}
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return strings.TrimRight(string(runes[:maxMessageLength-1]), " \n") + "…"
}
