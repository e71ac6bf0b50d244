package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/api"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/history"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	actions int
	fileURL string
}

func (f *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeMessenger) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeMessenger) GetFileDirectURL(fileID string) (string, error) {
	return f.fileURL + "/" + fileID, nil
}

func (f *fakeMessenger) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.sent...)
}

func (f *fakeMessenger) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

type backendCalls struct {
	mu    sync.Mutex
	paths map[string]int
	forms map[string]map[string]string
}

func (c *backendCalls) count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paths[path]
}

func (c *backendCalls) form(path string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forms[path]
}

func newTestBot(t *testing.T, cfg Config) (*Bot, *fakeMessenger, *backendCalls) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	calls := &backendCalls{paths: map[string]int{}, forms: map[string]map[string]string{}}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := map[string]string{}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") && r.ParseMultipartForm(1<<20) == nil {
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
			for k := range r.MultipartForm.File {
				fields[k] = "<file>"
			}
		}
		calls.mu.Lock()
		calls.paths[r.URL.Path]++
		calls.forms[r.URL.Path] = fields
		calls.mu.Unlock()

		var reply map[string]any
		switch r.URL.Path {
		case "/api/fact-check":
			reply = map[string]any{"status": "success", "analysis": "- **Verdict**: False\n- **Explanation**: Not so."}
		case "/api/image-authenticity":
			reply = map[string]any{"status": "success", "verdict": "LIKELY_AUTHENTIC", "confidence_score": 90}
		default:
			reply = map[string]any{"status": "success", "verdict": "SAFE", "analysis": "fine"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(backend.Close)

	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngBytes)
	}))
	t.Cleanup(files.Close)

	client := api.New(api.Options{BaseURL: backend.URL, Logger: logger})
	set := forms.NewSet(client, history.NewMemoryStore(10), forms.DefaultLimits(), "en", logger)
	fm := &fakeMessenger{fileURL: files.URL}
	return newBot(fm, set, cfg, logger), fm, calls
}

func commandMessage(chatID int64, text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func photoMessage(chatID int64, caption string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 8,
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		Caption:   caption,
		Photo:     []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()
	b, fm, _ := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/start"))
	reply := fm.last(t)
	assert.Equal(t, int64(1), reply.ChatID)
	assert.Equal(t, 7, reply.ReplyToMessageID)
	for _, name := range commandOrder {
		assert.Contains(t, reply.Text, "/"+name)
	}
}

func TestFactCheckCommand(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/factcheck the moon is cheese"))
	reply := fm.last(t)
	assert.Contains(t, reply.Text, "[FALSE]")
	assert.Contains(t, reply.Text, "Not so.")
	assert.Equal(t, "the moon is cheese", calls.form("/api/fact-check")["claim"])
	assert.Equal(t, "en", calls.form("/api/fact-check")["preferred_language"])
}

func TestEmptyArgumentNeverCallsBackend(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/factcheck"))
	assert.Equal(t, "Please enter a claim to fact-check", fm.last(t).Text)

	b.handleMessage(context.Background(), commandMessage(1, "/batch a, b, c, d, e, f"))
	assert.Equal(t, "Maximum 5 claims allowed per batch", fm.last(t).Text)

	assert.Zero(t, calls.count("/api/fact-check"))
	assert.Zero(t, calls.count("/api/batch-fact-check"))
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	b, fm, _ := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/frobnicate"))
	assert.Contains(t, fm.last(t).Text, "Unknown command")
}

func TestURLThenRecent(t *testing.T) {
	t.Parallel()
	b, fm, _ := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/url example.com"))
	assert.Contains(t, fm.last(t).Text, "[SAFE]")

	b.handleMessage(context.Background(), commandMessage(1, "/recent"))
	assert.Contains(t, fm.last(t).Text, "https://example.com")
}

func TestPhotoWithCaptionIsFactChecked(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), photoMessage(1, "/factcheck is this real"))
	assert.Contains(t, fm.last(t).Text, "[FALSE]")

	sent := calls.form("/api/fact-check")
	assert.Equal(t, "is this real", sent["claim"])
	assert.Equal(t, "<file>", sent["image"])
}

func TestImageCommandWaitsForPhoto(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/image"))
	assert.Equal(t, "Send the image you want to analyze.", fm.last(t).Text)
	assert.Zero(t, calls.count("/api/image-authenticity"))

	// The caption is ignored once the chat asked for an image check.
	b.handleMessage(context.Background(), photoMessage(1, "some caption"))
	assert.Contains(t, fm.last(t).Text, "[LIKELY AUTHENTIC]")
	assert.Equal(t, 1, calls.count("/api/image-authenticity"))
	assert.Zero(t, calls.count("/api/fact-check"))
}

func TestVideoCommandRejectsPhoto(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/video"))
	b.handleMessage(context.Background(), photoMessage(1, ""))
	assert.Equal(t, "Expected a video, please send one or repeat the command.", fm.last(t).Text)
	assert.Zero(t, calls.count("/api/video-authenticity"))
}

func TestBusyChat(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	require.True(t, b.tryAcquire(1))
	b.handleMessage(context.Background(), commandMessage(1, "/search vaccines"))
	assert.Equal(t, busyMessage, fm.last(t).Text)
	assert.Zero(t, calls.count("/api/search"))

	b.release(1)
	b.handleMessage(context.Background(), commandMessage(1, "/search vaccines"))
	assert.Equal(t, 1, calls.count("/api/search"))
}

func TestAllowedChats(t *testing.T) {
	t.Parallel()
	b, fm, _ := newTestBot(t, Config{AllowedChats: []int64{5}})

	b.handleMessage(context.Background(), commandMessage(1, "/help"))
	assert.Empty(t, fm.messages())

	b.handleMessage(context.Background(), commandMessage(5, "/help"))
	assert.Len(t, fm.messages(), 1)
}

func TestGroupTextIsIgnored(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: -100, Type: "supergroup"},
		Text:      "just chatting",
	})
	assert.Empty(t, fm.messages())

	b.handleMessage(context.Background(), &tgbotapi.Message{
		MessageID: 2,
		Chat:      &tgbotapi.Chat{ID: 3, Type: "private"},
		Text:      "the moon is cheese",
	})
	assert.Contains(t, fm.last(t).Text, "[FALSE]")
	assert.Equal(t, 1, calls.count("/api/fact-check"))
}

func TestGroupMediaNeedsAsking(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})
	groupPhoto := func(caption string) *tgbotapi.Message {
		msg := photoMessage(-100, caption)
		msg.Chat = &tgbotapi.Chat{ID: -100, Type: "supergroup"}
		return msg
	}

	b.handleMessage(context.Background(), groupPhoto(""))
	b.handleMessage(context.Background(), groupPhoto("look at this"))
	assert.Empty(t, fm.messages())
	assert.Zero(t, calls.count("/api/image-authenticity"))
	assert.Zero(t, calls.count("/api/fact-check"))

	b.handleMessage(context.Background(), groupPhoto("/factcheck is this real"))
	assert.Contains(t, fm.last(t).Text, "[FALSE]")
	assert.Equal(t, 1, calls.count("/api/fact-check"))

	imageCmd := commandMessage(-100, "/image")
	imageCmd.Chat = &tgbotapi.Chat{ID: -100, Type: "supergroup"}
	b.handleMessage(context.Background(), imageCmd)
	b.handleMessage(context.Background(), groupPhoto(""))
	assert.Contains(t, fm.last(t).Text, "[LIKELY AUTHENTIC]")
	assert.Equal(t, 1, calls.count("/api/image-authenticity"))
}

func TestCancelDropsPendingMedia(t *testing.T) {
	t.Parallel()
	b, fm, calls := newTestBot(t, Config{})

	b.handleMessage(context.Background(), commandMessage(1, "/cancel"))
	assert.Equal(t, "Nothing to cancel.", fm.last(t).Text)

	b.handleMessage(context.Background(), commandMessage(1, "/video"))
	b.handleMessage(context.Background(), commandMessage(1, "/cancel"))
	assert.Equal(t, "Cancelled.", fm.last(t).Text)

	// With nothing pending, a private photo is an image check again.
	b.handleMessage(context.Background(), photoMessage(1, ""))
	assert.Contains(t, fm.last(t).Text, "[LIKELY AUTHENTIC]")
	assert.Zero(t, calls.count("/api/video-authenticity"))
}

func TestLogChatGetsCopy(t *testing.T) {
	t.Parallel()
	b, fm, _ := newTestBot(t, Config{LogChat: 99})

	b.handleMessage(context.Background(), commandMessage(1, "/factcheck x"))
	msgs := fm.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(99), msgs[1].ChatID)
	assert.True(t, strings.HasPrefix(msgs[1].Text, "Chat 1 /factcheck\n"))
}

func TestStripCommand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "claim text", stripCommand("/factcheck claim text"))
	assert.Equal(t, "", stripCommand("/factcheck"))
	assert.Equal(t, "plain", stripCommand("  plain "))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	short := "hello"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("é", maxMessageLength+10)
	out := truncate(long)
	assert.Len(t, []rune(out), maxMessageLength)
	assert.True(t, strings.HasSuffix(out, "…"))
}
