package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/render"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
)

type mediaKind string

const (
	mediaImage mediaKind = "image"
	mediaVideo mediaKind = "video"
)

type fileRef struct {
	id   string
	name string
	kind mediaKind
}

// request is one routed message: either an immediate reply or a command to
// run against the backend.
type request struct {
	command   string
	arg       string
	file      *fileRef
	immediate string
}

type command struct {
	usage string
	run   func(ctx context.Context, b *Bot, r *render.Renderer, arg string, media *structs.Upload) (string, error)
}

var commands = map[string]command{
	"factcheck": {"/factcheck <claim> - fact-check a claim (attach a photo to include it)", runFactCheck},
	"batch":     {"/batch <claim, claim, ...> - fact-check up to five claims", runBatch},
	"url":       {"/url <url> - check whether a link is safe", runURL},
	"bias":      {"/bias <source> - bias radar for a news source", runBias},
	"media":     {"/media <source or url> - media bias or neutral summary", runMedia},
	"neutral":   {"/neutral <url or text> - neutral rewrite of an article", runNeutral},
	"social":    {"/social <post url> - context for a social media post", runSocial},
	"search":    {"/search <query> - search fact-checked sources", runSearch},
	"recent":    {"/recent - recently checked links", runRecent},
	"image":     {"/image - analyze the next photo you send", runImage},
	"video":     {"/video - analyze the next video you send", runVideo},
}

var commandOrder = []string{"factcheck", "batch", "url", "bias", "media", "neutral", "social", "search", "recent", "image", "video"}

func helpText() string {
	var b strings.Builder
	b.WriteString("LUMINA checks claims, media and sources for misinformation.\n")
	for _, name := range commandOrder {
		b.WriteString("\n" + commands[name].usage)
	}
	b.WriteString("\n/cancel - stop waiting for a photo or video")
	b.WriteString("\n\nYou can also send a photo with a caption to fact-check both together.")
	return b.String()
}

// route decides what a message asks for. ok is false when the message should
// be ignored.
func (b *Bot) route(msg *tgbotapi.Message) (req request, ok bool) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		name := strings.ToLower(msg.Command())
		switch name {
		case "start", "help":
			return request{immediate: helpText()}, true
		case "image", "video":
			b.pending.Put(chatID, mediaKind(name))
			b.logger.Debug("Waiting for media", "chatID", chatID, "kind", name, "pending", b.pending.Len())
			return request{immediate: fmt.Sprintf("Send the %s you want to analyze.", name)}, true
		case "cancel":
			if !b.pending.Contains(chatID) {
				return request{immediate: "Nothing to cancel."}, true
			}
			b.pending.Delete(chatID)
			return request{immediate: "Cancelled."}, true
		}
		if _, known := commands[name]; !known {
			return request{immediate: "Unknown command. Send /help for the list."}, true
		}
		return request{command: name, arg: msg.CommandArguments()}, true
	}

	if ref := mediaOf(msg); ref != nil {
		wanted, hasPending := b.pending.Take(chatID)
		caption := stripCommand(msg.Caption)
		asked := hasPending || msg.Chat.IsPrivate() || strings.HasPrefix(strings.TrimSpace(msg.Caption), "/")
		switch {
		case hasPending && wanted != ref.kind:
			return request{immediate: fmt.Sprintf("Expected a %s, please send one or repeat the command.", wanted)}, true
		case !asked:
			// Group members share media all the time; only act when asked.
			return request{}, false
		case ref.kind == mediaImage && !hasPending && caption != "":
			return request{command: "factcheck", arg: caption, file: ref}, true
		}
		return request{command: string(ref.kind), file: ref}, true
	}

	// Plain text is treated as a claim in private chats only, so group chatter
	// does not trigger requests.
	if msg.Chat.IsPrivate() && strings.TrimSpace(msg.Text) != "" {
		return request{command: "factcheck", arg: msg.Text}, true
	}
	return request{}, false
}

func mediaOf(msg *tgbotapi.Message) *fileRef {
	if n := len(msg.Photo); n > 0 {
		// Sizes are ordered smallest first.
		return &fileRef{id: msg.Photo[n-1].FileID, name: "photo.jpg", kind: mediaImage}
	}
	if msg.Video != nil {
		name := msg.Video.FileName
		if name == "" {
			name = "video.mp4"
		}
		return &fileRef{id: msg.Video.FileID, name: name, kind: mediaVideo}
	}
	return nil
}

// stripCommand drops a leading "/factcheck" (or any command) from a caption.
func stripCommand(caption string) string {
	caption = strings.TrimSpace(caption)
	if !strings.HasPrefix(caption, "/") {
		return caption
	}
	if i := strings.IndexAny(caption, " \n"); i >= 0 {
		return strings.TrimSpace(caption[i:])
	}
	return ""
}

func runFactCheck(ctx context.Context, b *Bot, r *render.Renderer, arg string, media *structs.Upload) (string, error) {
	resp, err := b.forms.FactCheck().Submit(ctx, forms.FactCheckInput{Claim: arg, Image: media, Language: b.config.Language})
	if err != nil {
		return "", err
	}
	return r.FactCheck(resp), nil
}

func runBatch(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.Batch().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.Batch(resp), nil
}

func runURL(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.URLSafety().Submit(ctx, forms.URLSafetyInput{URL: arg})
	if err != nil {
		return "", err
	}
	return r.URLSafety(resp), nil
}

func runBias(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.BiasRadar().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.BiasRadar(resp), nil
}

func runMedia(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.MediaAnalysis().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.MediaAnalysis(resp), nil
}

func runNeutral(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.NeutralNews().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.NeutralNews(resp), nil
}

func runSocial(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.SocialContext().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.SocialContext(resp), nil
}

func runSearch(ctx context.Context, b *Bot, r *render.Renderer, arg string, _ *structs.Upload) (string, error) {
	resp, err := b.forms.Search().Submit(ctx, arg)
	if err != nil {
		return "", err
	}
	return r.Search(resp), nil
}

func runRecent(ctx context.Context, b *Bot, r *render.Renderer, _ string, _ *structs.Upload) (string, error) {
	values, err := b.forms.History().Recent(ctx, consts.HistoryURLs, 0)
	if err != nil {
		return "", fmt.Errorf("error loading history: %w", err)
	}
	return r.History(consts.HistoryURLs, values), nil
}

func runImage(ctx context.Context, b *Bot, r *render.Renderer, _ string, media *structs.Upload) (string, error) {
	if media == nil {
		media = &structs.Upload{}
	}
	resp, err := b.forms.Image().Submit(ctx, *media)
	if err != nil {
		return "", err
	}
	return r.Media(resp), nil
}

func runVideo(ctx context.Context, b *Bot, r *render.Renderer, _ string, media *structs.Upload) (string, error) {
	if media == nil {
		media = &structs.Upload{}
	}
	resp, err := b.forms.Video().Submit(ctx, *media)
	if err != nil {
		return "", err
	}
	return r.Media(resp), nil
}
