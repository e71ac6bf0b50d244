package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/bot"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/render"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/web"
)

// submit runs form behind a spinner on stderr.
func submit[In, Out any](cmd *cobra.Command, form *forms.Form[In, Out], in In) (*Out, error) {
	var out *Out
	err := render.Spin(cmd.ErrOrStderr(), "Analyzing...", func() error {
		var err error
		out, err = form.Submit(cmd.Context(), in)
		return err
	})
	return out, err
}

func (a *app) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), render.Options{Markdown: true})
}

func (a *app) print(cmd *cobra.Command, text string) {
	fmt.Fprintln(cmd.OutOrStdout(), text)
}

func readUpload(path string) (*structs.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	upload := structs.NewUpload(filepath.Base(path), data)
	return &upload, nil
}

// textCmd builds a command whose arguments are joined into one text input.
func textCmd[Out any](use, short string, form func() *forms.Form[string, Out], show func(*render.Renderer, *Out) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := submit(cmd, form(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), show(render.New(cmd.OutOrStdout(), render.Options{Markdown: true}), resp))
			return nil
		},
	}
}

func (a *app) factCheckCmd() *cobra.Command {
	var imagePath, language string
	var multi bool
	cmd := &cobra.Command{
		Use:   "factcheck [claim]",
		Short: "Fact-check a claim, optionally with an image",
		Example: `  lumina factcheck "The Great Wall of China is visible from space"
  lumina factcheck --image screenshot.png "Caption from the screenshot"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := forms.FactCheckInput{Claim: strings.Join(args, " "), Language: language, MultiClaim: multi}
			if imagePath != "" {
				img, err := readUpload(imagePath)
				if err != nil {
					return err
				}
				in.Image = img
			}
			resp, err := submit(cmd, a.forms.FactCheck(), in)
			if err != nil {
				return err
			}
			a.print(cmd, a.renderer(cmd).FactCheck(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "Image to check along with the claim")
	cmd.Flags().StringVar(&language, "lang", "", "Language for this request (defaults to --language)")
	cmd.Flags().BoolVar(&multi, "multi", false, "Let the backend split the text into separate claims")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [claim, claim, ...]",
		Short: "Fact-check several comma-separated claims at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := submit(cmd, a.forms.Batch(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.print(cmd, a.renderer(cmd).Batch(resp))
			return nil
		},
	}
}

func (a *app) mediaFileCmd(use, short string, form func() *forms.Form[structs.Upload, structs.MediaAuthenticity]) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload := &structs.Upload{}
			if len(args) == 1 {
				var err error
				if upload, err = readUpload(args[0]); err != nil {
					return err
				}
			}
			resp, err := submit(cmd, form(), *upload)
			if err != nil {
				return err
			}
			a.print(cmd, a.renderer(cmd).Media(resp))
			return nil
		},
	}
}

func (a *app) imageCmd() *cobra.Command {
	return a.mediaFileCmd("image [file]", "Check an image for manipulation or AI generation", func() *forms.Form[structs.Upload, structs.MediaAuthenticity] {
		return a.forms.Image()
	})
}

func (a *app) videoCmd() *cobra.Command {
	return a.mediaFileCmd("video [file]", "Check a video for deepfakes or manipulation", func() *forms.Form[structs.Upload, structs.MediaAuthenticity] {
		return a.forms.Video()
	})
}

func (a *app) urlCmd() *cobra.Command {
	var asForm bool
	cmd := &cobra.Command{
		Use:   "url [url]",
		Short: "Check whether a link is safe to visit",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := submit(cmd, a.forms.URLSafety(), forms.URLSafetyInput{URL: strings.Join(args, " "), AsForm: asForm})
			if err != nil {
				return err
			}
			a.print(cmd, a.renderer(cmd).URLSafety(resp))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asForm, "form", false, "Use the form-encoded endpoint")
	return cmd
}

func (a *app) biasCmd() *cobra.Command {
	return textCmd("bias [source]", "Bias radar for a news source",
		func() *forms.Form[string, structs.BiasRadar] { return a.forms.BiasRadar() },
		(*render.Renderer).BiasRadar)
}

func (a *app) mediaCmd() *cobra.Command {
	return textCmd("media [source or url]", "Media bias rating or neutral summary",
		func() *forms.Form[string, structs.MediaAnalysis] { return a.forms.MediaAnalysis() },
		(*render.Renderer).MediaAnalysis)
}

func (a *app) neutralCmd() *cobra.Command {
	return textCmd("neutral [url or text]", "Neutral rewrite of a news article",
		func() *forms.Form[string, structs.NeutralNews] { return a.forms.NeutralNews() },
		(*render.Renderer).NeutralNews)
}

func (a *app) socialCmd() *cobra.Command {
	return textCmd("social [post url]", "Context and fact-check for a social media post",
		func() *forms.Form[string, structs.SocialMediaContext] { return a.forms.SocialContext() },
		(*render.Renderer).SocialContext)
}

func (a *app) searchCmd() *cobra.Command {
	return textCmd("search [query]", "Search fact-checked sources",
		func() *forms.Form[string, structs.SearchResponse] { return a.forms.Search() },
		(*render.Renderer).Search)
}

var historyKinds = []consts.HistoryKind{consts.HistoryURLs, consts.HistorySources, consts.HistorySearch}

func (a *app) historyCmd() *cobra.Command {
	var clearAll bool
	var limit int
	cmd := &cobra.Command{
		Use:       "history [urls|sources|search]",
		Short:     "Show or clear recently checked links, sources and searches",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(consts.HistoryURLs), string(consts.HistorySources), string(consts.HistorySearch)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := historyKinds
			if len(args) == 1 {
				kinds = []consts.HistoryKind{consts.HistoryKind(args[0])}
			}
			store := a.forms.History()
			r := a.renderer(cmd)
			var out []string
			for _, kind := range kinds {
				if clearAll {
					if err := store.Clear(cmd.Context(), kind); err != nil {
						return fmt.Errorf("failed to clear %s history: %w", kind, err)
					}
					out = append(out, fmt.Sprintf("Cleared %s history.", kind))
					continue
				}
				values, err := store.Recent(cmd.Context(), kind, limit)
				if err != nil {
					return fmt.Errorf("failed to load %s history: %w", kind, err)
				}
				out = append(out, r.History(kind, values))
			}
			a.print(cmd, strings.Join(out, "\n\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Clear instead of listing")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries (0 = all)")
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend %s is unhealthy: %w", a.client.BaseURL(), err)
			}
			a.print(cmd, a.renderer(cmd).Health(h, a.client.BaseURL()))
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var listen string
	var withBot bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface, and optionally the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.Listen = listen
			}
			srv, err := web.New(a.forms, a.client, a.logger)
			if err != nil {
				return fmt.Errorf("failed to load pages: %w", err)
			}

			// The bot is built first so a bad token fails before the server starts.
			var b *bot.Bot
			if withBot {
				if b, err = newBot(a); err != nil {
					return err
				}
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.Run(ctx, a.cfg.Listen)
			})
			if b != nil {
				g.Go(func() error {
					return b.Start(ctx)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", consts.DefaultListenAddr, "Address for the web server")
	cmd.Flags().BoolVar(&withBot, "bot", false, "Also run the Telegram bot")
	return cmd
}

func newBot(a *app) (*bot.Bot, error) {
	b, err := bot.New(a.cfg.BotConfig(), a.forms, a.logger)
	if errors.Is(err, bot.ErrNoToken) {
		return nil, fmt.Errorf("%w: set it in the environment or in telegram_bot_token", err)
	}
	return b, err
}

func (a *app) botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBot(a)
			if err != nil {
				return err
			}
			err = b.Start(cmd.Context())
			a.logger.Info("Bot stopped")
			return err
		},
	}
}
