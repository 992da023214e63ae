// Package telegram drives a session from a private chat with the owner.
package telegram

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	inboxSize          = 16
	typingInterval     = 4 * time.Second
	defaultPollTimeout = 10 * time.Second
)

var noticePrefix = map[core.NoticeLevel]string{
	core.NoticeInfo:    "",
	core.NoticeSuccess: "✅ ",
	core.NoticeWarn:    "⚠️ ",
	core.NoticeError:   "❌ ",
}

// Console relays the owner's messages to the session and its output back.
// Messages from anyone else are ignored.
type Console struct {
	bot     *tele.Bot
	sender  *sender
	ownerID int64

	inbox     chan string
	started   atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// Option adjusts the bot settings before it is created.
type Option func(*tele.Settings)

// WithAPIURL points the bot at a different Bot API server.
func WithAPIURL(url string) Option {
	return func(s *tele.Settings) { s.URL = url }
}

// WithOffline skips the initial getMe call.
func WithOffline() Option {
	return func(s *tele.Settings) { s.Offline = true }
}

func NewConsole(ctx context.Context, cfg *config.TelegramConfig, opts ...Option) (*Console, error) {
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	pref := tele.Settings{
		Token:  cfg.Token,
		URL:    cfg.APIURL,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}
	for _, opt := range opts {
		opt(&pref)
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	c := &Console{
		bot:     b,
		sender:  newSender(b, tele.ChatID(cfg.OwnerID)),
		ownerID: cfg.OwnerID,
		inbox:   make(chan string, inboxSize),
		done:    make(chan struct{}),
	}

	b.Use(c.ownerOnly)
	b.Handle(tele.OnText, c.handleText)

	return c, nil
}

// Start polls for updates until Shutdown.
func (c *Console) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Int64("owner", c.ownerID).Msg("starting telegram bot")
	c.started.Store(true)
	c.bot.Start()
	return nil
}

func (c *Console) Shutdown(ctx context.Context) error {
	c.closeOnce.Do(func() {
		close(c.done)
		// Stop blocks until the poller loop acknowledges it.
		if c.started.Load() {
			c.bot.Stop()
		}
	})
	return nil
}

func (c *Console) ownerOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(tc tele.Context) error {
		if tc.Sender() == nil || tc.Sender().ID != c.ownerID {
			return nil
		}
		return next(tc)
	}
}

func (c *Console) handleText(tc tele.Context) error {
	select {
	case c.inbox <- tc.Text():
		return nil
	case <-c.done:
		return nil
	default:
		return tc.Send("Still busy with the previous message, try again in a moment.")
	}
}

// Prompt waits for the next message from the owner. It returns io.EOF once
// the console is shut down.
func (c *Console) Prompt(ctx context.Context) (string, error) {
	select {
	case text := <-c.inbox:
		return text, nil
	case <-c.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	if err := c.sender.sendMarkdown(ctx, question+" (yes/no)", false); err != nil {
		return false, err
	}

	answer, err := c.Prompt(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) Render(ctx context.Context, msgs []core.Message) {
	for _, msg := range msgs {
		if msg.Role != core.RoleAssistant {
			continue
		}
		if err := c.sender.sendMarkdown(ctx, msg.Content, false); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to send reply")
		}
	}
}

func (c *Console) Notify(ctx context.Context, level core.NoticeLevel, text string) {
	if err := c.sender.sendMarkdown(ctx, noticePrefix[level]+text, level == core.NoticeInfo); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to send notice")
	}
}

// Busy keeps the typing indicator on until stop is called.
func (c *Console) Busy(ctx context.Context, label string) func() {
	stopCh := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()

		for {
			c.sender.typing(ctx)
			select {
			case <-ticker.C:
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-finished
		})
	}
}

var _ core.Console = (*Console)(nil)
