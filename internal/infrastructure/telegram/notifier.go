package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"SalesScanner/internal/ports"
)

const (
	defaultAPIURL = "https://api.telegram.org"
	// Telegram rejects longer message texts.
	maxMessageRunes = 4096
)

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	apiURL   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// Option customises a Notifier.
type Option func(*Notifier)

// WithAPIURL points the notifier at another Bot API host.
func WithAPIURL(u string) Option {
	return func(n *Notifier) {
		if u != "" {
			n.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) {
		if c != nil {
			n.client = c
		}
	}
}

// WithLimiter replaces the per-chat pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(n *Notifier) {
		if l != nil {
			n.limiter = l
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// NewNotifier registers bot token and chat identifier. Messages to one chat
// are paced at one per second.
func NewNotifier(botToken, chatID string, opts ...Option) *Notifier {
	n := &Notifier{
		botToken: botToken,
		chatID:   chatID,
		apiURL:   defaultAPIURL,
		client:   &http.Client{Timeout: 5 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// PublishDigest posts the digest, split into as many messages as needed.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	chunks := splitMessage(digest, maxMessageRunes)
	for i, chunk := range chunks {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for rate limit: %w", err)
		}
		if err := n.send(ctx, chunk); err != nil {
			return fmt.Errorf("message %d/%d: %w", i+1, len(chunks), err)
		}
	}
	if n.logger != nil {
		n.logger.Info("digest published", "messages", len(chunks))
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// splitMessage cuts text on line boundaries so no chunk exceeds limit runes.
// A single line longer than limit is cut hard.
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if len(current)+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
