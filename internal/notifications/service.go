package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfarr/internal/config"
)

const userAgent = "shelfarr/0.1.0"

// Service defines the notification surface exposed to scan workflows.
type Service interface {
	NotifyScanCompleted(ctx context.Context, authorName string, newBooks, accepted int) error
	NotifyReviewNeeded(ctx context.Context, authorName string, review int) error
	NotifyDuplicatesFound(ctx context.Context, pairs int) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyScanCompleted(ctx context.Context, authorName string, newBooks, accepted int) error {
	authorName = strings.TrimSpace(authorName)
	data := payload{
		title:   "Shelfarr - Scan Complete",
		message: fmt.Sprintf("Scan complete for %s: %d new books, %d matched", authorName, newBooks, accepted),
		tags:    []string{"shelfarr", "scan", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReviewNeeded(ctx context.Context, authorName string, review int) error {
	authorName = strings.TrimSpace(authorName)
	data := payload{
		title:    "Shelfarr - Review Needed",
		message:  fmt.Sprintf("%d audiobooks for %s need manual review", review, authorName),
		tags:     []string{"shelfarr", "review"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDuplicatesFound(ctx context.Context, pairs int) error {
	data := payload{
		title:   "Shelfarr - Duplicate Authors",
		message: fmt.Sprintf("%d possible duplicate author pairs found", pairs),
		tags:    []string{"shelfarr", "dupes"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Shelfarr - Error",
		message:  builder.String(),
		tags:     []string{"shelfarr", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Shelfarr - Test",
		message:  "Notification system test",
		tags:     []string{"shelfarr", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyScanCompleted(context.Context, string, int, int) error { return nil }
func (noopService) NotifyReviewNeeded(context.Context, string, int) error       { return nil }
func (noopService) NotifyDuplicatesFound(context.Context, int) error            { return nil }
func (noopService) NotifyError(context.Context, error, string) error            { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
