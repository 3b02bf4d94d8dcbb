package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfarr/internal/config"
	"shelfarr/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyScanCompleted(context.Background(), "Example Author", 3, 2); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "scan completed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyScanCompleted(context.Background(), "Jonathan Moeller", 4, 2)
			},
			expectTitle:   "Shelfarr - Scan Complete",
			expectMessage: "Scan complete for Jonathan Moeller: 4 new books, 2 matched",
			expectTags:    "shelfarr,scan,completed",
		},
		{
			name: "review needed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyReviewNeeded(context.Background(), "Martha Wells", 3)
			},
			expectTitle:    "Shelfarr - Review Needed",
			expectMessage:  "3 audiobooks for Martha Wells need manual review",
			expectTags:     "shelfarr,review",
			expectPriority: "high",
		},
		{
			name: "duplicates found",
			notify: func(svc notifications.Service) error {
				return svc.NotifyDuplicatesFound(context.Background(), 2)
			},
			expectTitle:   "Shelfarr - Duplicate Authors",
			expectMessage: "2 possible duplicate author pairs found",
			expectTags:    "shelfarr,dupes",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("provider down"), "scan")
			},
			expectTitle:    "Shelfarr - Error",
			expectMessage:  "Error with scan: provider down",
			expectTags:     "shelfarr,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
