package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
	"github.com/fitrivals/fitrivals-api/internal/platform/resilience"
)

func TestEnqueuePublishesJob(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.fitrivals.app",
		Retries:          3,
		InternalJobToken: "job-secret",
		CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/orchestrate", nil, 90*time.Second, "sweep-week-3")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if captured == nil {
		t.Fatal("expected a publish request")
	}
	wantPath := "/v2/publish/https://api.fitrivals.app/v1/internal/jobs/orchestrate"
	if captured.URL.Path != wantPath {
		t.Fatalf("unexpected publish path: %s", captured.URL.Path)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "90s" {
		t.Fatalf("unexpected delay header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Retries"); got != "3" {
		t.Fatalf("unexpected retries header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "sweep-week-3" {
		t.Fatalf("unexpected deduplication header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-secret" {
		t.Fatalf("unexpected forwarded job token: %s", got)
	}
}

func TestEnqueueRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "https://qstash.upstash.io",
		TargetBaseURL:  "https://api.fitrivals.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatal("expected error for empty job path")
	}
}

func TestEnqueueRejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        "ftp://qstash.local",
		TargetBaseURL:  "https://api.fitrivals.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/orchestrate", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "QSTASH_BASE_URL") {
		t.Fatalf("expected base URL validation error, got %v", err)
	}
}

func TestEnqueueSurfacesPublishFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid destination"}`))
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        srv.URL,
		TargetBaseURL:  "https://api.fitrivals.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/orchestrate", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestEnqueueCircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		TargetBaseURL: "https://api.fitrivals.app",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      15 * time.Second,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		if err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/orchestrate", nil, 0, ""); err == nil {
			t.Fatal("expected publish failure")
		}
	}

	err := publisher.Enqueue(context.Background(), "/v1/internal/jobs/orchestrate", nil, 0, "")
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		delay time.Duration
		want  string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{90 * time.Second, "90s"},
		{2 * time.Minute, "120s"},
		{1500 * time.Millisecond, "2s"},
	}
	for _, tc := range cases {
		if got := normalizeDelay(tc.delay); got != tc.want {
			t.Fatalf("normalizeDelay(%v) = %q, want %q", tc.delay, got, tc.want)
		}
	}
}
