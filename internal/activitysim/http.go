package activitysim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/alumni/pkg/logger"
)

// HTTPClient wraps http.Client for the portal API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}, baseURL: baseURL}
}

// getJSON fetches path and decodes a 200 response into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

// postJSON posts body to path and returns the status code and response body.
func (c *HTTPClient) postJSON(ctx context.Context, path string, body any) (int, []byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	data, err := readResponseBody(resp)
	return resp.StatusCode, data, err
}

func (c *HTTPClient) close() {
	c.client.CloseIdleConnections()
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

type submitResult int

const (
	resultAccepted submitResult = iota
	resultDuplicate
	resultFailed
)

// submission tallies the outcome of a submission run.
type submission struct {
	accepted      int64
	duplicates    int64
	backpressured int64
	failed        int64

	mu      sync.Mutex
	applied map[string]Activity // accepted event ids
}

func (s *submission) markAccepted(a Activity) {
	s.mu.Lock()
	s.applied[a.EventID] = a
	s.mu.Unlock()
}

// submitActivities posts activities with a pool of workers. A 429 is retried
// with exponential backoff; the event id is not recorded by the server so the
// retry is not a duplicate.
func submitActivities(ctx context.Context, client *HTTPClient, workers int, activities []Activity) *submission {
	log := logger.Get()
	log.Info(ctx, "submitting activities", logger.Int("count", len(activities)), logger.Int("workers", workers))

	sub := &submission{applied: make(map[string]Activity, len(activities))}
	ch := make(chan Activity, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range ch {
				switch submitOne(ctx, client, sub, a) {
				case resultAccepted:
					atomic.AddInt64(&sub.accepted, 1)
					sub.markAccepted(a)
				case resultDuplicate:
					atomic.AddInt64(&sub.duplicates, 1)
				case resultFailed:
					atomic.AddInt64(&sub.failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, a := range activities {
			select {
			case <-ctx.Done():
				return
			case ch <- a:
			}
		}
	}()

	wg.Wait()
	log.Info(ctx, "activity submission completed",
		logger.Int("accepted", int(sub.accepted)),
		logger.Int("duplicates", int(sub.duplicates)),
		logger.Int("backpressured", int(sub.backpressured)),
		logger.Int("failed", int(sub.failed)))
	return sub
}

func submitOne(ctx context.Context, client *HTTPClient, sub *submission, a Activity) submitResult {
	backoff := initialBackoff
	for attempt := 0; ; attempt++ {
		status, body, err := client.postJSON(ctx, "/activities", a)
		if err != nil {
			logger.Get().Debug(ctx, "activity submission failed", logger.String("event_id", a.EventID), logger.Error(err))
			return resultFailed
		}
		switch status {
		case StatusAccepted:
			return resultAccepted
		case StatusOK:
			var ack AckResponse
			if err := json.Unmarshal(body, &ack); err == nil && !ack.Duplicate {
				return resultFailed
			}
			return resultDuplicate
		case StatusTooManyRequests:
			atomic.AddInt64(&sub.backpressured, 1)
			if attempt >= maxRetries {
				return resultFailed
			}
			select {
			case <-ctx.Done():
				return resultFailed
			case <-time.After(backoff):
			}
			backoff *= 2
		default:
			logger.Get().Debug(ctx, "activity rejected",
				logger.String("event_id", a.EventID),
				logger.Int("status", status),
				logger.String("body", string(bytes.TrimSpace(body))))
			return resultFailed
		}
	}
}
