package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/store/models"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

type httpStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPStore builds a Store speaking JSON over HTTP to the hostel backend.
// All calls run through a circuit breaker so a dead backend fails fast instead
// of stacking up timeouts.
func NewHTTPStore(baseURL, apiKey string, timeout time.Duration) Store {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &httpStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: newBreaker("hostel-backend"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				config.Logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
			// Rejections the backend answered itself (4xx) are healthy
			// round-trips; only transport failures and 5xx count against the
			// breaker.
			IsSuccessful: func(err error) bool {
				if err == nil || errors.Is(err, ErrAuthRequired) {
					return true
				}
				var remote *RemoteError
				return errors.As(err, &remote) && remote.StatusCode >= 400 && remote.StatusCode < 500
			},
		},
	)
}

// call runs one JSON round-trip through the breaker, decoding the response
// into out when out is non-nil.
func (s *httpStore) call(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.roundTrip(ctx, method, path, body, out)
	})
	return err
}

func (s *httpStore) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("hostel backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrAuthRequired
	}
	if resp.StatusCode >= 400 {
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts the backend's message from an error body. The
// backend replies {"message": "..."}; anything else falls back to the raw body
// or the status text.
func readErrorMessage(r io.Reader, statusCode int) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return http.StatusText(statusCode)
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

type guestListResponse struct {
	Data []models.Guest `json:"data"`
}

type tokenListResponse struct {
	Data []models.GuestToken `json:"data"`
}

type historyResponse struct {
	Data       []models.Guest `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	} `json:"pagination"`
}

func (s *httpStore) ListCheckedInGuests(ctx context.Context) ([]models.Guest, error) {
	var resp guestListResponse
	if err := s.call(ctx, http.MethodGet, "/api/guests/checked-in", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *httpStore) ListActiveTokens(ctx context.Context) ([]models.GuestToken, error) {
	var resp tokenListResponse
	if err := s.call(ctx, http.MethodGet, "/api/guest-tokens/active", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (s *httpStore) ListCapsules(ctx context.Context) ([]models.Capsule, error) {
	var capsules []models.Capsule
	if err := s.call(ctx, http.MethodGet, "/api/capsules", nil, &capsules); err != nil {
		return nil, err
	}
	return capsules, nil
}

func (s *httpStore) ListAvailableCapsules(ctx context.Context) ([]models.Capsule, error) {
	var capsules []models.Capsule
	if err := s.call(ctx, http.MethodGet, "/api/capsules/available", nil, &capsules); err != nil {
		return nil, err
	}
	return capsules, nil
}

func (s *httpStore) ListCheckoutHistory(ctx context.Context, page, pageSize int) ([]models.Guest, int64, error) {
	var resp historyResponse
	path := fmt.Sprintf("/api/guests/history?page=%d&limit=%d", page, pageSize)
	if err := s.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.Pagination.Total, nil
}

func (s *httpStore) RecentlyCheckedOut(ctx context.Context) (*models.Guest, error) {
	var guest models.Guest
	err := s.call(ctx, http.MethodGet, "/api/guests/recent-checkout", nil, &guest)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			// Nothing checked out recently; not an error for a read.
			return nil, nil
		}
		return nil, err
	}
	return &guest, nil
}

func (s *httpStore) Checkout(ctx context.Context, guestID string) (*models.Guest, error) {
	var guest models.Guest
	body := map[string]string{"id": guestID}
	if err := s.call(ctx, http.MethodPost, "/api/guests/checkout", body, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *httpStore) UndoCheckout(ctx context.Context) (*models.Guest, error) {
	var guest models.Guest
	if err := s.call(ctx, http.MethodPost, "/api/guests/undo-checkout", nil, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *httpStore) CancelToken(ctx context.Context, tokenID string) error {
	return s.call(ctx, http.MethodDelete, "/api/guest-tokens/"+tokenID, nil, nil)
}

func (s *httpStore) ReassignGuest(ctx context.Context, guestID, capsuleNumber string) (*models.Guest, error) {
	var guest models.Guest
	body := map[string]string{"capsuleNumber": capsuleNumber}
	if err := s.call(ctx, http.MethodPatch, "/api/guests/"+guestID, body, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *httpStore) ReassignToken(ctx context.Context, tokenID string, capsuleNumber *string) (*models.GuestToken, error) {
	var token models.GuestToken
	var body interface{}
	if capsuleNumber == nil {
		body = map[string]bool{"autoAssign": true}
	} else {
		body = map[string]string{"capsuleNumber": *capsuleNumber}
	}
	if err := s.call(ctx, http.MethodPatch, "/api/guest-tokens/"+tokenID, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *httpStore) Health(ctx context.Context) error {
	return s.call(ctx, http.MethodGet, "/api/health", nil, nil)
}
