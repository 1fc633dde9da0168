package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const preferencesPath = "/checkout/preferences"

// Client creates checkout preferences with a bearer access token.
// It never retries; one call per user action.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         *zap.Logger
}

func NewClient(baseURL, accessToken string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With(zap.String("client", "payment")),
	}
}

func (c *Client) CreatePreference(ctx context.Context, pref *PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("%w: encode preference: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+preferencesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			c.log.Error("Payment preference timed out",
				zap.Duration("elapsed", time.Since(start)),
				zap.String("external_reference", pref.ExternalReference),
			)
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusCreated:
	default:
		apiErr := decodeAPIError(resp)
		c.log.Error("Payment preference rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
			zap.String("external_reference", pref.ExternalReference),
		)
		return nil, apiErr
	}

	var created Preference
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: decode preference: %v", ErrInvalidResponse, err)
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: preference without id", ErrInvalidResponse)
	}

	c.log.Info("Payment preference created",
		zap.String("preference_id", created.ID),
		zap.String("external_reference", pref.ExternalReference),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &created, nil
}

func decodeAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(raw))}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
