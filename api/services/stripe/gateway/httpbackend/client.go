package httpbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	gw "github.com/tbeaudouin05/stripe-paysheet/api/services/stripe/gateway"
)

const maxErrorBody = 64 << 10

// ClientConfig contains configuration for the backend client.
type ClientConfig struct {
	BaseURL string
	// Token is sent as a bearer token when set.
	Token          string
	RequestTimeout time.Duration
}

// Client talks to the merchant backend over HTTP. Requests are never retried.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

var _ gw.BackendAPI = (*Client)(nil)

func NewClient(config ClientConfig, logger *zap.SugaredLogger) *Client {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		logger:     logger,
	}
}

// CreateCustomerKey posts api_version to /ephemeral_keys and returns the key
// object unchanged in EphemeralKey.Raw.
func (c *Client) CreateCustomerKey(ctx context.Context, apiVersion string) (gw.EphemeralKey, error) {
	form := url.Values{"api_version": {apiVersion}}
	body, err := c.post(ctx, "/ephemeral_keys", form.Encode())
	if err != nil {
		c.logger.Warnw("failed to create customer key", "api_version", apiVersion, "error", err)
		return gw.EphemeralKey{}, fmt.Errorf("create customer key failed: %w", err)
	}
	return gw.KeyFromRaw(body)
}

// CompleteCharge posts the charge to /capture_payment. shippingHash is
// appended to the form as is.
func (c *Client) CompleteCharge(ctx context.Context, stripeID string, amount int64, shippingHash string) error {
	form := url.Values{
		"source": {stripeID},
		"amount": {strconv.FormatInt(amount, 10)},
	}.Encode()
	if shippingHash != "" {
		form += "&" + shippingHash
	}
	if _, err := c.post(ctx, "/capture_payment", form); err != nil {
		c.logger.Warnw("failed to complete charge", "amount", amount, "error", err)
		return fmt.Errorf("complete charge failed: %w", err)
	}
	c.logger.Infow("charge completed", "amount", amount)
	return nil
}

func (c *Client) post(ctx context.Context, path, form string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	if key := gw.IdempotencyKey(ctx); key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	return body, nil
}

// decodeError reads {"code":..,"message":..} from a failed response, falling
// back to the HTTP status.
func decodeError(resp *http.Response) error {
	be := &gw.BackendError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Code != 0 {
			be.Code = payload.Code
		}
		switch {
		case payload.Message != "":
			be.Message = payload.Message
		case payload.Error != "":
			be.Message = payload.Error
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		be.Message = text
	}
	return be
}
