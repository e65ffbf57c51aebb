// Package fulfillment talks to the external gift-transfer service that
// delivers withdrawn prizes to their owners on Telegram.
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
)

const transferPath = "/create_and_transfer_random_gift"

// maxErrorBody caps how much of an error response we read back.
const maxErrorBody = 4 << 10

// Service transfers gifts. The ledger treats any returned error as "the
// gift did not leave"; the item reservation is rolled back on failure.
type Service interface {
	Transfer(ctx context.Context, giftName, receiverUsername string) error
}

type client struct {
	baseURL string
	sender  string
	http    *http.Client
}

// NewClient creates a fulfillment client. timeout bounds the whole
// transfer call including connection setup.
func NewClient(baseURL, sender string, timeout time.Duration) Service {
	return &client{
		baseURL: baseURL,
		sender:  sender,
		http:    &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	GiftName         string `json:"giftname"`
	ReceiverUsername string `json:"receiverUsername"`
	SenderUsername   string `json:"senderUsername"`
}

type transferError struct {
	Error string `json:"error"`
}

// Transfer asks the external service to send giftName to the receiver.
// Network failures and timeouts come back as ErrFulfillmentUnavailable /
// ErrFulfillmentTimeout; a non-2xx response is ErrFulfillmentRejected.
func (c *client) Transfer(ctx context.Context, giftName, receiverUsername string) error {
	body, err := json.Marshal(transferRequest{
		GiftName:         giftName,
		ReceiverUsername: receiverUsername,
		SenderUsername:   c.sender,
	})
	if err != nil {
		return fmt.Errorf("encoding transfer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transferPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: transfer of %q", domain.ErrFulfillmentTimeout, giftName)
		}
		return fmt.Errorf("%w: %v", domain.ErrFulfillmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readErrorDetail(resp.Body)
	logger.FromContext(ctx).Error("Fulfillment service rejected transfer",
		"gift", giftName,
		"status", resp.StatusCode,
		"detail", detail)

	if detail != "" {
		return fmt.Errorf("%w: %s", domain.ErrFulfillmentRejected, detail)
	}
	return fmt.Errorf("%w: status %d", domain.ErrFulfillmentRejected, resp.StatusCode)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var parsed transferError
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return ""
}
