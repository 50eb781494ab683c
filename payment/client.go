package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"timeclock/models"
	"timeclock/service"
)

// Client talks to the external payment service over HTTP. It implements
// service.PaymentClient.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a payment client. The timeout bounds every transfer
// attempt end to end.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type transferRequest struct {
	CardCode string `json:"cardCode"`
	ToID     string `json:"toId"`
	Amount   string `json:"amount"`
}

type transferResponse struct {
	Success bool   `json:"success"`
	TxID    string `json:"txId"`
	Message string `json:"message"`
}

// Transfer sends amount from the card to the member. On a confirmed success
// without a usable transaction id, a synthesized id is returned so the
// settlement can still be recorded and audited.
func (c *Client) Transfer(ctx context.Context, cardCode string, toMemberID int64, amount models.Amount) (string, bool, error) {
	body, err := json.Marshal(transferRequest{
		CardCode: cardCode,
		ToID:     strconv.FormatInt(toMemberID, 10),
		Amount:   amount.String(),
	})
	if err != nil {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonTransport,
			Message: fmt.Sprintf("encode request: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfer", bytes.NewReader(body))
	if err != nil {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonTransport,
			Message: fmt.Sprintf("build request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		reason := service.SettlementReasonTransport
		if isTimeout(err) {
			reason = service.SettlementReasonTimeout
		}
		return "", false, &service.SettlementError{
			Reason:  reason,
			Message: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonTransport,
			Message: fmt.Sprintf("read response: %v", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonRejected,
			Status:  resp.StatusCode,
			Message: string(respBody),
		}
	}

	var parsed transferResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err),
		}
	}
	if !parsed.Success {
		return "", false, &service.SettlementError{
			Reason:  service.SettlementReasonRejected,
			Status:  resp.StatusCode,
			Message: parsed.Message,
		}
	}

	if parsed.TxID == "" {
		id := "tx:" + uuid.New().String()
		log.WithFields(log.Fields{
			"memberID": toMemberID,
			"amount":   amount.String(),
		}).Warn("Transfer succeeded without a transaction id, synthesizing one")
		return id, true, nil
	}
	return parsed.TxID, false, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
