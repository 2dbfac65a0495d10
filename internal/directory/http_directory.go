package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/wavecall/relay/internal/config"
	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/metrics"
)

// HTTPDirectory talks to the external directory service over its REST API:
// GET /peers/{id} to validate identity, POST /calls to record outcomes.
type HTTPDirectory struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  *string
	timeout time.Duration
}

func NewHTTPDirectory(cfg config.DirectoryConfig) *HTTPDirectory {
	timeout := time.Duration(cfg.TimeoutMsec) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPDirectory{
		client:  &fasthttp.Client{},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

type callOutcomeBody struct {
	CallID          string `json:"call_id"`
	CallerID        string `json:"caller_id"`
	ReceiverID      string `json:"receiver_id"`
	Status          string `json:"status"`
	StartedAt       string `json:"started_at"`
	AnsweredAt      string `json:"answered_at,omitempty"`
	EndedAt         string `json:"ended_at"`
	DurationSeconds int    `json:"duration"`
}

func (d *HTTPDirectory) PeerExists(ctx context.Context, peerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.baseURL + "/peers/" + peerID)
	req.Header.SetMethod(fasthttp.MethodGet)
	d.setAuth(req)

	if err := d.client.DoTimeout(req, resp, d.timeout); err != nil {
		metrics.DirectoryRequestsTotal.WithLabelValues("peer_exists", "error").Inc()
		return false, fmt.Errorf("directory peer lookup failed: %w", err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
		metrics.DirectoryRequestsTotal.WithLabelValues("peer_exists", "ok").Inc()
		return true, nil
	case fasthttp.StatusNotFound:
		metrics.DirectoryRequestsTotal.WithLabelValues("peer_exists", "ok").Inc()
		return false, nil
	default:
		metrics.DirectoryRequestsTotal.WithLabelValues("peer_exists", "error").Inc()
		return false, fmt.Errorf("directory peer lookup: unexpected status %d", resp.StatusCode())
	}
}

func (d *HTTPDirectory) RecordCallOutcome(ctx context.Context, outcome domain.CallOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := callOutcomeBody{
		CallID:          outcome.CallID,
		CallerID:        outcome.CallerID,
		ReceiverID:      outcome.ReceiverID,
		Status:          string(outcome.Reason),
		StartedAt:       outcome.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:         outcome.EndedAt.UTC().Format(time.RFC3339),
		DurationSeconds: int(outcome.Duration / time.Second),
	}
	if !outcome.AnsweredAt.IsZero() {
		body.AnsweredAt = outcome.AnsweredAt.UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode call outcome: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.baseURL + "/calls")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	d.setAuth(req)
	req.SetBody(payload)

	if err := d.client.DoTimeout(req, resp, d.timeout); err != nil {
		metrics.DirectoryRequestsTotal.WithLabelValues("record_outcome", "error").Inc()
		return fmt.Errorf("directory outcome record failed: %w", err)
	}

	if resp.StatusCode() >= 300 {
		metrics.DirectoryRequestsTotal.WithLabelValues("record_outcome", "error").Inc()
		return fmt.Errorf("directory outcome record: unexpected status %d", resp.StatusCode())
	}

	metrics.DirectoryRequestsTotal.WithLabelValues("record_outcome", "ok").Inc()
	return nil
}

func (d *HTTPDirectory) setAuth(req *fasthttp.Request) {
	if d.apiKey != nil {
		req.Header.Set("X-Api-Key", *d.apiKey)
	}
}
