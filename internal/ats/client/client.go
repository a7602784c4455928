// Package client is the HTTP adapter for the applicant tracking system.
// The acquisition engine hands fully qualified leads over through this
// client; failures are reported back and absorbed by the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"akquise_backend/internal/acquisition/ports"
	"akquise_backend/platform/config"
	"akquise_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Client talks to the ATS conversion endpoint. Calls are bounded by a
// conservative timeout with a single retry; a timed-out call counts as a
// failure, not as unknown.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func New(cfg config.ATSConfig, log *logger.Logger) *Client {
	timeout := cfg.GetATSTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.GetATSBaseURL(),
		apiKey:  cfg.GetATSAPIKey(),
		http:    &http.Client{Timeout: timeout},
		// The ATS tolerates at most a couple of conversions per second.
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		log:     log,
	}
}

type conversionRequest struct {
	LeadID       string `json:"leadId"`
	Position     string `json:"position"`
	CompanyName  string `json:"companyName,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	SalaryRange  string `json:"salaryRange,omitempty"`
	Headcount    int    `json:"headcount,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type conversionResponse struct {
	JobID   string `json:"jobId"`
	Summary string `json:"summary"`
}

// ConvertLead posts the qualified lead to the ATS and returns its success
// token. One retry on transport errors or 5xx responses.
func (c *Client) ConvertLead(ctx context.Context, params ports.ConversionParams) (*ports.ConversionResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("ats: not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(conversionRequest{
		LeadID:       params.LeadID.String(),
		Position:     params.Position,
		CompanyName:  params.CompanyName,
		ContactName:  params.ContactName,
		ContactPhone: params.ContactPhone,
		ContactEmail: params.ContactEmail,
		StartDate:    params.StartDate,
		SalaryRange:  params.SalaryRange,
		Headcount:    params.Headcount,
		Requirements: params.Requirements,
		Notes:        params.Notes,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			c.log.Warn("ats conversion retry", "lead_id", params.LeadID.String(), "error", lastErr.Error())
		}
		result, retryable, err := c.post(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, body []byte) (*ports.ConversionResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/jobs/convert", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("ats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("ats: server error %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("ats: unexpected status %d", resp.StatusCode)
	}

	var payload conversionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("ats: decode response: %w", err)
	}
	return &ports.ConversionResult{
		ExternalJobID: payload.JobID,
		Summary:       payload.Summary,
	}, false, nil
}

// Compile-time check that Client implements the engine's conversion port.
var _ ports.ConversionService = (*Client)(nil)
