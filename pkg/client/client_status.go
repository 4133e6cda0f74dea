package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type StatusService struct {
	Options []RequestOption
}

func NewStatusService(opts ...RequestOption) StatusService {
	return StatusService{
		Options: opts,
	}
}

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`

	Models map[string]ModelStatus `json:"models"`
}

type ModelStatus struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`

	Active     string `json:"active"`
	Downgraded bool   `json:"downgraded"`
}

type MemoryStatus struct {
	Memory *Memory `json:"memory"`

	Models map[string]ModelStatus `json:"models"`
}

type Memory struct {
	Device   string  `json:"device"`
	Fraction float64 `json:"fraction"`

	AllocatedGB float64 `json:"allocated_gb"`
	ReservedGB  float64 `json:"reserved_gb"`
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`

	UsagePercent float64 `json:"usage_percent"`
}

func (r *StatusService) Health(ctx context.Context, opts ...RequestOption) (*Health, error) {
	var result Health

	if err := r.get(ctx, "/health", &result, opts...); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *StatusService) Memory(ctx context.Context, opts ...RequestOption) (*MemoryStatus, error) {
	var result MemoryStatus

	if err := r.get(ctx, "/memory_status", &result, opts...); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *StatusService) get(ctx context.Context, path string, v any, opts ...RequestOption) error {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+path, nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
