// Package airtable writes aggregate rows to the shared record-keeping
// table. One POST per record, no batch endpoint, paced sequential writes.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
)

const defaultAPIBase = "https://api.airtable.com/v0"

// Client is a minimal record-store client: bearer auth, one table, inserts
// only.
type Client struct {
	apiBase string
	token   string
	base    string
	table   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIBase overrides the API base URL.
func WithAPIBase(apiBase string) Option {
	return func(c *Client) {
		c.apiBase = apiBase
	}
}

// New creates a record-store client for one base and table.
func New(token, base, table string, opts ...Option) *Client {
	c := &Client{
		apiBase: defaultAPIBase,
		token:   token,
		base:    base,
		table:   table,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateRecord inserts one record shaped {"fields": {...}}. A non-2xx
// response is returned as an upload-tagged error carrying status and body;
// the caller decides whether to skip or abort.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) error {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return goerr.Wrap(err, "failed to encode record", goerr.T(model.ErrTagUpload))
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.apiBase, c.base, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build record request", goerr.T(model.ErrTagUpload))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "record request failed", goerr.T(model.ErrTagUpload))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("record rejected",
			goerr.T(model.ErrTagUpload),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}
	return nil
}
