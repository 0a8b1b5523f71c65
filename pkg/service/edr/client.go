// Package edr is the endpoint detection & response vendor client. The API
// authenticates with a static API token and paginates threats with an
// opaque cursor inside a "data" envelope.
package edr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/fetch"
)

const threatPageSize = 200

// Client calls the EDR management console API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates an EDR client for the given console URL and API token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sitesEnvelope struct {
	Data *struct {
		Sites []struct {
			ID   json.Number `json:"id"`
			Name string      `json:"name"`
		} `json:"sites"`
	} `json:"data"`
	Pagination struct {
		NextCursor string `json:"nextCursor"`
	} `json:"pagination"`
}

// Sites lists the console's site directory. Each site maps to one reporting
// company.
func (c *Client) Sites(ctx context.Context) ([]model.Company, error) {
	return fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]model.Company, string, error) {
		query := url.Values{"limit": {strconv.Itoa(threatPageSize)}}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var envelope sitesEnvelope
		if err := c.get(ctx, "/web/api/v2.1/sites", query, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Data == nil {
			return nil, "", goerr.New("sites response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		companies := make([]model.Company, 0, len(envelope.Data.Sites))
		for _, site := range envelope.Data.Sites {
			companies = append(companies, model.Company{
				ID:   types.OrgID(site.ID.String()),
				Name: types.CompanyName(site.Name),
			})
		}
		return companies, envelope.Pagination.NextCursor, nil
	})
}

type threatsEnvelope struct {
	Data []struct {
		SiteID    json.Number `json:"siteId"`
		CreatedAt time.Time   `json:"createdAt"`
		Resolved  bool        `json:"resolved"`
	} `json:"data"`
	Pagination struct {
		NextCursor string `json:"nextCursor"`
	} `json:"pagination"`
}

// Threats lists threats created inside [start, end].
func (c *Client) Threats(ctx context.Context, start, end time.Time) ([]model.Threat, error) {
	return fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]model.Threat, string, error) {
		query := url.Values{
			"createdAt__gte": {start.Format(time.RFC3339)},
			"createdAt__lte": {end.Format(time.RFC3339)},
			"limit":          {strconv.Itoa(threatPageSize)},
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var envelope threatsEnvelope
		if err := c.get(ctx, "/web/api/v2.1/threats", query, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Data == nil {
			return nil, "", goerr.New("threats response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		threats := make([]model.Threat, 0, len(envelope.Data))
		for _, t := range envelope.Data {
			threats = append(threats, model.Threat{
				OrgID:      types.OrgID(t.SiteID.String()),
				DetectedAt: t.CreatedAt,
				Resolved:   t.Resolved,
			})
		}
		return threats, envelope.Pagination.NextCursor, nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build EDR request", goerr.T(model.ErrTagFetch))
	}
	req.Header.Set("Authorization", "ApiToken "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "EDR request failed",
			goerr.T(model.ErrTagFetch), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return goerr.New("EDR rejected API token",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return goerr.New("EDR returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode EDR response",
			goerr.T(model.ErrTagBadResponse), goerr.V("path", path))
	}
	return nil
}
