// Package training is the security-awareness training vendor client. The
// API authenticates with a static bearer token and paginates by page number
// inside a "data" envelope.
package training

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

const statPageSize = 500

// Client calls the awareness-training API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a training client with a static bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type companiesEnvelope struct {
	Data *[]struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"data"`
}

// Companies lists the accounts under the reporting tenant.
func (c *Client) Companies(ctx context.Context) ([]model.Company, error) {
	return fetch.Pages(ctx, statPageSize, func(ctx context.Context, page, size int) ([]model.Company, error) {
		query := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(size)},
		}

		var envelope companiesEnvelope
		if err := c.get(ctx, "/v1/companies", query, &envelope); err != nil {
			return nil, err
		}
		if envelope.Data == nil {
			return nil, goerr.New("companies response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		companies := make([]model.Company, 0, len(*envelope.Data))
		for _, item := range *envelope.Data {
			companies = append(companies, model.Company{
				ID:   types.OrgID(item.ID.String()),
				Name: types.CompanyName(item.Name),
			})
		}
		return companies, nil
	})
}

type statsEnvelope struct {
	Data *[]struct {
		CompanyID      json.Number `json:"company_id"`
		EndedAt        time.Time   `json:"ended_at"`
		ReportRate     float64     `json:"report_rate"`
		PhishProneRate float64     `json:"phish_prone_rate"`
		CompletionRate float64     `json:"completion_rate"`
	} `json:"data"`
}

// CampaignStats lists campaign results that ended inside [start, end].
func (c *Client) CampaignStats(ctx context.Context, start, end time.Time) ([]model.CampaignStat, error) {
	return fetch.Pages(ctx, statPageSize, func(ctx context.Context, page, size int) ([]model.CampaignStat, error) {
		query := url.Values{
			"ended_after":  {start.Format(time.RFC3339)},
			"ended_before": {end.Format(time.RFC3339)},
			"page":         {strconv.Itoa(page)},
			"per_page":     {strconv.Itoa(size)},
		}

		var envelope statsEnvelope
		if err := c.get(ctx, "/v1/phishing/stats", query, &envelope); err != nil {
			return nil, err
		}
		if envelope.Data == nil {
			return nil, goerr.New("stats response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		stats := make([]model.CampaignStat, 0, len(*envelope.Data))
		for _, item := range *envelope.Data {
			stats = append(stats, model.CampaignStat{
				OrgID:          types.OrgID(item.CompanyID.String()),
				EndedAt:        item.EndedAt,
				ReportRate:     item.ReportRate,
				PhishRate:      item.PhishProneRate,
				CompletionRate: item.CompletionRate,
			})
		}
		return stats, nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build training request", goerr.T(model.ErrTagFetch))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "training request failed",
			goerr.T(model.ErrTagFetch), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return goerr.New("training API rejected token",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return goerr.New("training API returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode training response",
			goerr.T(model.ErrTagBadResponse), goerr.V("path", path))
	}
	return nil
}
