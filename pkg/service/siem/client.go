// Package siem is the SIEM alerting vendor client. Authentication is OAuth2
// client credentials; alert listings return an "alerts" envelope with a
// "links.next" URL for the following page.
package siem

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/fetch"
	"golang.org/x/oauth2/clientcredentials"
)

// Client calls the SIEM API. The underlying HTTP client injects and
// refreshes the OAuth2 token transparently.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a SIEM client using OAuth2 client credentials. The token is
// fetched lazily on the first request; an invalid credential pair surfaces
// as an auth-tagged error there.
func New(ctx context.Context, baseURL, clientID, clientSecret string) *Client {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/oauth/token",
	}
	hc := cc.Client(ctx)
	hc.Timeout = 30 * time.Second
	return &Client{
		baseURL: baseURL,
		http:    hc,
	}
}

type organizationsEnvelope struct {
	Organizations *[]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"organizations"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Organizations lists the SIEM tenant directory.
func (c *Client) Organizations(ctx context.Context) ([]model.Company, error) {
	first := c.baseURL + "/api/2.0/organizations"
	return fetch.NextLink(ctx, first, func(ctx context.Context, pageURL string) ([]model.Company, string, error) {
		var envelope organizationsEnvelope
		if err := c.get(ctx, pageURL, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Organizations == nil {
			return nil, "", goerr.New("organizations response missing envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		companies := make([]model.Company, 0, len(*envelope.Organizations))
		for _, org := range *envelope.Organizations {
			companies = append(companies, model.Company{
				ID:   types.OrgID(org.ID),
				Name: types.CompanyName(org.Name),
			})
		}
		return companies, envelope.Links.Next, nil
	})
}

type alertsEnvelope struct {
	Alerts *[]struct {
		OrganizationID string    `json:"organization_id"`
		OccurredAt     time.Time `json:"occurred_at"`
	} `json:"alerts"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// Alerts lists alerts that occurred inside [start, end].
func (c *Client) Alerts(ctx context.Context, start, end time.Time) ([]model.Alert, error) {
	query := url.Values{
		"occurred_after":  {start.Format(time.RFC3339)},
		"occurred_before": {end.Format(time.RFC3339)},
	}
	first := c.baseURL + "/api/2.0/alerts?" + query.Encode()

	return fetch.NextLink(ctx, first, func(ctx context.Context, pageURL string) ([]model.Alert, string, error) {
		var envelope alertsEnvelope
		if err := c.get(ctx, pageURL, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Alerts == nil {
			return nil, "", goerr.New("alerts response missing envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		alerts := make([]model.Alert, 0, len(*envelope.Alerts))
		for _, item := range *envelope.Alerts {
			alerts = append(alerts, model.Alert{
				OrgID:      types.OrgID(item.OrganizationID),
				OccurredAt: item.OccurredAt,
			})
		}
		return alerts, envelope.Links.Next, nil
	})
}

func (c *Client) get(ctx context.Context, pageURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build SIEM request", goerr.T(model.ErrTagFetch))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The oauth2 transport reports a failed token exchange as a
		// request error; treat it as an auth failure.
		return goerr.Wrap(err, "SIEM request failed",
			goerr.T(model.ErrTagAuth), goerr.V("url", pageURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return goerr.New("SIEM rejected token",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return goerr.New("SIEM returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("url", pageURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode SIEM response",
			goerr.T(model.ErrTagBadResponse), goerr.V("url", pageURL))
	}
	return nil
}
