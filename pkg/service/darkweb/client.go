// Package darkweb is the dark-web monitoring vendor client. Credentials
// are exchanged for a bearer token; compromises paginate with an opaque
// cursor inside a "data" envelope.
package darkweb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/fetch"
)

// Client calls the dark-web monitoring API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client

	token string
}

// New creates an unauthenticated client. Authenticate must be called before
// any listing.
func New(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate exchanges the client credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return goerr.Wrap(err, "failed to build token request", goerr.T(model.ErrTagAuth))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "token request failed", goerr.T(model.ErrTagAuth))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("darkweb API rejected credentials",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return goerr.Wrap(err, "failed to decode token response", goerr.T(model.ErrTagAuth))
	}
	if payload.AccessToken == "" {
		return goerr.New("token response missing access_token", goerr.T(model.ErrTagAuth))
	}

	c.token = payload.AccessToken
	return nil
}

type organizationsEnvelope struct {
	Data *[]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
	Cursor string `json:"cursor"`
}

// Organizations lists the monitored organization directory.
func (c *Client) Organizations(ctx context.Context) ([]model.Company, error) {
	return fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]model.Company, string, error) {
		query := url.Values{}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var envelope organizationsEnvelope
		if err := c.get(ctx, "/api/v2/organizations", query, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Data == nil {
			return nil, "", goerr.New("organizations response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		companies := make([]model.Company, 0, len(*envelope.Data))
		for _, org := range *envelope.Data {
			companies = append(companies, model.Company{
				ID:   types.OrgID(org.ID),
				Name: types.CompanyName(org.Name),
			})
		}
		return companies, envelope.Cursor, nil
	})
}

type compromisesEnvelope struct {
	Data *[]struct {
		OrganizationID string    `json:"organization_id"`
		DiscoveredAt   time.Time `json:"discovered_at"`
	} `json:"data"`
	Cursor string `json:"cursor"`
}

// Compromises lists exposures discovered inside [start, end].
func (c *Client) Compromises(ctx context.Context, start, end time.Time) ([]model.Compromise, error) {
	return fetch.Cursor(ctx, func(ctx context.Context, cursor string) ([]model.Compromise, string, error) {
		query := url.Values{
			"discovered_after":  {start.Format(time.RFC3339)},
			"discovered_before": {end.Format(time.RFC3339)},
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var envelope compromisesEnvelope
		if err := c.get(ctx, "/api/v2/compromises", query, &envelope); err != nil {
			return nil, "", err
		}
		if envelope.Data == nil {
			return nil, "", goerr.New("compromises response missing data envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		compromises := make([]model.Compromise, 0, len(*envelope.Data))
		for _, item := range *envelope.Data {
			compromises = append(compromises, model.Compromise{
				OrgID:        types.OrgID(item.OrganizationID),
				DiscoveredAt: item.DiscoveredAt,
			})
		}
		return compromises, envelope.Cursor, nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build darkweb request", goerr.T(model.ErrTagFetch))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "darkweb request failed",
			goerr.T(model.ErrTagFetch), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return goerr.New("darkweb API rejected token",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return goerr.New("darkweb API returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode darkweb response",
			goerr.T(model.ErrTagBadResponse), goerr.V("path", path))
	}
	return nil
}
