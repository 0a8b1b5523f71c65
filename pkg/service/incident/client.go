// Package incident is the incident-response vendor client. Credentials are
// exchanged for a bearer token on a login endpoint; listings return a
// "list" envelope plus a "next" URL that carries the following page number
// in its query string.
package incident

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/fetch"
)

// Client calls the incident-response API.
type Client struct {
	baseURL  string
	user     string
	password string
	http     *http.Client

	token string
}

// New creates an unauthenticated client. Login must be called before any
// listing.
func New(baseURL, user, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Login exchanges the stored credentials for a bearer token. Failure is
// always fatal to the run.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.user,
		"password": c.password,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to encode login request", goerr.T(model.ErrTagAuth))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build login request", goerr.T(model.ErrTagAuth))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "login request failed", goerr.T(model.ErrTagAuth))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("incident API rejected credentials",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return goerr.Wrap(err, "failed to decode login response", goerr.T(model.ErrTagAuth))
	}
	if payload.Token == "" {
		return goerr.New("login response missing token", goerr.T(model.ErrTagAuth))
	}

	c.token = payload.Token
	return nil
}

type listEnvelope struct {
	List *[]json.RawMessage `json:"list"`
	Next string             `json:"next"`
}

// Organizations lists the vendor's organization directory.
func (c *Client) Organizations(ctx context.Context) ([]model.Company, error) {
	first := c.baseURL + "/api/v1/organizations?page=1"
	return fetch.NextLink(ctx, first, func(ctx context.Context, pageURL string) ([]model.Company, string, error) {
		envelope, err := c.getList(ctx, pageURL)
		if err != nil {
			return nil, "", err
		}

		companies := make([]model.Company, 0, len(*envelope.List))
		for _, raw := range *envelope.List {
			var org struct {
				ID   json.Number `json:"id"`
				Name string      `json:"name"`
			}
			if err := json.Unmarshal(raw, &org); err != nil {
				return nil, "", goerr.Wrap(err, "malformed organization entry",
					goerr.T(model.ErrTagBadResponse))
			}
			companies = append(companies, model.Company{
				ID:   types.OrgID(org.ID.String()),
				Name: types.CompanyName(org.Name),
			})
		}
		return companies, envelope.Next, nil
	})
}

// Escalations lists incidents escalated inside [start, end]. The next link
// only carries a page number, so each follow-up request is rebuilt against
// the listing endpoint instead of trusting the vendor's absolute URL.
func (c *Client) Escalations(ctx context.Context, start, end time.Time) ([]model.Escalation, error) {
	listURL := func(page int) string {
		query := url.Values{
			"escalated_after":  {start.Format(time.RFC3339)},
			"escalated_before": {end.Format(time.RFC3339)},
			"page":             {fmt.Sprintf("%d", page)},
		}
		return c.baseURL + "/api/v1/escalations?" + query.Encode()
	}

	return fetch.NextLink(ctx, listURL(1), func(ctx context.Context, pageURL string) ([]model.Escalation, string, error) {
		envelope, err := c.getList(ctx, pageURL)
		if err != nil {
			return nil, "", err
		}

		escalations := make([]model.Escalation, 0, len(*envelope.List))
		for _, raw := range *envelope.List {
			var item struct {
				OrganizationID json.Number `json:"organization_id"`
				EscalatedAt    time.Time   `json:"escalated_at"`
			}
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, "", goerr.Wrap(err, "malformed escalation entry",
					goerr.T(model.ErrTagBadResponse))
			}
			escalations = append(escalations, model.Escalation{
				OrgID:       types.OrgID(item.OrganizationID.String()),
				EscalatedAt: item.EscalatedAt,
			})
		}

		next := ""
		if envelope.Next != "" {
			page, err := fetch.PageFromURL(envelope.Next)
			if err != nil {
				return nil, "", goerr.Wrap(err, "unusable next link",
					goerr.T(model.ErrTagBadResponse))
			}
			next = listURL(page)
		}
		return escalations, next, nil
	})
}

func (c *Client) getList(ctx context.Context, pageURL string) (*listEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build incident request", goerr.T(model.ErrTagFetch))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "incident request failed",
			goerr.T(model.ErrTagFetch), goerr.V("url", pageURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, goerr.New("incident API rejected token",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("incident API returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("url", pageURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, goerr.Wrap(err, "failed to decode incident response",
			goerr.T(model.ErrTagBadResponse), goerr.V("url", pageURL))
	}
	if envelope.List == nil {
		return nil, goerr.New("incident response missing list envelope",
			goerr.T(model.ErrTagBadResponse), goerr.V("url", pageURL))
	}
	return &envelope, nil
}
