// Package vuln is the vulnerability-management vendor client. The API
// authenticates with HTTP basic credentials and paginates findings by page
// number and size inside a "vulnerabilities" envelope.
package vuln

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

const findingPageSize = 100

// riskLabels maps the vendor's 1-5 risk score onto the destination
// severity categories. Risk 1 and 2 both report as Low.
var riskLabels = map[int]string{
	5: "Critical",
	4: "High",
	3: "Medium",
	2: "Low",
	1: "Low",
}

// Client calls the vulnerability-management API.
type Client struct {
	baseURL  string
	user     string
	password string
	http     *http.Client
}

// New creates a client with HTTP basic credentials.
func New(baseURL, user, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Envelope slices are pointers so a response missing its expected key is
// distinguishable from a legitimately empty page; a missing key would
// otherwise read as a short page and silently end the pagination walk.
type organizationsEnvelope struct {
	Organizations *[]struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"organizations"`
}

// Organizations lists the vendor's organization directory.
func (c *Client) Organizations(ctx context.Context) ([]model.Company, error) {
	return fetch.Pages(ctx, findingPageSize, func(ctx context.Context, page, size int) ([]model.Company, error) {
		query := url.Values{
			"page":      {strconv.Itoa(page)},
			"page_size": {strconv.Itoa(size)},
		}

		var envelope organizationsEnvelope
		if err := c.get(ctx, "/api/v1/organizations", query, &envelope); err != nil {
			return nil, err
		}
		if envelope.Organizations == nil {
			return nil, goerr.New("organizations response missing envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		companies := make([]model.Company, 0, len(*envelope.Organizations))
		for _, org := range *envelope.Organizations {
			companies = append(companies, model.Company{
				ID:   types.OrgID(org.ID.String()),
				Name: types.CompanyName(org.Name),
			})
		}
		return companies, nil
	})
}

type findingsEnvelope struct {
	Vulnerabilities *[]struct {
		OrganizationID json.Number `json:"organization_id"`
		DateOpened     time.Time   `json:"date_opened"`
		Risk           int         `json:"risk"`
	} `json:"vulnerabilities"`
}

// Findings lists findings opened inside [start, end].
func (c *Client) Findings(ctx context.Context, start, end time.Time) ([]model.Finding, error) {
	return fetch.Pages(ctx, findingPageSize, func(ctx context.Context, page, size int) ([]model.Finding, error) {
		query := url.Values{
			"date_opened_after":  {start.Format(time.RFC3339)},
			"date_opened_before": {end.Format(time.RFC3339)},
			"page":               {strconv.Itoa(page)},
			"page_size":          {strconv.Itoa(size)},
		}

		var envelope findingsEnvelope
		if err := c.get(ctx, "/api/v1/vulnerabilities", query, &envelope); err != nil {
			return nil, err
		}
		if envelope.Vulnerabilities == nil {
			return nil, goerr.New("findings response missing envelope",
				goerr.T(model.ErrTagBadResponse))
		}

		findings := make([]model.Finding, 0, len(*envelope.Vulnerabilities))
		for _, v := range *envelope.Vulnerabilities {
			severity, ok := riskLabels[v.Risk]
			if !ok {
				severity = "Low"
			}
			findings = append(findings, model.Finding{
				OrgID:    types.OrgID(v.OrganizationID.String()),
				OpenedAt: v.DateOpened,
				Severity: severity,
			})
		}
		return findings, nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build vuln request", goerr.T(model.ErrTagFetch))
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "vuln request failed",
			goerr.T(model.ErrTagFetch), goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return goerr.New("vuln API rejected credentials",
			goerr.T(model.ErrTagAuth), goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return goerr.New("vuln API returned non-success status",
			goerr.T(model.ErrTagFetch),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode vuln response",
			goerr.T(model.ErrTagBadResponse), goerr.V("path", path))
	}
	return nil
}
