package edr_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/edr"
)

func TestClientThreats(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)

	t.Run("drains cursor pages with API token auth", func(t *testing.T) {
		var requests int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			gt.Equal(t, r.Header.Get("Authorization"), "ApiToken secret")
			gt.Equal(t, r.URL.Path, "/web/api/v2.1/threats")

			switch r.URL.Query().Get("cursor") {
			case "":
				fmt.Fprint(w, `{"data":[{"siteId":1,"createdAt":"2023-10-05T00:00:00Z","resolved":true}],"pagination":{"nextCursor":"c2"}}`)
			case "c2":
				fmt.Fprint(w, `{"data":[{"siteId":2,"createdAt":"2023-11-05T00:00:00Z","resolved":false}],"pagination":{"nextCursor":""}}`)
			default:
				t.Fatalf("unexpected cursor %q", r.URL.Query().Get("cursor"))
			}
		}))
		defer srv.Close()

		client := edr.New(srv.URL, "secret")
		threats, err := client.Threats(ctx, start, end)
		gt.NoError(t, err)
		gt.Equal(t, requests, 2)
		gt.Equal(t, len(threats), 2)
		gt.Equal(t, threats[0].OrgID, types.OrgID("1"))
		gt.True(t, threats[0].Resolved)
		gt.False(t, threats[1].Resolved)
	})

	t.Run("missing data envelope is a bad-response error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"pagination":{"nextCursor":""}}`)
		}))
		defer srv.Close()

		client := edr.New(srv.URL, "secret")
		_, err := client.Threats(ctx, start, end)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagBadResponse))
	})

	t.Run("non-success status is a fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := edr.New(srv.URL, "secret")
		_, err := client.Threats(ctx, start, end)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagFetch))
	})

	t.Run("401 is an auth error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := edr.New(srv.URL, "bad-token")
		_, err := client.Threats(ctx, start, end)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagAuth))
	})
}

func TestClientSites(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.URL.Path, "/web/api/v2.1/sites")
		fmt.Fprint(w, `{"data":{"sites":[{"id":10,"name":"Acme"},{"id":11,"name":"Globex"}]},"pagination":{"nextCursor":""}}`)
	}))
	defer srv.Close()

	client := edr.New(srv.URL, "secret")
	sites, err := client.Sites(ctx)
	gt.NoError(t, err)
	gt.Equal(t, sites, []model.Company{
		{ID: "10", Name: "Acme"},
		{ID: "11", Name: "Globex"},
	})
}
