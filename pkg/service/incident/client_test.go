package incident_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/service/incident"
)

func TestClientLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges credentials for a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Equal(t, r.URL.Path, "/auth/login")
			var creds map[string]string
			gt.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			gt.Equal(t, creds["username"], "svc-report")
			fmt.Fprint(w, `{"token":"tok-1"}`)
		}))
		defer srv.Close()

		client := incident.New(srv.URL, "svc-report", "hunter2")
		gt.NoError(t, client.Login(ctx))
	})

	t.Run("rejected credentials are an auth error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := incident.New(srv.URL, "svc-report", "wrong")
		err := client.Login(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagAuth))
	})

	t.Run("missing token field is an auth error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		client := incident.New(srv.URL, "svc-report", "hunter2")
		gt.Error(t, client.Login(ctx))
	})
}

func TestClientEscalations(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)

	t.Run("follows next links by rebuilt page number", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				fmt.Fprint(w, `{"token":"tok-1"}`)
			case "/api/v1/escalations":
				gt.Equal(t, r.Header.Get("Authorization"), "Bearer tok-1")
				switch r.URL.Query().Get("page") {
				case "1":
					// the vendor's next link points at a different host on
					// purpose: only its page number may be trusted
					fmt.Fprint(w, `{"list":[{"organization_id":1,"escalated_at":"2023-10-03T00:00:00Z"}],"next":"https://other.example/api/v1/escalations?page=2"}`)
				case "2":
					fmt.Fprint(w, `{"list":[{"organization_id":2,"escalated_at":"2023-11-03T00:00:00Z"}],"next":""}`)
				default:
					t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
				}
			default:
				t.Fatalf("unexpected path %q", r.URL.Path)
			}
		}))
		defer srv.Close()

		client := incident.New(srv.URL, "svc-report", "hunter2")
		gt.NoError(t, client.Login(ctx))

		escalations, err := client.Escalations(ctx, start, end)
		gt.NoError(t, err)
		gt.Equal(t, len(escalations), 2)
	})

	t.Run("missing list envelope is a bad-response error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login" {
				fmt.Fprint(w, `{"token":"tok-1"}`)
				return
			}
			fmt.Fprint(w, `{"results":[]}`)
		}))
		defer srv.Close()

		client := incident.New(srv.URL, "svc-report", "hunter2")
		gt.NoError(t, client.Login(ctx))

		_, err := client.Escalations(ctx, start, end)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagBadResponse))
	})
}
