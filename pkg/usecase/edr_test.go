package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/service/airtable"
	"github.com/seclens/quarterback/pkg/usecase"
)

// fixedClock puts every run in 2024-02-15, so the target quarter is
// 2023-Q4.
func fixedClock() time.Time {
	return time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
}

func q4(day int, month time.Month) time.Time {
	return time.Date(2023, month, day, 12, 0, 0, 0, time.UTC)
}

type captureDestination struct {
	fields []map[string]any
	err    error
}

func (c *captureDestination) CreateRecord(ctx context.Context, fields map[string]any) error {
	c.fields = append(c.fields, fields)
	return c.err
}

func (c *captureDestination) companyRows(name string) []map[string]any {
	var rows []map[string]any
	for _, f := range c.fields {
		if f[model.FieldCompanyName] == name {
			rows = append(rows, f)
		}
	}
	return rows
}

func newTestUploader(dest *captureDestination) *airtable.Uploader {
	// effectively no pacing, the pacing property has its own tests
	return airtable.NewUploader(dest, time.Millisecond, 1000)
}

type fakeThreatSource struct {
	sites      []model.Company
	threats    []model.Threat
	sitesErr   error
	threatsErr error
}

func (f *fakeThreatSource) Sites(ctx context.Context) ([]model.Company, error) {
	return f.sites, f.sitesErr
}

func (f *fakeThreatSource) Threats(ctx context.Context, start, end time.Time) ([]model.Threat, error) {
	return f.threats, f.threatsErr
}

func TestEDRReport(t *testing.T) {
	ctx := context.Background()

	t.Run("zero-seeds quiet companies and counts the rest", func(t *testing.T) {
		source := &fakeThreatSource{
			sites: []model.Company{
				{ID: "a", Name: "Acme"},
				{ID: "b", Name: "Globex"},
			},
			threats: []model.Threat{
				{OrgID: "a", DetectedAt: q4(5, time.October), Resolved: true},
				{OrgID: "a", DetectedAt: q4(20, time.November)},
				{OrgID: "a", DetectedAt: q4(31, time.December)},
			},
		}
		dest := &captureDestination{}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))

		gt.Equal(t, len(dest.fields), 2)

		acme := dest.companyRows("Acme")
		gt.Equal(t, len(acme), 1)
		gt.Equal(t, acme[0][model.FieldQuarter], "2023-12-31")
		gt.Equal(t, acme[0][model.FieldTotalThreats], 3)
		gt.Equal(t, acme[0][model.FieldResolvedThreats], 1)
		gt.Equal(t, acme[0][model.FieldUnresolvedThreats], 2)

		globex := dest.companyRows("Globex")
		gt.Equal(t, len(globex), 1)
		gt.Equal(t, globex[0][model.FieldTotalThreats], 0)
	})

	t.Run("drops threats outside the target quarter", func(t *testing.T) {
		source := &fakeThreatSource{
			sites: []model.Company{{ID: "a", Name: "Acme"}},
			threats: []model.Threat{
				{OrgID: "a", DetectedAt: q4(15, time.December)},
				// one second past the quarter end
				{OrgID: "a", DetectedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
				// before the quarter start
				{OrgID: "a", DetectedAt: time.Date(2023, 9, 30, 23, 59, 59, 0, time.UTC)},
			},
		}
		dest := &captureDestination{}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))

		acme := dest.companyRows("Acme")
		gt.Equal(t, acme[0][model.FieldTotalThreats], 1)
	})

	t.Run("sentinel site never uploads", func(t *testing.T) {
		source := &fakeThreatSource{
			sites: []model.Company{
				{ID: "a", Name: "Acme"},
				{ID: "x", Name: "No Sites Found"},
			},
			threats: []model.Threat{
				{OrgID: "x", DetectedAt: q4(1, time.November)},
			},
		}
		dest := &captureDestination{}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))

		gt.Equal(t, len(dest.fields), 1)
		gt.Equal(t, dest.fields[0][model.FieldCompanyName], "Acme")
	})

	t.Run("unknown org is skipped, not fatal", func(t *testing.T) {
		source := &fakeThreatSource{
			sites: []model.Company{{ID: "a", Name: "Acme"}},
			threats: []model.Threat{
				{OrgID: "ghost", DetectedAt: q4(1, time.November)},
			},
		}
		dest := &captureDestination{}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))
		gt.Equal(t, dest.fields[0][model.FieldTotalThreats], 0)
	})

	t.Run("threat fetch failure is fatal", func(t *testing.T) {
		source := &fakeThreatSource{
			sites:      []model.Company{{ID: "a", Name: "Acme"}},
			threatsErr: goerr.New("listing failed", goerr.T(model.ErrTagFetch)),
		}
		dest := &captureDestination{}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.Error(t, uc.Run(ctx))
		gt.Equal(t, len(dest.fields), 0)
	})

	t.Run("upload failure does not fail the run", func(t *testing.T) {
		source := &fakeThreatSource{
			sites: []model.Company{{ID: "a", Name: "Acme"}, {ID: "b", Name: "Globex"}},
		}
		dest := &captureDestination{err: goerr.New("record rejected", goerr.T(model.ErrTagUpload))}

		uc := usecase.NewEDRReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))
		// both rows were still attempted
		gt.Equal(t, len(dest.fields), 2)
	})
}
