package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
)

func TestCompanyIsSentinel(t *testing.T) {
	t.Run("placeholder names are sentinels", func(t *testing.T) {
		for _, name := range []string{"No Sites Found", "Unknown Organization", "no organization", " Unassigned "} {
			c := model.Company{ID: "1", Name: types.CompanyName(name)}
			gt.True(t, c.IsSentinel())
		}
	})

	t.Run("empty name is a sentinel", func(t *testing.T) {
		gt.True(t, model.Company{ID: "1"}.IsSentinel())
	})

	t.Run("regular company is not", func(t *testing.T) {
		c := model.Company{ID: "1", Name: "Acme"}
		gt.False(t, c.IsSentinel())
	})
}

func TestNewRoster(t *testing.T) {
	directory := []model.Company{
		{ID: "1", Name: "Acme Inc"},
		{ID: "2", Name: "Globex"},
		{ID: "3", Name: "Test Co"},
		{ID: "4", Name: "No Sites Found"},
	}

	t.Run("without overrides keeps directory order", func(t *testing.T) {
		roster := model.NewRoster(directory, nil)
		gt.Equal(t, roster.Len(), 4)
		gt.Equal(t, roster.Companies()[0].Name, types.CompanyName("Acme Inc"))
		gt.Equal(t, roster.Companies()[1].Name, types.CompanyName("Globex"))
	})

	t.Run("aliases rename, exclusions drop", func(t *testing.T) {
		overrides := &model.RosterOverrides{
			Aliases: map[string]string{"acme inc": "Acme"},
			Exclude: []string{"Test Co"},
		}
		gt.NoError(t, overrides.Validate())

		roster := model.NewRoster(directory, overrides)
		gt.Equal(t, roster.Len(), 3)
		gt.Equal(t, roster.Companies()[0].Name, types.CompanyName("Acme"))
		for _, c := range roster.Companies() {
			gt.False(t, c.ID == "3")
		}
	})

	t.Run("duplicate org IDs keep the first entry", func(t *testing.T) {
		roster := model.NewRoster([]model.Company{
			{ID: "1", Name: "Acme"},
			{ID: "1", Name: "Acme Shadow"},
		}, nil)
		gt.Equal(t, roster.Len(), 1)
		gt.Equal(t, roster.Companies()[0].Name, types.CompanyName("Acme"))
	})
}

func TestRosterOverridesValidate(t *testing.T) {
	t.Run("error on empty alias target", func(t *testing.T) {
		overrides := &model.RosterOverrides{Aliases: map[string]string{"Acme": " "}}
		gt.Error(t, overrides.Validate())
	})

	t.Run("error on empty exclude entry", func(t *testing.T) {
		overrides := &model.RosterOverrides{Exclude: []string{""}}
		gt.Error(t, overrides.Validate())
	})
}
