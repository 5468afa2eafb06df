package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/logging"
	"github.com/opencivicdata/ocdids/pkg/provenance"
	"github.com/opencivicdata/ocdids/pkg/records"
)

type row struct {
	id, name, sameAs string
}

func newState(rows ...row) *records.State {
	state := records.NewState("ca")
	for _, r := range rows {
		rec := records.New(r.id)
		rec.Name = r.name
		rec.SameAs = r.sameAs
		state.Records[r.id] = rec
		state.FieldCounts["id"]++
		state.Sources.Touch(r.id, "fragment.csv")
		if r.name != "" {
			state.FieldCounts["name"]++
			state.Sources.Track(r.id, "name", provenance.Provenance{Source: "fragment.csv", Value: r.name})
		}
	}
	return state
}

func resolve(state *records.State) error {
	return New(logging.NewNopLogger()).Resolve(state)
}

func TestResolveValid(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca", name: "Canada"},
		row{id: "ocd-division/country:ca/province:on", name: "Ontario"},
		row{id: "ocd-division/country:ca/ed:35001-2013", name: "Ajax"},
	)
	assert.NoError(t, resolve(state))
}

func TestResolveMissingParents(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca", name: "Canada"},
		row{id: "ocd-division/country:ca/province:on/cd:3520/csd:3520005", name: "Toronto"},
		row{id: "ocd-division/country:ca/province:on/cd:3520/csd:3520006", name: "Other"},
		row{id: "ocd-division/country:ca/province:bc/cd:5915", name: "Greater Vancouver"},
	)

	err := resolve(state)
	require.Error(t, err)

	var missing *errors.MissingParentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{
		"ocd-division/country:ca/province:bc",
		"ocd-division/country:ca/province:on/cd:3520",
	}, missing.Parents)
	assert.Len(t, missing.Children["ocd-division/country:ca/province:on/cd:3520"], 2)
	assert.Contains(t, err.Error(), "2 unknown parents")
}

func TestResolveImplicitCountryRoot(t *testing.T) {
	state := newState(row{id: "ocd-division/country:ca/province:on", name: "Ontario"})
	assert.NoError(t, resolve(state))
}

func TestResolveAliasInheritsName(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca", name: "Canada"},
		row{id: "ocd-division/country:ca/ed:35001-2004", sameAs: "ocd-division/country:ca/ed:35001-2013"},
		row{id: "ocd-division/country:ca/ed:35001-2013", name: "Ajax"},
	)

	require.NoError(t, resolve(state))

	alias, _ := state.Get("ocd-division/country:ca/ed:35001-2004")
	assert.Equal(t, "Ajax", alias.Name)
	assert.Equal(t, 3, state.FieldCounts["name"])

	p, ok := state.Sources.FindByField(alias.ID, "name")
	require.True(t, ok)
	assert.Equal(t, "fragment.csv", p.Source)
}

func TestResolveAliasKeepsOwnName(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca", name: "Canada"},
		row{id: "ocd-division/country:ca/ed:old", name: "Old Name", sameAs: "ocd-division/country:ca/ed:new"},
		row{id: "ocd-division/country:ca/ed:new", name: "New Name"},
	)

	require.NoError(t, resolve(state))
	alias, _ := state.Get("ocd-division/country:ca/ed:old")
	assert.Equal(t, "Old Name", alias.Name)
}

func TestResolveBrokenAliases(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		want *errors.BrokenAliasError
		msg  string
	}{
		{
			name: "nonexistent target",
			rows: []row{
				{id: "ocd-division/country:ca", name: "Canada"},
				{id: "ocd-division/country:ca/fed:essex", name: "Essex", sameAs: "ocd-division/country:ca/fed:gone"},
			},
			want: &errors.BrokenAliasError{ID: "ocd-division/country:ca/fed:essex", Target: "ocd-division/country:ca/fed:gone"},
			msg:  "sameAs points to nonexistent id",
		},
		{
			name: "chain",
			rows: []row{
				{id: "ocd-division/country:ca", name: "Canada"},
				{id: "ocd-division/country:ca/fed:essex", name: "Essex", sameAs: "ocd-division/country:ca/fed:essex-windsor"},
				{id: "ocd-division/country:ca/fed:essex-windsor", name: "Essex-Windsor", sameAs: "ocd-division/country:ca/fed:kent-essex"},
				{id: "ocd-division/country:ca/fed:kent-essex", name: "Kent-Essex"},
			},
			want: &errors.BrokenAliasError{
				ID:     "ocd-division/country:ca/fed:essex",
				Target: "ocd-division/country:ca/fed:essex-windsor",
				Next:   "ocd-division/country:ca/fed:kent-essex",
			},
			msg: "sameAs chain: ocd-division/country:ca/fed:essex -> ocd-division/country:ca/fed:essex-windsor -> ocd-division/country:ca/fed:kent-essex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolve(newState(tt.rows...))
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrBrokenAlias)

			var broken *errors.BrokenAliasError
			require.ErrorAs(t, err, &broken)
			assert.Equal(t, tt.want, broken)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestResolveReportsEverything(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca", name: "Canada"},
		row{id: "ocd-division/country:ca/province:on/cd:1", name: "Orphan"},
		row{id: "ocd-division/country:ca/fed:a", name: "A", sameAs: "ocd-division/country:ca/fed:missing"},
	)

	var agg *errors.IntegrityError
	require.ErrorAs(t, resolve(state), &agg)
	assert.Len(t, agg.Errs, 2)
	assert.ErrorIs(t, agg, errors.ErrMissingParent)
	assert.ErrorIs(t, agg, errors.ErrBrokenAlias)
}

func TestResolveSkipsRejectedParents(t *testing.T) {
	state := newState(
		row{id: "ocd-division/country:ca/province:on/csd:toronto", name: "Toronto"},
		row{id: "ocd-division/country:ca/province:qc/csd:montreal", name: "Montréal"},
	)
	state.Reject("ocd-division/country:ca/province:on")

	err := resolve(state)
	var missing *errors.MissingParentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ocd-division/country:ca/province:qc"}, missing.Parents)
}
