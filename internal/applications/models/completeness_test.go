package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	catalogmodels "portal/internal/catalog/models"
	id "portal/pkg/domain"
)

func requirement(documentRequired bool) catalogmodels.Requirement {
	return catalogmodels.Requirement{ID: id.RequirementID(uuid.New()), Name: "req", DocumentRequired: documentRequired}
}

func doc(reqID id.RequirementID) *Document {
	return &Document{ID: id.DocumentID(uuid.New()), RequirementID: reqID}
}

func TestCheckCompleteness(t *testing.T) {
	t.Run("no document-backed requirements is complete", func(t *testing.T) {
		o := &catalogmodels.Offering{Requirements: []catalogmodels.Requirement{requirement(false)}}
		got := CheckCompleteness(o, nil)
		assert.True(t, got.Complete)
		assert.Equal(t, 1, got.Total)
		assert.Zero(t, got.Uploaded)
	})

	t.Run("empty requirement set is complete", func(t *testing.T) {
		assert.True(t, CheckCompleteness(&catalogmodels.Offering{}, nil).Complete)
	})

	a, b, c := requirement(true), requirement(true), requirement(true)
	o := &catalogmodels.Offering{Requirements: []catalogmodels.Requirement{a, b, c}}

	t.Run("every proper subset is incomplete", func(t *testing.T) {
		subsets := [][]*Document{
			nil,
			{doc(a.ID)},
			{doc(b.ID), doc(c.ID)},
			{doc(a.ID), doc(c.ID)},
		}
		for _, docs := range subsets {
			assert.False(t, CheckCompleteness(o, docs).Complete)
		}
	})

	t.Run("one document per requirement is complete", func(t *testing.T) {
		got := CheckCompleteness(o, []*Document{doc(a.ID), doc(b.ID), doc(c.ID)})
		assert.True(t, got.Complete)
		assert.Equal(t, 3, got.Uploaded)
		for _, r := range got.Requirements {
			assert.NotNil(t, r.Document)
		}
	})

	t.Run("document outside the required set breaks equality", func(t *testing.T) {
		optional := requirement(false)
		withOptional := &catalogmodels.Offering{Requirements: []catalogmodels.Requirement{a, optional}}
		got := CheckCompleteness(withOptional, []*Document{doc(a.ID), doc(optional.ID)})
		assert.False(t, got.Complete)
	})
}

func TestTransition(t *testing.T) {
	app := &Application{Status: id.StatusPending}
	comment := func(s string) *string { return &s }

	old, current, changed := app.Transition(id.StatusApproved, comment("Listo"), fixedNow)
	assert.Equal(t, id.StatusPending, old)
	assert.Equal(t, id.StatusApproved, current)
	assert.True(t, changed)
	assert.Equal(t, "Listo", app.Comments)

	old, _, changed = app.Transition(id.StatusApproved, comment("otra vez"), fixedNow)
	assert.Equal(t, id.StatusApproved, old)
	assert.False(t, changed)
	assert.Equal(t, "otra vez", app.Comments)

	_, _, changed = app.Transition(id.StatusPending, nil, fixedNow)
	assert.True(t, changed, "terminal statuses can be left")
	assert.Equal(t, "otra vez", app.Comments, "no comment keeps the stored one")

	app.Transition(id.StatusPending, comment(""), fixedNow)
	assert.Empty(t, app.Comments, "an explicit empty comment clears it")
}

func TestVisibility(t *testing.T) {
	proc := id.ProcedureID(uuid.New())
	official := id.OfficialID(uuid.New())
	citizen := id.CitizenID(uuid.New())
	app := &Application{CitizenID: citizen, ProcedureID: &proc}

	assert.False(t, Visibility{}.Matches(app, nil))
	assert.True(t, Visibility{All: true}.Matches(app, nil))
	assert.True(t, Visibility{CitizenID: &citizen}.Matches(app, nil))
	assert.True(t, Visibility{ProcedureIDs: []id.ProcedureID{proc}}.Matches(app, nil))
	assert.False(t, Visibility{ProgramIDs: []id.ProgramID{id.ProgramID(proc)}}.Matches(app, nil))
	assert.True(t, Visibility{AssignedTo: &official}.Matches(app, []id.OfficialID{official}))
	assert.False(t, Visibility{AssignedTo: &official}.Matches(app, nil))
}

func TestFolio(t *testing.T) {
	assert.Equal(t, "SOL-000042", Folio(42))
	assert.Equal(t, "SOL-1234567", Folio(1234567))
}

var fixedNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
