package models

import (
	"cmp"
	"slices"

	id "portal/pkg/domain"
)

type OfferingKind string

const (
	OfferingProcedure OfferingKind = "TRAMITE"
	OfferingProgram   OfferingKind = "PROGRAMA"
)

// Offering is the procedure or program an application targets, resolved to
// its department and requirement set.
type Offering struct {
	Kind         OfferingKind
	ProcedureID  *id.ProcedureID
	ProgramID    *id.ProgramID
	DepartmentID id.DepartmentID
	Name         string
	Active       bool
	Requirements []Requirement
}

// DocumentRequirements is the document-backed subset of the requirements.
func (o *Offering) DocumentRequirements() []Requirement {
	out := make([]Requirement, 0, len(o.Requirements))
	for _, r := range o.Requirements {
		if r.DocumentRequired {
			out = append(out, r)
		}
	}
	return out
}

// Requirement finds one of the offering's own requirements.
func (o *Offering) Requirement(reqID id.RequirementID) (Requirement, bool) {
	for _, r := range o.Requirements {
		if r.ID == reqID {
			return r, true
		}
	}
	return Requirement{}, false
}

// SortRequirements orders document-backed first, then mandatory, then by name.
func SortRequirements(reqs []Requirement) {
	slices.SortStableFunc(reqs, func(a, b Requirement) int {
		if a.DocumentRequired != b.DocumentRequired {
			if a.DocumentRequired {
				return -1
			}
			return 1
		}
		if a.Mandatory != b.Mandatory {
			if a.Mandatory {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
