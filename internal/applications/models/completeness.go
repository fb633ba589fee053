package models

import (
	catalogmodels "portal/internal/catalog/models"
	id "portal/pkg/domain"
)

// RequirementStatus is one requirement of the offering and the document
// attached to it, if any.
type RequirementStatus struct {
	Requirement catalogmodels.Requirement
	Document    *Document
}

type Completeness struct {
	Complete     bool
	Requirements []RequirementStatus
	// Total counts every requirement of the offering, document-backed or not.
	Total    int
	Uploaded int
}

// CheckCompleteness compares the document-backed requirements of offering
// with the requirements that have a document. The application is complete
// iff both sets are equal; an offering without document-backed requirements
// is always complete.
func CheckCompleteness(offering *catalogmodels.Offering, docs []*Document) Completeness {
	byRequirement := make(map[id.RequirementID]*Document, len(docs))
	for _, d := range docs {
		byRequirement[d.RequirementID] = d
	}

	out := Completeness{
		Requirements: make([]RequirementStatus, 0, len(offering.Requirements)),
		Total:        len(offering.Requirements),
		Uploaded:     len(docs),
	}
	for _, r := range offering.Requirements {
		out.Requirements = append(out.Requirements, RequirementStatus{Requirement: r, Document: byRequirement[r.ID]})
	}

	required := offering.DocumentRequirements()
	if len(required) == 0 {
		out.Complete = true
		return out
	}
	if len(required) != len(byRequirement) {
		return out
	}
	for _, r := range required {
		if _, ok := byRequirement[r.ID]; !ok {
			return out
		}
	}
	out.Complete = true
	return out
}
