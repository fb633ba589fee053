package models

import (
	"fmt"
	"time"

	id "portal/pkg/domain"
)

// FolioLayout formats the sequence number of an application.
const FolioLayout = "SOL-%06d"

func Folio(seq int64) string {
	return fmt.Sprintf(FolioLayout, seq)
}

// Application is a citizen's request for exactly one procedure or program.
type Application struct {
	ID          id.ApplicationID
	Folio       string
	CitizenID   id.CitizenID
	ProcedureID *id.ProcedureID
	ProgramID   *id.ProgramID
	Status      id.ApplicationStatus
	Description string
	Comments    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transition moves the application to status. A nil comment keeps the stored
// reviewer comment; an empty one clears it. Every target status is reachable
// from every source; the caller decides what to do when changed is false.
func (a *Application) Transition(to id.ApplicationStatus, comment *string, now time.Time) (old, current id.ApplicationStatus, changed bool) {
	old = a.Status
	a.Status = to
	if comment != nil {
		a.Comments = *comment
	}
	a.UpdatedAt = now
	return old, to, old != to
}

type ChangeType string

const (
	ChangeCreated ChangeType = "CREACION"
	ChangeStatus  ChangeType = "CAMBIO"
)

// HistoryEntry is one row of the audit trail. ChangedBy is nil for
// system-initiated changes.
type HistoryEntry struct {
	ApplicationID id.ApplicationID
	Status        id.ApplicationStatus
	Comments      string
	ChangedBy     *id.UserID
	ChangeType    ChangeType
	CreatedAt     time.Time
}

// Document is the file attached to one requirement of an application.
type Document struct {
	ID            id.DocumentID
	ApplicationID id.ApplicationID
	RequirementID id.RequirementID
	Path          string
	OriginalName  string
	ContentType   string
	Size          int64
	UploadedAt    time.Time
}

// Assignment links an application to an official. Reassignment deactivates
// rows instead of deleting them.
type Assignment struct {
	ID            id.AssignmentID
	ApplicationID id.ApplicationID
	OfficialID    id.OfficialID
	DepartmentID  id.DepartmentID
	Active        bool
	Automatic     bool
	AssignedBy    *id.UserID
	Notes         string
	CreatedAt     time.Time
}

// Visibility is the set of applications an actor may see, as a union of its
// non-empty members. The zero value matches nothing.
type Visibility struct {
	All          bool
	CitizenID    *id.CitizenID
	ProcedureIDs []id.ProcedureID
	ProgramIDs   []id.ProgramID
	AssignedTo   *id.OfficialID
}

// Matches reports whether a belongs to v. activeOfficials lists the
// officials holding an active assignment on a.
func (v Visibility) Matches(a *Application, activeOfficials []id.OfficialID) bool {
	if v.All {
		return true
	}
	if v.CitizenID != nil && a.CitizenID == *v.CitizenID {
		return true
	}
	if a.ProcedureID != nil {
		for _, p := range v.ProcedureIDs {
			if p == *a.ProcedureID {
				return true
			}
		}
	}
	if a.ProgramID != nil {
		for _, p := range v.ProgramIDs {
			if p == *a.ProgramID {
				return true
			}
		}
	}
	if v.AssignedTo != nil {
		for _, o := range activeOfficials {
			if o == *v.AssignedTo {
				return true
			}
		}
	}
	return false
}

// Filter narrows a visible set. Statuses combine with OR, the rest with AND.
// Results are newest first by creation, or by last update when
// RecentlyUpdated is set.
type Filter struct {
	Statuses        []id.ApplicationStatus
	Folio           string
	Limit           int
	RecentlyUpdated bool
}

// StatusCounts is keyed by every known status, zero included.
type StatusCounts map[id.ApplicationStatus]int

func NewStatusCounts() StatusCounts {
	c := make(StatusCounts, len(id.Statuses))
	for _, s := range id.Statuses {
		c[s] = 0
	}
	return c
}

// Total sums every status.
func (c StatusCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// DayCounts tallies the applications created on one UTC day. Approved and
// Rejected count those of them currently in that status.
type DayCounts struct {
	Day      time.Time
	Created  int
	Approved int
	Rejected int
}
