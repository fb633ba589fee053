package models

import (
	"io"

	id "portal/pkg/domain"
)

// Submission is a citizen's new application with the files uploaded with it.
type Submission struct {
	ProcedureID *id.ProcedureID
	ProgramID   *id.ProgramID
	Description string
	Files       []Upload
}

// Upload is one file destined for a requirement. Head holds the first bytes
// for content sniffing; Body streams the whole file. A nil Body means Head
// is the whole file.
type Upload struct {
	RequirementID id.RequirementID
	Name          string
	Size          int64
	Head          []byte
	Body          io.Reader
}

// StatusChange carries the target status. Comment is nil when the client did
// not send one.
type StatusChange struct {
	Status  id.ApplicationStatus
	Comment *string
}

// CommentText is the comment for history and notifications, empty when absent.
func (c StatusChange) CommentText() string {
	if c.Comment == nil {
		return ""
	}
	return *c.Comment
}

type AssignmentInput struct {
	ApplicationID id.ApplicationID
	OfficialID    id.OfficialID
	Notes         string
}
