// Package audit records security-relevant account activity: logins,
// token rotation, password changes and account administration.
package audit

import (
	"time"

	id "portal/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers authentication outcomes and token lifecycle.
	CategorySecurity EventCategory = "security"

	// CategoryCompliance covers changes to accounts made by administrators.
	CategoryCompliance EventCategory = "compliance"
)

// Event is emitted from domain logic. UserID is the affected account and may
// be nil for failed logins against unknown usernames, in which case Subject
// carries the attempted username.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Subject   string
	Action    string
	Reason    string
	RequestID string
	// ActorID is set when an administrator acts on another account.
	ActorID  string
	ClientIP string
}

type AuditEvent string

const (
	EventLoginSucceeded       AuditEvent = "login_succeeded"
	EventLoginFailed          AuditEvent = "login_failed"
	EventTokenRefreshed       AuditEvent = "token_refreshed"
	EventLogout               AuditEvent = "logout"
	EventPasswordChanged      AuditEvent = "password_changed"
	EventPasswordChangeFailed AuditEvent = "password_change_failed"
	EventUserCreated          AuditEvent = "user_created"
	EventUserUpdated          AuditEvent = "user_updated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLoginSucceeded:       CategorySecurity,
	EventLoginFailed:          CategorySecurity,
	EventTokenRefreshed:       CategorySecurity,
	EventLogout:               CategorySecurity,
	EventPasswordChanged:      CategorySecurity,
	EventPasswordChangeFailed: CategorySecurity,
	EventUserCreated:          CategoryCompliance,
	EventUserUpdated:          CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategorySecurity.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategorySecurity
}
