package models

import id "portal/pkg/domain"

// NewAccount describes an account to create. An empty Password asks the
// service to generate a temporary one.
type NewAccount struct {
	Username  string
	Email     string
	Password  string
	Role      id.Role
	FirstName string
	LastName  string
}

// AccountUpdate carries the fields an administrator may change. Nil fields
// are left untouched.
type AccountUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *id.Role
	Active    *bool
	Password  *string
}
