package models

import id "portal/pkg/domain"

type Registration struct {
	CURP            string
	FirstName       string
	PaternalSurname string
	MaternalSurname string
	BirthDate       string
	Sex             string
	Email           string
	Phone           string
	Street          string
	ExteriorNumber  string
	InteriorNumber  string
	LocalityID      *id.LocalityID
	Password        string
}

// Update holds the contact fields a citizen may change. Nil fields are left
// untouched.
type Update struct {
	Email          *string
	Phone          *string
	Street         *string
	ExteriorNumber *string
	InteriorNumber *string
	LocalityID     *id.LocalityID
}
