package domain

import "time"

// RoleAdmin is the only role issued by this service.
const RoleAdmin = "admin"

// Admin is an operator of the content-management panel.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the client-safe projection stored in the user_data cookie.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *Admin) Profile() Profile {
	return Profile{ID: a.ID, Name: a.Name, Email: a.Email}
}

// AdminUpdate carries the mutable fields of an administrator. Nil means unchanged.
type AdminUpdate struct {
	Name     *string
	Email    *string
	Password *string
}
