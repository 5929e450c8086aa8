package model

import "time"

// Field names accepted by repository lookups and projections.
const (
	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldAge       = "age"
	FieldSign      = "sign"
)

// User represents a registered account.
//
// PasswordHash only ever carries the hashed form. A new plaintext is staged
// with SetPassword and replaced by its hash when the record is prepared for
// persistence. Records loaded without FieldPassword have an empty hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Sign         string    `json:"sign,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	pendingPassword  string
	passwordModified bool
}

// SetPassword stages a new plaintext password and marks the password dirty.
func (u *User) SetPassword(plain string) {
	u.pendingPassword = plain
	u.passwordModified = true
}

// PasswordModified reports whether a plaintext password is staged and has not
// been hashed yet.
func (u *User) PasswordModified() bool {
	return u.passwordModified
}

// PendingPassword returns the staged plaintext, if any.
func (u *User) PendingPassword() (string, bool) {
	return u.pendingPassword, u.passwordModified
}

// ApplyPasswordHash swaps the staged plaintext for its hash and clears the
// dirty flag.
func (u *User) ApplyPasswordHash(hash string) {
	u.PasswordHash = hash
	u.pendingPassword = ""
	u.passwordModified = false
}

// Clone returns a copy safe to hand across store boundaries.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

// Record returns a copy carrying only persisted state, without any staged
// plaintext.
func (u *User) Record() *User {
	c := u.Clone()
	if c != nil {
		c.pendingPassword = ""
		c.passwordModified = false
	}
	return c
}

// HasField reports whether fields contains name.
func HasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// IsLookupField reports whether name may be used in FindByField.
func IsLookupField(name string) bool {
	switch name {
	case FieldUsername, FieldFirstName, FieldLastName, FieldAge, FieldSign:
		return true
	default:
		return false
	}
}
