package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope is a role capability tag used for authorization checks.
type Scope string

const (
	ScopeAdmin   Scope = "admin"
	ScopeTrainer Scope = "trainer"
	ScopeClient  Scope = "client"
)

// Role is the named role attached to a user together with its scope set.
// A role with no scopes is "not yet valid": the user exists but cannot log in
// (e.g. a trainer awaiting admin validation).
type Role struct {
	Name   string  `bson:"name" json:"name"`
	Scopes []Scope `bson:"scopes" json:"scopes"`
}

// HasScope reports whether the role carries the given scope.
func (r Role) HasScope(scope Scope) bool {
	for _, s := range r.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// User is the identity record. Name, email and tax number (when present) are
// unique across the collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose via JSON
	Role         Role               `bson:"role" json:"role"`

	FirstName   string     `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName    string     `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Phone       string     `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth *time.Time `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Address     string     `bson:"address,omitempty" json:"address,omitempty"`
	Country     string     `bson:"country,omitempty" json:"country,omitempty"`
	TaxNumber   string     `bson:"taxNumber,omitempty" json:"taxNumber,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool   { return u.Role.HasScope(ScopeAdmin) }
func (u *User) IsTrainer() bool { return u.Role.HasScope(ScopeTrainer) }
func (u *User) IsClient() bool  { return u.Role.HasScope(ScopeClient) }
