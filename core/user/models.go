package user

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of account kinds. Free-text input is parsed at the
// boundary; anything unknown falls back to RoleStudent.
type Role string

const (
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// ParseRole maps free-text input to a Role, defaulting to RoleStudent for
// missing or unknown values. The permissive default is intentional.
func ParseRole(s string) Role {
	if r, ok := MatchRole(s); ok {
		return r
	}
	return RoleStudent
}

// MatchRole maps free-text input to a Role, reporting whether it named one.
func MatchRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTeacher:
		return RoleTeacher, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

type User struct {
	ID           string    `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Bio          string    `json:"bio" db:"bio"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to register a new User.
type NewUser struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email,gmail"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
}

// UpdateUser defines what information may be provided to modify an existing
// User. Absent fields are left unchanged, never reset to empty.
type UpdateUser struct {
	FirstName null.String `json:"first_name"`
	LastName  null.String `json:"last_name"`
	Email     null.String `json:"email"`
	Password  null.String `json:"password"`
	Role      null.String `json:"role"`
	Bio       null.String `json:"bio"`
}

func (uu UpdateUser) IsEmpty() bool {
	return !uu.FirstName.Valid && !uu.LastName.Valid && !uu.Email.Valid &&
		!uu.Password.Valid && !uu.Role.Valid && !uu.Bio.Valid
}
