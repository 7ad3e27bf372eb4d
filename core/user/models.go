package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/ratiba/core"
)

// Roles
const (
	RoleHeadmaster  = "headmaster"
	RoleCoordinator = "coordinator"
	RoleTeacher     = "teacher"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

var (
	AllRoles    = []string{RoleHeadmaster, RoleCoordinator, RoleTeacher}
	AllStatuses = []string{StatusActive, StatusInactive, StatusSuspended}
)

type User struct {
	ID              string    `json:"id"`
	SchoolID        string    `json:"school_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	HasTeachingFunc bool      `json:"has_teaching_func"`
	PasswordHash    []byte    `json:"-"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
	LastLogin       time.Time `json:"last_login"` // UTC
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
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

func (u *User) IsHeadmaster() bool { return u.Role == RoleHeadmaster }
func (u *User) IsCoordinator() bool { return u.Role == RoleCoordinator }
func (u *User) IsTeacher() bool    { return u.Role == RoleTeacher }
func (u *User) IsActive() bool     { return u.Status == StatusActive }

// CheckCoordinator asserts the role and status preconditions shared by every
// chain that references a coordinator (class, subject, group, teacher).
func CheckCoordinator(usr User) core.RelationCheck {
	return func() error {
		if !usr.IsCoordinator() {
			return core.NewBadRequestError("user is not a coordinator")
		}
		if !usr.IsActive() {
			return core.NewBadRequestError("coordinator account is not active")
		}
		return nil
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	SchoolID        string `json:"school_id" validate:"required"`
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,oneof=headmaster coordinator teacher"`
	Status          string `json:"status" validate:"required,oneof=active inactive suspended"`
	HasTeachingFunc bool   `json:"has_teaching_func"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate() error {
	nu.SchoolID = core.CleanString(nu.SchoolID)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.Validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	SchoolID        string `json:"school_id" validate:"required"`
	FirstName       string `json:"first_name" validate:"required,max=50"`
	LastName        string `json:"last_name" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,oneof=headmaster coordinator teacher"`
	Status          string `json:"status" validate:"required,oneof=active inactive suspended"`
	HasTeachingFunc bool   `json:"has_teaching_func"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate() error {
	uu.SchoolID = core.CleanString(uu.SchoolID)
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	return core.Validate.Struct(uu)
}
