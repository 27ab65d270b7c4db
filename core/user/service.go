package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
)

var (
	// errors
	ErrNotFound     = errors.New("user not found")
	ErrEmailExists  = errors.New("a user with this email already exists")
	ErrInvalidEmail = errors.New("email must be a @gmail.com address")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when another user (not
		// among excludedIDs) already holds email. The match ignores case.
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		QueryAllUsers(ctx context.Context, exec ...core.DBExecutor) ([]User, error)
		GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		FilterUsersByRole(ctx context.Context, role Role, exec ...core.DBExecutor) ([]User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
	}

	// Cascader removes a user and every entity that would otherwise reference
	// its id, as one transaction.
	Cascader interface {
		DeleteUser(ctx context.Context, userID string) error
	}

	Service struct {
		repo    Repository
		cascade Cascader
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, cascade Cascader, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, cascade: cascade, mailSvc: mailSvc, conf: conf}
}

// Register creates a new User. The email must be a @gmail.com address and not
// yet taken; the role defaults to STUDENT for missing or unknown input.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	email := core.CleanString(nu.Email, true /* lower */)
	if !core.IsGmailAddress(email) {
		return User{}, ErrInvalidEmail
	}
	if err := svc.repo.CheckEmailUniqueness(ctx, email, nil); err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		FirstName: core.CleanString(nu.FirstName),
		LastName:  core.CleanString(nu.LastName),
		Email:     email,
		Role:      ParseRole(nu.Role),
		Bio:       core.CleanString(nu.Bio),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) FilterByRole(ctx context.Context, role Role) ([]User, error) {
	return svc.repo.FilterUsersByRole(ctx, role)
}

// Update applies a partial profile update: only fields explicitly supplied are
// overwritten.
func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if uu.FirstName.Valid {
		usr.FirstName = core.CleanString(uu.FirstName.String)
	}
	if uu.LastName.Valid {
		usr.LastName = core.CleanString(uu.LastName.String)
	}
	if uu.Bio.Valid {
		usr.Bio = core.CleanString(uu.Bio.String)
	}
	if uu.Email.Valid {
		email := core.CleanString(uu.Email.String, true /* lower */)
		if !core.IsGmailAddress(email) {
			return User{}, ErrInvalidEmail
		}
		if err = svc.repo.CheckEmailUniqueness(ctx, email, []string{usr.ID}); err != nil {
			return User{}, err
		}
		usr.Email = email
	}
	if uu.Password.Valid && uu.Password.String != "" {
		if err = usr.SetPassword(uu.Password.String); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	if uu.Role.Valid {
		// an unknown value on update is ignored rather than demoting the user
		if role, ok := MatchRole(uu.Role.String); ok {
			usr.Role = role
		}
	}
	usr.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateUser(ctx, usr)
}

// SetPassword overwrites the user's password hash. Used by the operator CLI.
func (svc *Service) SetPassword(ctx context.Context, id, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// Delete removes the user and cascades over every comment, announcement,
// enrollment and group that references it.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetUserByID(ctx, id); err != nil {
		return err
	}
	return svc.cascade.DeleteUser(ctx, id)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FirstName + " " + usr.LastName, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account is ready. Sign in at %s to get started.\n",
			usr.FirstName, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}
