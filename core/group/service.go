package group

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/authz"
	"github.com/classhub/backend/core/user"
)

var (
	// errors
	ErrNotFound    = errors.New("group not found")
	ErrNotEnrolled = errors.New("student is not enrolled in this group")
)

const (
	joinCodeLen         = 8
	maxJoinCodeAttempts = 5
)

type (
	Repository interface {
		CreateGroup(ctx context.Context, grp Group, exec ...core.DBExecutor) (Group, error)
		GetGroupByID(ctx context.Context, id string, exec ...core.DBExecutor) (Group, error)
		// GetGroupByJoinCode matches the code ignoring case.
		GetGroupByJoinCode(ctx context.Context, code string, exec ...core.DBExecutor) (Group, error)
		// QueryGroupsByTeacherID returns the groups taught by teacherID, newest first.
		QueryGroupsByTeacherID(ctx context.Context, teacherID string, p core.DBPagination, exec ...core.DBExecutor) ([]Group, error)
		// QueryGroupsByStudentID returns the groups studentID is enrolled in, newest first.
		QueryGroupsByStudentID(ctx context.Context, studentID string, p core.DBPagination, exec ...core.DBExecutor) ([]Group, error)
		UpdateGroup(ctx context.Context, grp Group, exec ...core.DBExecutor) (Group, error)
		DeleteGroupsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error

		CreateEnrollment(ctx context.Context, enr Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		// GetEnrollment returns ErrNotEnrolled when no (group, student) row exists.
		GetEnrollment(ctx context.Context, groupID, studentID string, exec ...core.DBExecutor) (Enrollment, error)
		QueryEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) ([]Enrollment, error)
		QueryEnrollmentsByStudentID(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Enrollment, error)
		// QueryGroupMembers returns the enrolled students, first name ascending.
		QueryGroupMembers(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]user.User, error)
		DeleteEnrollmentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
		DeleteEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error
	}

	// Cascader removes a group and everything referencing it, as one transaction.
	Cascader interface {
		DeleteGroup(ctx context.Context, groupID string) error
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

// Create persists a new group owned by teacher, generating its join code. The
// code is generated once here and never regenerated afterwards.
func (svc *Service) Create(ctx context.Context, ng NewGroup, teacher user.User) (Group, error) {
	code, err := svc.generateJoinCode(ctx)
	if err != nil {
		return Group{}, err
	}

	grp := Group{
		ID:          uuid.New().String(),
		Name:        core.CleanString(ng.Name),
		Description: core.CleanString(ng.Description),
		JoinCode:    code,
		TeacherID:   teacher.ID,
		CreatedAt:   time.Now().UTC(),
	}
	grp, err = svc.repo.CreateGroup(ctx, grp)
	if err != nil {
		return Group{}, err
	}
	svc.sendJoinCodeEmail(teacher, grp)
	return grp, nil
}

// generateJoinCode draws short random codes and verifies each against the
// store before accepting, so a collision triggers a retry instead of a
// constraint violation later. The unique index remains the final authority.
func (svc *Service) generateJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < maxJoinCodeAttempts; i++ {
		code := uuid.New().String()[:joinCodeLen]
		_, err := svc.repo.GetGroupByJoinCode(ctx, code)
		if errors.Cause(err) == ErrNotFound {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", core.ErrDuplicateKey
}

func (svc *Service) GetByID(ctx context.Context, id string) (Group, error) {
	return svc.repo.GetGroupByID(ctx, id)
}

func (svc *Service) ForTeacher(ctx context.Context, teacherID string, p core.DBPagination) ([]Group, error) {
	return svc.repo.QueryGroupsByTeacherID(ctx, teacherID, p)
}

func (svc *Service) ForStudent(ctx context.Context, studentID string, p core.DBPagination) ([]Group, error) {
	return svc.repo.QueryGroupsByStudentID(ctx, studentID, p)
}

// Members lists the students enrolled in the group, first name ascending.
func (svc *Service) Members(ctx context.Context, groupID string, p core.DBPagination) ([]user.User, error) {
	if _, err := svc.repo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return svc.repo.QueryGroupMembers(ctx, groupID, p)
}

// Update overwrites the supplied fields; only the owning teacher may call it.
func (svc *Service) Update(ctx context.Context, groupID string, ug UpdateGroup, principal user.User) (Group, error) {
	grp, err := svc.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	if !authz.CanManageGroup(principal.ID, grp.TeacherID) {
		return Group{}, core.ErrPermissionDenied
	}

	if ug.Name.Valid {
		grp.Name = core.CleanString(ug.Name.String)
	}
	if ug.Description.Valid {
		grp.Description = core.CleanString(ug.Description.String)
	}
	return svc.repo.UpdateGroup(ctx, grp)
}

// Delete removes the group and everything referencing it; only the owning
// teacher may call it.
func (svc *Service) Delete(ctx context.Context, groupID string, principal user.User) error {
	grp, err := svc.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.CanManageGroup(principal.ID, grp.TeacherID) {
		return core.ErrPermissionDenied
	}
	return svc.cascade.DeleteGroup(ctx, grp.ID)
}

// JoinByCode enrolls student in the group matching code (case-insensitively).
// Joining a group the student already belongs to is idempotent: the existing
// enrollment is kept and the group returned without error.
func (svc *Service) JoinByCode(ctx context.Context, code string, student user.User) (Group, error) {
	grp, err := svc.repo.GetGroupByJoinCode(ctx, core.CleanString(code))
	if err != nil {
		return Group{}, err
	}

	if _, err = svc.repo.GetEnrollment(ctx, grp.ID, student.ID); err == nil {
		return grp, nil
	} else if errors.Cause(err) != ErrNotEnrolled {
		return Group{}, err
	}

	enr := Enrollment{
		ID:         uuid.New().String(),
		GroupID:    grp.ID,
		StudentID:  student.ID,
		EnrolledAt: time.Now().UTC(),
	}
	if _, err = svc.repo.CreateEnrollment(ctx, enr); err != nil {
		// a concurrent join can win the race between the existence check and
		// the insert; the unique (group, student) pair reports that as a
		// duplicate, which is still the idempotent success case
		if errors.Cause(err) == core.ErrDuplicateKey {
			return grp, nil
		}
		return Group{}, err
	}
	return grp, nil
}

// Leave removes the requesting student's own enrollment.
func (svc *Service) Leave(ctx context.Context, groupID string, student user.User) error {
	grp, err := svc.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	enr, err := svc.repo.GetEnrollment(ctx, grp.ID, student.ID)
	if err != nil {
		return err
	}
	return svc.repo.DeleteEnrollmentsByID(ctx, []string{enr.ID})
}

// RemoveStudent removes studentID's enrollment; only the owning teacher may
// call it.
func (svc *Service) RemoveStudent(ctx context.Context, groupID, studentID string, principal user.User) error {
	grp, err := svc.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return err
	}
	if !authz.CanRemoveStudent(principal.ID, grp.TeacherID) {
		return core.ErrPermissionDenied
	}
	enr, err := svc.repo.GetEnrollment(ctx, grp.ID, studentID)
	if err != nil {
		return err
	}
	return svc.repo.DeleteEnrollmentsByID(ctx, []string{enr.ID})
}

func (svc *Service) sendJoinCodeEmail(teacher user.User, grp Group) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: teacher.FirstName + " " + teacher.LastName, Address: teacher.Email}},
		Subject: fmt.Sprintf("Join code for %q", grp.Name),
		Body: fmt.Sprintf(
			"Your group %q is ready. Students can join with the code %s.\n",
			grp.Name, grp.JoinCode,
		),
	})
}
