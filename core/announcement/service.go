package announcement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/authz"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement, exec ...core.DBExecutor) (Announcement, error)
		GetAnnouncementByID(ctx context.Context, id string, exec ...core.DBExecutor) (Announcement, error)
		// QueryAnnouncementsByGroupID returns the group's announcements, newest first.
		QueryAnnouncementsByGroupID(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]Announcement, error)
		QueryAnnouncementsByTeacherID(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]Announcement, error)
		UpdateAnnouncement(ctx context.Context, ann Announcement, exec ...core.DBExecutor) (Announcement, error)
		DeleteAnnouncementsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
		DeleteAnnouncementsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error
	}

	// Cascader removes an announcement together with its comments, as one
	// transaction.
	Cascader interface {
		DeleteAnnouncement(ctx context.Context, announcementID string) error
	}

	Service struct {
		repo      Repository
		groupRepo group.Repository
		cascade   Cascader
	}
)

func NewService(repo Repository, groupRepo group.Repository, cascade Cascader) *Service {
	return &Service{repo: repo, groupRepo: groupRepo, cascade: cascade}
}

// Create posts an announcement to the group; only the group's teacher may post.
func (svc *Service) Create(ctx context.Context, groupID string, na NewAnnouncement, principal user.User) (Announcement, error) {
	grp, err := svc.groupRepo.GetGroupByID(ctx, groupID)
	if err != nil {
		return Announcement{}, err
	}
	if !authz.CanManageGroup(principal.ID, grp.TeacherID) {
		return Announcement{}, core.ErrPermissionDenied
	}

	now := time.Now().UTC()
	ann := Announcement{
		ID:        uuid.New().String(),
		GroupID:   grp.ID,
		TeacherID: principal.ID,
		Content:   core.CleanString(na.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateAnnouncement(ctx, ann)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(ctx, id)
}

// ForGroup lists a group's announcements, newest first. Reads are
// world-visible within the authenticated space.
func (svc *Service) ForGroup(ctx context.Context, groupID string, p core.DBPagination) ([]Announcement, error) {
	if _, err := svc.groupRepo.GetGroupByID(ctx, groupID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAnnouncementsByGroupID(ctx, groupID, p)
}

func (svc *Service) ForTeacher(ctx context.Context, teacherID string) ([]Announcement, error) {
	return svc.repo.QueryAnnouncementsByTeacherID(ctx, teacherID)
}

// Update overwrites the content; only the authoring teacher may call it.
func (svc *Service) Update(ctx context.Context, id string, ua UpdateAnnouncement, principal user.User) (Announcement, error) {
	ann, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if !authz.CanManageAnnouncement(principal.ID, ann.TeacherID) {
		return Announcement{}, core.ErrPermissionDenied
	}

	ann.Content = core.CleanString(ua.Content)
	ann.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAnnouncement(ctx, ann)
}

// Delete removes the announcement and its comments; only the authoring teacher
// may call it.
func (svc *Service) Delete(ctx context.Context, id string, principal user.User) error {
	ann, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManageAnnouncement(principal.ID, ann.TeacherID) {
		return core.ErrPermissionDenied
	}
	return svc.cascade.DeleteAnnouncement(ctx, ann.ID)
}
