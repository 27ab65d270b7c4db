package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
	"github.com/classhub/backend/core/authz"
	"github.com/classhub/backend/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("comment not found")
)

type (
	Repository interface {
		CreateComment(ctx context.Context, cmt Comment, exec ...core.DBExecutor) (Comment, error)
		GetCommentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Comment, error)
		// QueryCommentsByAnnouncementID returns the announcement's comments, newest first.
		QueryCommentsByAnnouncementID(ctx context.Context, announcementID string, p core.DBPagination, exec ...core.DBExecutor) ([]Comment, error)
		QueryCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) ([]Comment, error)
		UpdateComment(ctx context.Context, cmt Comment, exec ...core.DBExecutor) (Comment, error)
		DeleteCommentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error
		DeleteCommentsByAnnouncementID(ctx context.Context, announcementID string, exec ...core.DBExecutor) error
		DeleteCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo    Repository
		annRepo announcement.Repository
	}
)

func NewService(repo Repository, annRepo announcement.Repository) *Service {
	return &Service{repo: repo, annRepo: annRepo}
}

// Add posts a comment on the announcement. Any authenticated user may comment.
func (svc *Service) Add(ctx context.Context, announcementID string, nc NewComment, author user.User) (Comment, error) {
	ann, err := svc.annRepo.GetAnnouncementByID(ctx, announcementID)
	if err != nil {
		return Comment{}, err
	}

	now := time.Now().UTC()
	cmt := Comment{
		ID:             uuid.New().String(),
		AnnouncementID: ann.ID,
		AuthorID:       author.ID,
		Content:        core.CleanString(nc.Content),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateComment(ctx, cmt)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Comment, error) {
	return svc.repo.GetCommentByID(ctx, id)
}

// ForAnnouncement lists an announcement's comments, newest first.
func (svc *Service) ForAnnouncement(ctx context.Context, announcementID string, p core.DBPagination) ([]Comment, error) {
	if _, err := svc.annRepo.GetAnnouncementByID(ctx, announcementID); err != nil {
		return nil, err
	}
	return svc.repo.QueryCommentsByAnnouncementID(ctx, announcementID, p)
}

func (svc *Service) ForAuthor(ctx context.Context, authorID string) ([]Comment, error) {
	return svc.repo.QueryCommentsByAuthorID(ctx, authorID)
}

// Update overwrites the content; only the author may call it.
func (svc *Service) Update(ctx context.Context, id string, uc UpdateComment, principal user.User) (Comment, error) {
	cmt, err := svc.repo.GetCommentByID(ctx, id)
	if err != nil {
		return Comment{}, err
	}
	if !authz.CanUpdateComment(principal.ID, cmt.AuthorID) {
		return Comment{}, core.ErrPermissionDenied
	}

	cmt.Content = core.CleanString(uc.Content)
	cmt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateComment(ctx, cmt)
}

// Delete removes the comment. Permitted to the comment's author and to the
// teacher of the announcement it belongs to.
func (svc *Service) Delete(ctx context.Context, id string, principal user.User) error {
	cmt, err := svc.repo.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	ann, err := svc.annRepo.GetAnnouncementByID(ctx, cmt.AnnouncementID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteComment(principal.ID, cmt.AuthorID, ann.TeacherID) {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteCommentsByID(ctx, []string{cmt.ID})
}
