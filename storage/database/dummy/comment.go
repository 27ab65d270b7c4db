package dummydb

import (
	"context"
	"sort"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/comment"
)

type commentRepository struct {
	db *DB
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(db *DB) *commentRepository {
	return &commentRepository{db: db}
}

func (repo *commentRepository) CreateComment(ctx context.Context, cmt comment.Comment, exec ...core.DBExecutor) (comment.Comment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.comments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *commentRepository) GetCommentByID(ctx context.Context, id string, exec ...core.DBExecutor) (comment.Comment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cmt, ok := repo.db.comments[id]; ok {
		return *cmt, nil
	}
	return comment.Comment{}, comment.ErrNotFound
}

func (repo *commentRepository) QueryCommentsByAnnouncementID(ctx context.Context, announcementID string, p core.DBPagination, exec ...core.DBExecutor) ([]comment.Comment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var cmts []comment.Comment
	for _, cmt := range repo.db.comments {
		if cmt.AnnouncementID == announcementID {
			cmts = append(cmts, *cmt)
		}
	}
	sortCommentsNewestFirst(cmts)
	lo, hi := paginate(len(cmts), p)
	return cmts[lo:hi], nil
}

func (repo *commentRepository) QueryCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) ([]comment.Comment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var cmts []comment.Comment
	for _, cmt := range repo.db.comments {
		if cmt.AuthorID == authorID {
			cmts = append(cmts, *cmt)
		}
	}
	sortCommentsNewestFirst(cmts)
	return cmts, nil
}

func (repo *commentRepository) UpdateComment(ctx context.Context, cmt comment.Comment, exec ...core.DBExecutor) (comment.Comment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.comments[cmt.ID]
	if !ok {
		return comment.Comment{}, comment.ErrNotFound
	}
	cmt.AnnouncementID = orig.AnnouncementID
	cmt.AuthorID = orig.AuthorID
	cmt.CreatedAt = orig.CreatedAt
	repo.db.comments[cmt.ID] = &cmt
	return cmt, nil
}

func (repo *commentRepository) DeleteCommentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.comments, id)
	}
	return nil
}

func (repo *commentRepository) DeleteCommentsByAnnouncementID(ctx context.Context, announcementID string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, cmt := range repo.db.comments {
		if cmt.AnnouncementID == announcementID {
			delete(repo.db.comments, id)
		}
	}
	return nil
}

func (repo *commentRepository) DeleteCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, cmt := range repo.db.comments {
		if cmt.AuthorID == authorID {
			delete(repo.db.comments, id)
		}
	}
	return nil
}

func sortCommentsNewestFirst(cmts []comment.Comment) {
	sort.Slice(cmts, func(i, j int) bool { return cmts[i].CreatedAt.After(cmts[j].CreatedAt) })
}
