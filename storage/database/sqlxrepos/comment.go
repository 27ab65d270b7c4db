package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/comment"
)

type commentRepository struct {
	exec core.DBExecutor
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(exec core.DBExecutor) *commentRepository {
	return &commentRepository{exec: exec}
}

func (repo commentRepository) CreateComment(ctx context.Context, cmt comment.Comment, exec ...core.DBExecutor) (comment.Comment, error) {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO comments (id, announcement_id, author_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cmt.ID, cmt.AnnouncementID, cmt.AuthorID, cmt.Content, cmt.CreatedAt, cmt.UpdatedAt,
	)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "creating comment")
	}
	return cmt, nil
}

func (repo commentRepository) GetCommentByID(ctx context.Context, id string, exec ...core.DBExecutor) (comment.Comment, error) {
	var cmt comment.Comment
	err := getExec(repo.exec, exec).GetContext(ctx, &cmt, `SELECT * FROM comments WHERE id = $1`, id)
	if err != nil {
		return comment.Comment{}, trapNoRowsErr(err, comment.ErrNotFound, "finding comment by id")
	}
	return cmt, nil
}

func (repo commentRepository) QueryCommentsByAnnouncementID(ctx context.Context, announcementID string, p core.DBPagination, exec ...core.DBExecutor) ([]comment.Comment, error) {
	var cmts []comment.Comment
	err := getExec(repo.exec, exec).SelectContext(ctx, &cmts,
		`SELECT * FROM comments WHERE announcement_id = $1 `+orderBy(newestFirst)+p.String(), announcementID)
	return cmts, errors.Wrap(err, "querying comments by announcement")
}

func (repo commentRepository) QueryCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) ([]comment.Comment, error) {
	var cmts []comment.Comment
	err := getExec(repo.exec, exec).SelectContext(ctx, &cmts,
		`SELECT * FROM comments WHERE author_id = $1 `+orderBy(newestFirst), authorID)
	return cmts, errors.Wrap(err, "querying comments by author")
}

func (repo commentRepository) UpdateComment(ctx context.Context, cmt comment.Comment, exec ...core.DBExecutor) (comment.Comment, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE comments SET content = $2, updated_at = $3 WHERE id = $1`,
		cmt.ID, cmt.Content, cmt.UpdatedAt,
	)
	if err != nil {
		return comment.Comment{}, errors.Wrap(err, "updating comment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return comment.Comment{}, comment.ErrNotFound
	}
	return cmt, nil
}

func (repo commentRepository) DeleteCommentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM comments WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting comments")
}

func (repo commentRepository) DeleteCommentsByAnnouncementID(ctx context.Context, announcementID string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM comments WHERE announcement_id = $1`, announcementID)
	return errors.Wrap(err, "deleting announcement comments")
}

func (repo commentRepository) DeleteCommentsByAuthorID(ctx context.Context, authorID string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM comments WHERE author_id = $1`, authorID)
	return errors.Wrap(err, "deleting author comments")
}
