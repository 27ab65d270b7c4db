package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
)

type announcementRepository struct {
	exec core.DBExecutor
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(exec core.DBExecutor) *announcementRepository {
	return &announcementRepository{exec: exec}
}

func (repo announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement, exec ...core.DBExecutor) (announcement.Announcement, error) {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO announcements (id, group_id, teacher_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ann.ID, ann.GroupID, ann.TeacherID, ann.Content, ann.CreatedAt, ann.UpdatedAt,
	)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return ann, nil
}

func (repo announcementRepository) GetAnnouncementByID(ctx context.Context, id string, exec ...core.DBExecutor) (announcement.Announcement, error) {
	var ann announcement.Announcement
	err := getExec(repo.exec, exec).GetContext(ctx, &ann, `SELECT * FROM announcements WHERE id = $1`, id)
	if err != nil {
		return announcement.Announcement{}, trapNoRowsErr(err, announcement.ErrNotFound, "finding announcement by id")
	}
	return ann, nil
}

func (repo announcementRepository) QueryAnnouncementsByGroupID(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	var anns []announcement.Announcement
	err := getExec(repo.exec, exec).SelectContext(ctx, &anns,
		`SELECT * FROM announcements WHERE group_id = $1 `+orderBy(newestFirst)+p.String(), groupID)
	return anns, errors.Wrap(err, "querying announcements by group")
}

func (repo announcementRepository) QueryAnnouncementsByTeacherID(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	var anns []announcement.Announcement
	err := getExec(repo.exec, exec).SelectContext(ctx, &anns,
		`SELECT * FROM announcements WHERE teacher_id = $1 `+orderBy(newestFirst), teacherID)
	return anns, errors.Wrap(err, "querying announcements by teacher")
}

func (repo announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement, exec ...core.DBExecutor) (announcement.Announcement, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE announcements SET content = $2, updated_at = $3 WHERE id = $1`,
		ann.ID, ann.Content, ann.UpdatedAt,
	)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	return ann, nil
}

func (repo announcementRepository) DeleteAnnouncementsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM announcements WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting announcements")
}

func (repo announcementRepository) DeleteAnnouncementsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM announcements WHERE group_id = $1`, groupID)
	return errors.Wrap(err, "deleting group announcements")
}
