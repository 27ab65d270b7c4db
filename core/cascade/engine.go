// Package cascade removes entity graphs rooted at a Group, User or
// Announcement. The store has no declarative cascade delete, so each plan
// walks the dependents leaves-to-root and runs inside a single transaction:
// either everything referencing the root is gone, or nothing is.
package cascade

import (
	"context"

	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
	"github.com/classhub/backend/core/comment"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

type Engine struct {
	db       core.DB
	users    user.Repository
	groups   group.Repository
	annRepo  announcement.Repository
	comments comment.Repository
}

// interface compliance checks
var (
	_ user.Cascader         = (*Engine)(nil)
	_ group.Cascader        = (*Engine)(nil)
	_ announcement.Cascader = (*Engine)(nil)
)

func NewEngine(
	db core.DB,
	users user.Repository,
	groups group.Repository,
	annRepo announcement.Repository,
	comments comment.Repository,
) *Engine {
	return &Engine{db: db, users: users, groups: groups, annRepo: annRepo, comments: comments}
}

// DeleteGroup removes the group's comments, announcements and enrollments,
// then the group itself.
func (e *Engine) DeleteGroup(ctx context.Context, groupID string) error {
	return e.inTx(ctx, func(tx core.DBTransactor) error {
		return e.deleteGroup(ctx, tx, groupID)
	})
}

// DeleteAnnouncement removes the announcement's comments, then the
// announcement itself.
func (e *Engine) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	return e.inTx(ctx, func(tx core.DBTransactor) error {
		if err := e.comments.DeleteCommentsByAnnouncementID(ctx, announcementID, tx); err != nil {
			return errors.Wrap(err, "deleting announcement comments")
		}
		return errors.Wrap(e.annRepo.DeleteAnnouncementsByID(ctx, []string{announcementID}, tx), "deleting announcement")
	})
}

// DeleteUser removes everything the user authored, is enrolled in or teaches,
// then the user itself. The user may simultaneously be a comment author, a
// student and a teacher; the plan covers all three.
func (e *Engine) DeleteUser(ctx context.Context, userID string) error {
	return e.inTx(ctx, func(tx core.DBTransactor) error {
		// 1. comments authored by this user, anywhere
		if err := e.comments.DeleteCommentsByAuthorID(ctx, userID, tx); err != nil {
			return errors.Wrap(err, "deleting authored comments")
		}

		// 2. announcements authored by this user, with their comments
		anns, err := e.annRepo.QueryAnnouncementsByTeacherID(ctx, userID, tx)
		if err != nil {
			return errors.Wrap(err, "querying authored announcements")
		}
		annIDs := make([]string, 0, len(anns))
		for _, ann := range anns {
			if err = e.comments.DeleteCommentsByAnnouncementID(ctx, ann.ID, tx); err != nil {
				return errors.Wrap(err, "deleting announcement comments")
			}
			annIDs = append(annIDs, ann.ID)
		}
		if len(annIDs) > 0 {
			if err = e.annRepo.DeleteAnnouncementsByID(ctx, annIDs, tx); err != nil {
				return errors.Wrap(err, "deleting authored announcements")
			}
		}

		// 3. enrollments where this user is the student
		enrs, err := e.groups.QueryEnrollmentsByStudentID(ctx, userID, tx)
		if err != nil {
			return errors.Wrap(err, "querying enrollments")
		}
		enrIDs := make([]string, 0, len(enrs))
		for _, enr := range enrs {
			enrIDs = append(enrIDs, enr.ID)
		}
		if len(enrIDs) > 0 {
			if err = e.groups.DeleteEnrollmentsByID(ctx, enrIDs, tx); err != nil {
				return errors.Wrap(err, "deleting enrollments")
			}
		}

		// 4. groups taught by this user, each with the full group plan
		grps, err := e.groups.QueryGroupsByTeacherID(ctx, userID, core.DBPagination{}, tx)
		if err != nil {
			return errors.Wrap(err, "querying taught groups")
		}
		for _, grp := range grps {
			if err = e.deleteGroup(ctx, tx, grp.ID); err != nil {
				return err
			}
		}

		// 5. the user record itself
		return errors.Wrap(e.users.DeleteUsersByID(ctx, []string{userID}, tx), "deleting user")
	})
}

// deleteGroup runs the group plan on an open transaction: comments of each
// group announcement, then announcements, then enrollments, then the group.
func (e *Engine) deleteGroup(ctx context.Context, tx core.DBTransactor, groupID string) error {
	anns, err := e.annRepo.QueryAnnouncementsByGroupID(ctx, groupID, core.DBPagination{}, tx)
	if err != nil {
		return errors.Wrap(err, "querying group announcements")
	}
	for _, ann := range anns {
		if err = e.comments.DeleteCommentsByAnnouncementID(ctx, ann.ID, tx); err != nil {
			return errors.Wrap(err, "deleting announcement comments")
		}
	}
	if err = e.annRepo.DeleteAnnouncementsByGroupID(ctx, groupID, tx); err != nil {
		return errors.Wrap(err, "deleting group announcements")
	}
	if err = e.groups.DeleteEnrollmentsByGroupID(ctx, groupID, tx); err != nil {
		return errors.Wrap(err, "deleting group enrollments")
	}
	return errors.Wrap(e.groups.DeleteGroupsByID(ctx, []string{groupID}, tx), "deleting group")
}

func (e *Engine) inTx(ctx context.Context, fn func(tx core.DBTransactor) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
