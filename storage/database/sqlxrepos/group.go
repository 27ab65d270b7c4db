package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

type groupRepository struct {
	exec core.DBExecutor
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(exec core.DBExecutor) *groupRepository {
	return &groupRepository{exec: exec}
}

func (repo groupRepository) CreateGroup(ctx context.Context, grp group.Group, exec ...core.DBExecutor) (group.Group, error) {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO groups (id, name, description, join_code, teacher_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		grp.ID, grp.Name, grp.Description, grp.JoinCode, grp.TeacherID, grp.CreatedAt,
	)
	if err != nil {
		return group.Group{}, trapDuplicateErr(err, "creating group")
	}
	return grp, nil
}

func (repo groupRepository) GetGroupByID(ctx context.Context, id string, exec ...core.DBExecutor) (group.Group, error) {
	var grp group.Group
	err := getExec(repo.exec, exec).GetContext(ctx, &grp, `SELECT * FROM groups WHERE id = $1`, id)
	if err != nil {
		return group.Group{}, trapNoRowsErr(err, group.ErrNotFound, "finding group by id")
	}
	return grp, nil
}

func (repo groupRepository) GetGroupByJoinCode(ctx context.Context, code string, exec ...core.DBExecutor) (group.Group, error) {
	var grp group.Group
	err := getExec(repo.exec, exec).GetContext(ctx, &grp,
		`SELECT * FROM groups WHERE lower(join_code) = lower($1)`, code)
	if err != nil {
		return group.Group{}, trapNoRowsErr(err, group.ErrNotFound, "finding group by join code")
	}
	return grp, nil
}

func (repo groupRepository) QueryGroupsByTeacherID(ctx context.Context, teacherID string, p core.DBPagination, exec ...core.DBExecutor) ([]group.Group, error) {
	var groups []group.Group
	err := getExec(repo.exec, exec).SelectContext(ctx, &groups,
		`SELECT * FROM groups WHERE teacher_id = $1 `+orderBy(newestFirst)+p.String(), teacherID)
	return groups, errors.Wrap(err, "querying groups by teacher")
}

func (repo groupRepository) QueryGroupsByStudentID(ctx context.Context, studentID string, p core.DBPagination, exec ...core.DBExecutor) ([]group.Group, error) {
	var groups []group.Group
	err := getExec(repo.exec, exec).SelectContext(ctx, &groups,
		`SELECT g.* FROM groups g
		 JOIN enrollments e ON e.group_id = g.id
		 WHERE e.student_id = $1 `+orderBy(newestFirst, "g")+p.String(), studentID)
	return groups, errors.Wrap(err, "querying groups by student")
}

func (repo groupRepository) UpdateGroup(ctx context.Context, grp group.Group, exec ...core.DBExecutor) (group.Group, error) {
	res, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE groups SET name = $2, description = $3 WHERE id = $1`,
		grp.ID, grp.Name, grp.Description,
	)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return group.Group{}, group.ErrNotFound
	}
	return grp, nil
}

func (repo groupRepository) DeleteGroupsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM groups WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting groups")
}

func (repo groupRepository) CreateEnrollment(ctx context.Context, enr group.Enrollment, exec ...core.DBExecutor) (group.Enrollment, error) {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO enrollments (id, group_id, student_id, enrolled_at) VALUES ($1, $2, $3, $4)`,
		enr.ID, enr.GroupID, enr.StudentID, enr.EnrolledAt,
	)
	if err != nil {
		return group.Enrollment{}, trapDuplicateErr(err, "creating enrollment")
	}
	return enr, nil
}

func (repo groupRepository) GetEnrollment(ctx context.Context, groupID, studentID string, exec ...core.DBExecutor) (group.Enrollment, error) {
	var enr group.Enrollment
	err := getExec(repo.exec, exec).GetContext(ctx, &enr,
		`SELECT * FROM enrollments WHERE group_id = $1 AND student_id = $2`, groupID, studentID)
	if err != nil {
		return group.Enrollment{}, trapNoRowsErr(err, group.ErrNotEnrolled, "finding enrollment")
	}
	return enr, nil
}

func (repo groupRepository) QueryEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) ([]group.Enrollment, error) {
	var enrs []group.Enrollment
	err := getExec(repo.exec, exec).SelectContext(ctx, &enrs,
		`SELECT * FROM enrollments WHERE group_id = $1`, groupID)
	return enrs, errors.Wrap(err, "querying enrollments by group")
}

func (repo groupRepository) QueryEnrollmentsByStudentID(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]group.Enrollment, error) {
	var enrs []group.Enrollment
	err := getExec(repo.exec, exec).SelectContext(ctx, &enrs,
		`SELECT * FROM enrollments WHERE student_id = $1`, studentID)
	return enrs, errors.Wrap(err, "querying enrollments by student")
}

func (repo groupRepository) QueryGroupMembers(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]user.User, error) {
	var users []user.User
	err := getExec(repo.exec, exec).SelectContext(ctx, &users,
		`SELECT u.* FROM users u
		 JOIN enrollments e ON e.student_id = u.id
		 WHERE e.group_id = $1 `+orderBy(firstNameAsc, "u")+p.String(), groupID)
	return users, errors.Wrap(err, "querying group members")
}

func (repo groupRepository) DeleteEnrollmentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM enrollments WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting enrollments")
}

func (repo groupRepository) DeleteEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM enrollments WHERE group_id = $1`, groupID)
	return errors.Wrap(err, "deleting group enrollments")
}
