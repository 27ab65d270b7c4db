package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) *groupRepository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group, exec ...core.DBExecutor) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, g := range repo.db.groups {
		if strings.EqualFold(g.JoinCode, grp.JoinCode) {
			return group.Group{}, core.ErrDuplicateKey
		}
	}
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *groupRepository) GetGroupByID(ctx context.Context, id string, exec ...core.DBExecutor) (group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if grp, ok := repo.db.groups[id]; ok {
		return *grp, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) GetGroupByJoinCode(ctx context.Context, code string, exec ...core.DBExecutor) (group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, grp := range repo.db.groups {
		if strings.EqualFold(grp.JoinCode, code) {
			return *grp, nil
		}
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) QueryGroupsByTeacherID(ctx context.Context, teacherID string, p core.DBPagination, exec ...core.DBExecutor) ([]group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var groups []group.Group
	for _, grp := range repo.db.groups {
		if grp.TeacherID == teacherID {
			groups = append(groups, *grp)
		}
	}
	sortGroupsNewestFirst(groups)
	lo, hi := paginate(len(groups), p)
	return groups[lo:hi], nil
}

func (repo *groupRepository) QueryGroupsByStudentID(ctx context.Context, studentID string, p core.DBPagination, exec ...core.DBExecutor) ([]group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var groups []group.Group
	for _, enr := range repo.db.enrollments {
		if enr.StudentID != studentID {
			continue
		}
		if grp, ok := repo.db.groups[enr.GroupID]; ok {
			groups = append(groups, *grp)
		}
	}
	sortGroupsNewestFirst(groups)
	lo, hi := paginate(len(groups), p)
	return groups[lo:hi], nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group, exec ...core.DBExecutor) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.groups[grp.ID]
	if !ok {
		return group.Group{}, group.ErrNotFound
	}
	// join code and creation time are immutable
	grp.JoinCode = orig.JoinCode
	grp.CreatedAt = orig.CreatedAt
	repo.db.groups[grp.ID] = &grp
	return grp, nil
}

func (repo *groupRepository) DeleteGroupsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.groups, id)
	}
	return nil
}

func (repo *groupRepository) CreateEnrollment(ctx context.Context, enr group.Enrollment, exec ...core.DBExecutor) (group.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, e := range repo.db.enrollments {
		if e.GroupID == enr.GroupID && e.StudentID == enr.StudentID {
			return group.Enrollment{}, core.ErrDuplicateKey
		}
	}
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *groupRepository) GetEnrollment(ctx context.Context, groupID, studentID string, exec ...core.DBExecutor) (group.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, enr := range repo.db.enrollments {
		if enr.GroupID == groupID && enr.StudentID == studentID {
			return *enr, nil
		}
	}
	return group.Enrollment{}, group.ErrNotEnrolled
}

func (repo *groupRepository) QueryEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) ([]group.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var enrs []group.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.GroupID == groupID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *groupRepository) QueryEnrollmentsByStudentID(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]group.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var enrs []group.Enrollment
	for _, enr := range repo.db.enrollments {
		if enr.StudentID == studentID {
			enrs = append(enrs, *enr)
		}
	}
	return enrs, nil
}

func (repo *groupRepository) QueryGroupMembers(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var users []user.User
	for _, enr := range repo.db.enrollments {
		if enr.GroupID != groupID {
			continue
		}
		if usr, ok := repo.db.users[enr.StudentID]; ok {
			users = append(users, *usr)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FirstName < users[j].FirstName })
	lo, hi := paginate(len(users), p)
	return users[lo:hi], nil
}

func (repo *groupRepository) DeleteEnrollmentsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.enrollments, id)
	}
	return nil
}

func (repo *groupRepository) DeleteEnrollmentsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, enr := range repo.db.enrollments {
		if enr.GroupID == groupID {
			delete(repo.db.enrollments, id)
		}
	}
	return nil
}

func sortGroupsNewestFirst(groups []group.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
}
