package dummydb

import (
	"context"
	"sort"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
)

type announcementRepository struct {
	db *DB
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) *announcementRepository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, ann announcement.Announcement, exec ...core.DBExecutor) (announcement.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.announcements[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) GetAnnouncementByID(ctx context.Context, id string, exec ...core.DBExecutor) (announcement.Announcement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if ann, ok := repo.db.announcements[id]; ok {
		return *ann, nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) QueryAnnouncementsByGroupID(ctx context.Context, groupID string, p core.DBPagination, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var anns []announcement.Announcement
	for _, ann := range repo.db.announcements {
		if ann.GroupID == groupID {
			anns = append(anns, *ann)
		}
	}
	sortAnnouncementsNewestFirst(anns)
	lo, hi := paginate(len(anns), p)
	return anns[lo:hi], nil
}

func (repo *announcementRepository) QueryAnnouncementsByTeacherID(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]announcement.Announcement, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var anns []announcement.Announcement
	for _, ann := range repo.db.announcements {
		if ann.TeacherID == teacherID {
			anns = append(anns, *ann)
		}
	}
	sortAnnouncementsNewestFirst(anns)
	return anns, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement, exec ...core.DBExecutor) (announcement.Announcement, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.announcements[ann.ID]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	ann.GroupID = orig.GroupID
	ann.TeacherID = orig.TeacherID
	ann.CreatedAt = orig.CreatedAt
	repo.db.announcements[ann.ID] = &ann
	return ann, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ctx context.Context, ids []string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.announcements, id)
	}
	return nil
}

func (repo *announcementRepository) DeleteAnnouncementsByGroupID(ctx context.Context, groupID string, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, ann := range repo.db.announcements {
		if ann.GroupID == groupID {
			delete(repo.db.announcements, id)
		}
	}
	return nil
}

func sortAnnouncementsNewestFirst(anns []announcement.Announcement) {
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
}
