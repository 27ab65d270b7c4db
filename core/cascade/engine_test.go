package cascade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/announcement"
	"github.com/classhub/backend/core/cascade"
	"github.com/classhub/backend/core/comment"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
	emailsvc "github.com/classhub/backend/services/email"
	dummydb "github.com/classhub/backend/storage/database/dummy"
)

type testEnv struct {
	engine  *cascade.Engine
	usrRepo user.Repository
	grpRepo group.Repository
	annRepo announcement.Repository
	cmtRepo comment.Repository

	usrSvc *user.Service
	grpSvc *group.Service
	annSvc *announcement.Service
	cmtSvc *comment.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{AppName: "ClassHub", FrontendBaseURL: "http://localhost:3000", TestMode: true}

	db, err := dummydb.Open()
	require.NoError(t, err)

	env := &testEnv{
		usrRepo: dummydb.NewUserRepository(db),
		grpRepo: dummydb.NewGroupRepository(db),
		annRepo: dummydb.NewAnnouncementRepository(db),
		cmtRepo: dummydb.NewCommentRepository(db),
	}
	env.engine = cascade.NewEngine(db, env.usrRepo, env.grpRepo, env.annRepo, env.cmtRepo)

	mailSvc := emailsvc.NewConsoleService(conf)
	env.usrSvc = user.NewService(env.usrRepo, env.engine, mailSvc, conf)
	env.grpSvc = group.NewService(env.grpRepo, env.engine, mailSvc, conf)
	env.annSvc = announcement.NewService(env.annRepo, env.grpRepo, env.engine)
	env.cmtSvc = comment.NewService(env.cmtRepo, env.annRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, first, email, role string) user.User {
	t.Helper()
	usr, err := env.usrSvc.Register(context.Background(), user.NewUser{
		FirstName: first, LastName: "Doe", Email: email, Password: "Str0ngPwd!", Role: role,
	})
	require.NoError(t, err)
	return usr
}

// buildClassroom creates a group owned by teacher with an announcement, an
// enrolled student and comments from both.
func (env *testEnv) buildClassroom(t *testing.T, teacher, student user.User) (group.Group, announcement.Announcement) {
	t.Helper()
	ctx := context.Background()

	grp, err := env.grpSvc.Create(ctx, group.NewGroup{Name: "Algebra I"}, teacher)
	require.NoError(t, err)
	_, err = env.grpSvc.JoinByCode(ctx, grp.JoinCode, student)
	require.NoError(t, err)

	ann, err := env.annSvc.Create(ctx, grp.ID, announcement.NewAnnouncement{Content: "Exam on Friday"}, teacher)
	require.NoError(t, err)
	_, err = env.cmtSvc.Add(ctx, ann.ID, comment.NewComment{Content: "Good luck"}, teacher)
	require.NoError(t, err)
	_, err = env.cmtSvc.Add(ctx, ann.ID, comment.NewComment{Content: "Thanks!"}, student)
	require.NoError(t, err)

	return grp, ann
}

func TestEngine_DeleteGroup(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	teacher := env.createUser(t, "Tina", "tina@gmail.com", "TEACHER")
	student := env.createUser(t, "Sam", "sam@gmail.com", "STUDENT")
	grp, ann := env.buildClassroom(t, teacher, student)

	require.NoError(t, env.engine.DeleteGroup(ctx, grp.ID))

	if _, err := env.grpRepo.GetGroupByID(ctx, grp.ID); err != group.ErrNotFound {
		t.Errorf("group still present, err = %v", err)
	}
	if _, err := env.annRepo.GetAnnouncementByID(ctx, ann.ID); err != announcement.ErrNotFound {
		t.Errorf("announcement still present, err = %v", err)
	}
	if _, err := env.grpRepo.GetEnrollment(ctx, grp.ID, student.ID); err != group.ErrNotEnrolled {
		t.Errorf("enrollment still present, err = %v", err)
	}
	cmts, err := env.cmtRepo.QueryCommentsByAnnouncementID(ctx, ann.ID, core.DBPagination{})
	require.NoError(t, err)
	if len(cmts) != 0 {
		t.Errorf("dangling comments = %d, want 0", len(cmts))
	}

	// the people survive
	if _, err := env.usrRepo.GetUserByID(ctx, teacher.ID); err != nil {
		t.Errorf("teacher deleted with the group, err = %v", err)
	}
	if _, err := env.usrRepo.GetUserByID(ctx, student.ID); err != nil {
		t.Errorf("student deleted with the group, err = %v", err)
	}
}

func TestEngine_DeleteAnnouncement(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	teacher := env.createUser(t, "Tina", "tina@gmail.com", "TEACHER")
	student := env.createUser(t, "Sam", "sam@gmail.com", "STUDENT")
	grp, ann := env.buildClassroom(t, teacher, student)

	require.NoError(t, env.engine.DeleteAnnouncement(ctx, ann.ID))

	if _, err := env.annRepo.GetAnnouncementByID(ctx, ann.ID); err != announcement.ErrNotFound {
		t.Errorf("announcement still present, err = %v", err)
	}
	cmts, err := env.cmtRepo.QueryCommentsByAnnouncementID(ctx, ann.ID, core.DBPagination{})
	require.NoError(t, err)
	if len(cmts) != 0 {
		t.Errorf("dangling comments = %d, want 0", len(cmts))
	}

	// the group and its enrollments survive
	if _, err := env.grpRepo.GetGroupByID(ctx, grp.ID); err != nil {
		t.Errorf("group deleted with the announcement, err = %v", err)
	}
	if _, err := env.grpRepo.GetEnrollment(ctx, grp.ID, student.ID); err != nil {
		t.Errorf("enrollment deleted with the announcement, err = %v", err)
	}
}

// A deleted user may simultaneously be a teacher of groups, a student in other
// groups and a comment author. Everything referencing the id must go.
func TestEngine_DeleteUser(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	// subject teaches one group...
	subject := env.createUser(t, "Jo", "jo@gmail.com", "TEACHER")
	peer := env.createUser(t, "Pat", "pat@gmail.com", "TEACHER")
	student := env.createUser(t, "Sam", "sam@gmail.com", "STUDENT")
	taughtGrp, taughtAnn := env.buildClassroom(t, subject, student)

	// ...is enrolled in a peer's group and commented there
	peerGrp, err := env.grpSvc.Create(ctx, group.NewGroup{Name: "History"}, peer)
	require.NoError(t, err)
	_, err = env.grpSvc.JoinByCode(ctx, peerGrp.JoinCode, subject)
	require.NoError(t, err)
	peerAnn, err := env.annSvc.Create(ctx, peerGrp.ID, announcement.NewAnnouncement{Content: "Field trip"}, peer)
	require.NoError(t, err)
	_, err = env.cmtSvc.Add(ctx, peerAnn.ID, comment.NewComment{Content: "Count me in"}, subject)
	require.NoError(t, err)

	require.NoError(t, env.engine.DeleteUser(ctx, subject.ID))

	// the user and everything they taught is gone
	if _, err = env.usrRepo.GetUserByID(ctx, subject.ID); err != user.ErrNotFound {
		t.Errorf("user still present, err = %v", err)
	}
	if _, err = env.grpRepo.GetGroupByID(ctx, taughtGrp.ID); err != group.ErrNotFound {
		t.Errorf("taught group still present, err = %v", err)
	}
	if _, err = env.annRepo.GetAnnouncementByID(ctx, taughtAnn.ID); err != announcement.ErrNotFound {
		t.Errorf("taught announcement still present, err = %v", err)
	}
	if _, err = env.grpRepo.GetEnrollment(ctx, taughtGrp.ID, student.ID); err != group.ErrNotEnrolled {
		t.Errorf("taught group enrollment still present, err = %v", err)
	}

	// their traces in the peer's group are gone
	if _, err = env.grpRepo.GetEnrollment(ctx, peerGrp.ID, subject.ID); err != group.ErrNotEnrolled {
		t.Errorf("own enrollment still present, err = %v", err)
	}
	cmts, err := env.cmtRepo.QueryCommentsByAuthorID(ctx, subject.ID)
	require.NoError(t, err)
	if len(cmts) != 0 {
		t.Errorf("authored comments = %d, want 0", len(cmts))
	}

	// the peer's group itself survives
	if _, err = env.grpRepo.GetGroupByID(ctx, peerGrp.ID); err != nil {
		t.Errorf("peer group deleted, err = %v", err)
	}
	if _, err = env.annRepo.GetAnnouncementByID(ctx, peerAnn.ID); err != nil {
		t.Errorf("peer announcement deleted, err = %v", err)
	}
	if _, err = env.usrRepo.GetUserByID(ctx, peer.ID); err != nil {
		t.Errorf("peer deleted, err = %v", err)
	}
	if _, err = env.usrRepo.GetUserByID(ctx, student.ID); err != nil {
		t.Errorf("student deleted, err = %v", err)
	}
}
