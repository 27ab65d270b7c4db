package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/cascade"
	"github.com/classhub/backend/core/user"
	emailsvc "github.com/classhub/backend/services/email"
	dummydb "github.com/classhub/backend/storage/database/dummy"
)

func setup(t *testing.T) *user.Service {
	t.Helper()
	emailsvc.ClearSentMessages()

	conf := &core.Config{AppName: "ClassHub", FrontendBaseURL: "http://localhost:3000", TestMode: true}

	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	grpRepo := dummydb.NewGroupRepository(db)
	annRepo := dummydb.NewAnnouncementRepository(db)
	cmtRepo := dummydb.NewCommentRepository(db)
	engine := cascade.NewEngine(db, usrRepo, grpRepo, annRepo, cmtRepo)

	return user.NewService(usrRepo, engine, emailsvc.NewConsoleService(conf), conf)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	t.Run("non-gmail address is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, user.NewUser{
			FirstName: "Jane", LastName: "Doe", Email: "jane@yahoo.com", Password: "Str0ngPwd!",
		})
		if err != user.ErrInvalidEmail {
			t.Errorf("Register() error = %v, want %v", err, user.ErrInvalidEmail)
		}
	})

	t.Run("gmail check ignores case", func(t *testing.T) {
		usr, err := svc.Register(ctx, user.NewUser{
			FirstName: "Jane", LastName: "Doe", Email: "Jane.Doe@GMAIL.com", Password: "Str0ngPwd!",
		})
		require.NoError(t, err)
		if usr.Email != "jane.doe@gmail.com" {
			t.Errorf("email = %q, want lowercased", usr.Email)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, user.NewUser{
			FirstName: "Other", LastName: "Jane", Email: "JANE.DOE@gmail.com", Password: "Str0ngPwd!",
		})
		if err != user.ErrEmailExists {
			t.Errorf("Register() error = %v, want %v", err, user.ErrEmailExists)
		}
	})

	t.Run("role defaults to STUDENT", func(t *testing.T) {
		usr, err := svc.Register(ctx, user.NewUser{
			FirstName: "John", LastName: "Doe", Email: "john@gmail.com", Password: "Str0ngPwd!", Role: "PRINCIPAL",
		})
		require.NoError(t, err)
		if !usr.IsStudent() {
			t.Errorf("role = %s, want %s", usr.Role, user.RoleStudent)
		}
	})

	t.Run("role input is parsed case-insensitively", func(t *testing.T) {
		usr, err := svc.Register(ctx, user.NewUser{
			FirstName: "Mary", LastName: "Major", Email: "mary@gmail.com", Password: "Str0ngPwd!", Role: "teacher",
		})
		require.NoError(t, err)
		if !usr.IsTeacher() {
			t.Errorf("role = %s, want %s", usr.Role, user.RoleTeacher)
		}
	})

	t.Run("password is hashed and verifies", func(t *testing.T) {
		usr, err := svc.Register(ctx, user.NewUser{
			FirstName: "Paul", LastName: "Atree", Email: "paul@gmail.com", Password: "Str0ngPwd!",
		})
		require.NoError(t, err)
		if string(usr.PasswordHash) == "Str0ngPwd!" {
			t.Error("password stored in clear")
		}
		if err = usr.CheckPassword("Str0ngPwd!"); err != nil {
			t.Errorf("CheckPassword() failed, %v", err)
		}
	})

	t.Run("welcome email is sent", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		usr, err := svc.Register(ctx, user.NewUser{
			FirstName: "Ada", LastName: "Love", Email: "ada@gmail.com", Password: "Str0ngPwd!",
		})
		require.NoError(t, err)
		require.Len(t, emailsvc.SentMessages, 1)
		if to := emailsvc.SentMessages[0].To[0].Address; to != usr.Email {
			t.Errorf("welcome email sent to %q, want %q", to, usr.Email)
		}
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	usr, err := svc.Register(ctx, user.NewUser{
		FirstName: "Jane", LastName: "Doe", Email: "jane@gmail.com", Password: "Str0ngPwd!", Bio: "hello",
	})
	require.NoError(t, err)
	_, err = svc.Register(ctx, user.NewUser{
		FirstName: "John", LastName: "Doe", Email: "john@gmail.com", Password: "Str0ngPwd!",
	})
	require.NoError(t, err)

	t.Run("absent fields are left unchanged", func(t *testing.T) {
		updated, err := svc.Update(ctx, usr.ID, user.UpdateUser{Bio: null.StringFrom("updated bio")})
		require.NoError(t, err)
		if updated.Bio != "updated bio" {
			t.Errorf("bio = %q, want %q", updated.Bio, "updated bio")
		}
		if updated.FirstName != "Jane" || updated.LastName != "Doe" || updated.Email != "jane@gmail.com" {
			t.Errorf("unrelated fields changed: %+v", updated)
		}
	})

	t.Run("email change revalidates the gmail rule", func(t *testing.T) {
		_, err := svc.Update(ctx, usr.ID, user.UpdateUser{Email: null.StringFrom("jane@yahoo.com")})
		if err != user.ErrInvalidEmail {
			t.Errorf("Update() error = %v, want %v", err, user.ErrInvalidEmail)
		}
	})

	t.Run("email change to a taken address is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, usr.ID, user.UpdateUser{Email: null.StringFrom("john@gmail.com")})
		if err != user.ErrEmailExists {
			t.Errorf("Update() error = %v, want %v", err, user.ErrEmailExists)
		}
	})

	t.Run("own email is excluded from the uniqueness check", func(t *testing.T) {
		updated, err := svc.Update(ctx, usr.ID, user.UpdateUser{Email: null.StringFrom("JANE@gmail.com")})
		require.NoError(t, err)
		if updated.Email != "jane@gmail.com" {
			t.Errorf("email = %q, want %q", updated.Email, "jane@gmail.com")
		}
	})

	t.Run("unknown role input is ignored", func(t *testing.T) {
		updated, err := svc.Update(ctx, usr.ID, user.UpdateUser{Role: null.StringFrom("PRINCIPAL")})
		require.NoError(t, err)
		if !updated.IsStudent() {
			t.Errorf("role = %s, want unchanged %s", updated.Role, user.RoleStudent)
		}
	})

	t.Run("valid role input is applied", func(t *testing.T) {
		updated, err := svc.Update(ctx, usr.ID, user.UpdateUser{Role: null.StringFrom("teacher")})
		require.NoError(t, err)
		if !updated.IsTeacher() {
			t.Errorf("role = %s, want %s", updated.Role, user.RoleTeacher)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "nope", user.UpdateUser{Bio: null.StringFrom("x")})
		if err != user.ErrNotFound {
			t.Errorf("Update() error = %v, want %v", err, user.ErrNotFound)
		}
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	usr, err := svc.Register(ctx, user.NewUser{
		FirstName: "Jane", LastName: "Doe", Email: "jane@gmail.com", Password: "Str0ngPwd!",
	})
	require.NoError(t, err)

	if err = svc.Delete(ctx, usr.ID); err != nil {
		t.Fatalf("Delete() failed, %v", err)
	}
	if _, err = svc.GetByID(ctx, usr.ID); err != user.ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want %v", err, user.ErrNotFound)
	}

	if err = svc.Delete(ctx, usr.ID); err != user.ErrNotFound {
		t.Errorf("Delete() on missing user error = %v, want %v", err, user.ErrNotFound)
	}
}
