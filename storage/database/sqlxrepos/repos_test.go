package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/user"
)

// recordingExecutor captures the last statement so tests can assert on the
// SQL and arguments the repositories actually send.
type recordingExecutor struct {
	count int

	query string
	args  []interface{}
}

func (r *recordingExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.query, r.args = query, args
	return driver.RowsAffected(1), nil
}

func (r *recordingExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	r.query, r.args = query, args
	if count, ok := dest.(*int); ok {
		*count = r.count
	}
	return nil
}

func (r *recordingExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	r.query, r.args = query, args
	return nil
}

func Test_userRepository_CheckEmailUniqueness(t *testing.T) {
	ctx := context.Background()

	t.Run("nil exclusion list is not sent as SQL NULL", func(t *testing.T) {
		exec := &recordingExecutor{}
		require.NoError(t, NewUserRepository(exec).CheckEmailUniqueness(ctx, "jane@gmail.com", nil))

		require.Len(t, exec.args, 2)
		val, err := exec.args[1].(driver.Valuer).Value()
		require.NoError(t, err)
		if val == nil {
			t.Fatal("exclusion list sent as SQL NULL; `id != ALL(NULL)` matches no rows and the duplicate check never fires")
		}
	})

	t.Run("existing email is reported", func(t *testing.T) {
		exec := &recordingExecutor{count: 1}
		if err := NewUserRepository(exec).CheckEmailUniqueness(ctx, "jane@gmail.com", nil); err != user.ErrEmailExists {
			t.Errorf("CheckEmailUniqueness() error = %v, want %v", err, user.ErrEmailExists)
		}
	})

	t.Run("no match passes", func(t *testing.T) {
		exec := &recordingExecutor{}
		if err := NewUserRepository(exec).CheckEmailUniqueness(ctx, "jane@gmail.com", []string{"u1"}); err != nil {
			t.Errorf("CheckEmailUniqueness() error = %v, want nil", err)
		}
	})
}

func Test_listingOrderings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(exec *recordingExecutor) error
		want string
	}{
		{
			name: "groups by teacher, newest first",
			run: func(exec *recordingExecutor) error {
				_, err := NewGroupRepository(exec).QueryGroupsByTeacherID(ctx, "t1", core.DBPagination{})
				return err
			},
			want: "ORDER BY created_at DESC",
		},
		{
			name: "groups by student, newest first",
			run: func(exec *recordingExecutor) error {
				_, err := NewGroupRepository(exec).QueryGroupsByStudentID(ctx, "s1", core.DBPagination{})
				return err
			},
			want: "ORDER BY g.created_at DESC",
		},
		{
			name: "group members, first name ascending",
			run: func(exec *recordingExecutor) error {
				_, err := NewGroupRepository(exec).QueryGroupMembers(ctx, "g1", core.DBPagination{})
				return err
			},
			want: "ORDER BY u.first_name ASC",
		},
		{
			name: "announcements by group, newest first",
			run: func(exec *recordingExecutor) error {
				_, err := NewAnnouncementRepository(exec).QueryAnnouncementsByGroupID(ctx, "g1", core.DBPagination{})
				return err
			},
			want: "ORDER BY created_at DESC",
		},
		{
			name: "comments by announcement, newest first",
			run: func(exec *recordingExecutor) error {
				_, err := NewCommentRepository(exec).QueryCommentsByAnnouncementID(ctx, "a1", core.DBPagination{})
				return err
			},
			want: "ORDER BY created_at DESC",
		},
		{
			name: "users by role, first name ascending",
			run: func(exec *recordingExecutor) error {
				_, err := NewUserRepository(exec).FilterUsersByRole(ctx, user.RoleTeacher)
				return err
			},
			want: "ORDER BY first_name ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			require.NoError(t, tt.run(exec))
			if !strings.Contains(exec.query, tt.want) {
				t.Errorf("query %q missing %q", exec.query, tt.want)
			}
		})
	}
}
