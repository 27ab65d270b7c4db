package tests

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classhub/backend/core/announcement"
	"github.com/classhub/backend/core/comment"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

func TestGroupLifecycle(t *testing.T) {
	env := setup(t)
	teacher := env.createUser(t, "Tina", "tina@gmail.com", "TEACHER")
	student := env.createUser(t, "Sam", "sam@gmail.com", "STUDENT")
	teacherToken := env.getToken(t, teacher)
	studentToken := env.getToken(t, student)

	var grp group.Group

	t.Run("student cannot create a group", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/teacher", studentToken, []byte(`{"name":"Algebra I"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})

	t.Run("teacher creates a group", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/teacher", teacherToken, []byte(`{"name":"Algebra I","description":"mornings"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grp))
		if len(grp.JoinCode) != 8 {
			t.Errorf("join code length = %d, want 8", len(grp.JoinCode))
		}
	})

	t.Run("teacher lists their groups", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/groups/teacher", teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var groups []group.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
		require.Len(t, groups, 1)
	})

	t.Run("unknown join code", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/student/join", studentToken, []byte(`{"code":"nope1234"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("student joins with the code, any case", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"code": strings.ToUpper(grp.JoinCode)})
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/student/join", studentToken, body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})

	t.Run("joining again is idempotent", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"code": grp.JoinCode})
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/student/join", studentToken, body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/groups/"+grp.ID+"/members", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var members []user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
		require.Len(t, members, 1)
	})

	t.Run("student lists enrolled groups", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/groups/student", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var groups []group.Group
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
		require.Len(t, groups, 1)
	})

	t.Run("only the owner updates the group", func(t *testing.T) {
		other := env.createUser(t, "Omar", "omar@gmail.com", "TEACHER")
		req, rec := newAuthRequest(http.MethodPut, "/v1/groups/teacher/"+grp.ID, env.getToken(t, other), []byte(`{"name":"Hijacked"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)

		req, rec = newAuthRequest(http.MethodPut, "/v1/groups/teacher/"+grp.ID, teacherToken, []byte(`{"name":"Algebra II"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})

	t.Run("teacher removes the student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/groups/teacher/"+grp.ID+"/students/"+student.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		// removing again: no enrollment left
		req, rec = newAuthRequest(http.MethodDelete, "/v1/groups/teacher/"+grp.ID+"/students/"+student.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("student rejoins and leaves", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"code": grp.JoinCode})
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/student/join", studentToken, body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/groups/student/"+grp.ID+"/leave", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/groups/student/"+grp.ID+"/leave", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("owner deletes the group", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/groups/teacher/"+grp.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/groups/"+grp.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
}

func TestAnnouncementAndCommentFlow(t *testing.T) {
	env := setup(t)
	teacher := env.createUser(t, "Tina", "tina@gmail.com", "TEACHER")
	student := env.createUser(t, "Sam", "sam@gmail.com", "STUDENT")
	teacherToken := env.getToken(t, teacher)
	studentToken := env.getToken(t, student)

	// build the classroom
	var grp group.Group
	req, rec := newAuthRequest(http.MethodPost, "/v1/groups/teacher", teacherToken, []byte(`{"name":"Algebra I"}`))
	env.app.ServeHTTP(rec, req)
	checkCode(t, http.StatusCreated, rec)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grp))

	req, rec = newAuthRequest(http.MethodPost, "/v1/groups/student/join", studentToken, marchallObj(t, map[string]string{"code": grp.JoinCode}))
	env.app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var ann announcement.Announcement

	t.Run("student cannot post an announcement", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/"+grp.ID+"/announcements", studentToken, []byte(`{"content":"spam"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})

	t.Run("teacher posts an announcement", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/groups/"+grp.ID+"/announcements", teacherToken, []byte(`{"content":"Exam on Friday"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ann))
	})

	t.Run("anyone enrolled reads the feed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/groups/"+grp.ID+"/announcements", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var anns []announcement.Announcement
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anns))
		require.Len(t, anns, 1)
	})

	var cmt comment.Comment

	t.Run("student comments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements/"+ann.ID+"/comments", studentToken, []byte(`{"content":"See you there"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmt))
	})

	t.Run("only the author updates the comment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/comments/"+cmt.ID, teacherToken, []byte(`{"content":"hijack"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)

		req, rec = newAuthRequest(http.MethodPut, "/v1/comments/"+cmt.ID, studentToken, []byte(`{"content":"edited"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})

	t.Run("the announcement teacher moderates comments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/comments/"+cmt.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)
	})

	t.Run("non-author cannot delete the announcement", func(t *testing.T) {
		other := env.createUser(t, "Omar", "omar@gmail.com", "TEACHER")
		req, rec := newAuthRequest(http.MethodDelete, "/v1/announcements/teacher/"+ann.ID, env.getToken(t, other))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})

	t.Run("author deletes the announcement with its comments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements/"+ann.ID+"/comments", studentToken, []byte(`{"content":"another"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/announcements/teacher/"+ann.ID, teacherToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/announcements/"+ann.ID+"/comments", studentToken)
		env.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
}
