// Package authz holds the ownership rules. Ownership (teacher-of, author-of,
// student-of) is the sole authorization basis; there is no separate ACL
// system. Every decision is a pure function of the acting principal's id and
// the owning ids of the target entity, so callers can check permissions
// without any request context.
package authz

// isOwner reports whether principalID names ownerID. Empty ids never match.
func isOwner(principalID, ownerID string) bool {
	return principalID != "" && principalID == ownerID
}

// CanManageGroup permits updating or deleting a group to its teacher only.
func CanManageGroup(principalID, groupTeacherID string) bool {
	return isOwner(principalID, groupTeacherID)
}

// CanManageAnnouncement permits updating or deleting an announcement to the
// teacher who authored it only.
func CanManageAnnouncement(principalID, announcementTeacherID string) bool {
	return isOwner(principalID, announcementTeacherID)
}

// CanUpdateComment permits editing a comment to its author only.
func CanUpdateComment(principalID, authorID string) bool {
	return isOwner(principalID, authorID)
}

// CanDeleteComment permits deleting a comment to its author, or to the teacher
// of the announcement it belongs to (moderation right).
func CanDeleteComment(principalID, authorID, announcementTeacherID string) bool {
	return isOwner(principalID, authorID) || isOwner(principalID, announcementTeacherID)
}

// CanRemoveStudent permits removing a student from a group to the group's
// teacher only. Leaving a group is self-service and needs no check here.
func CanRemoveStudent(principalID, groupTeacherID string) bool {
	return isOwner(principalID, groupTeacherID)
}
