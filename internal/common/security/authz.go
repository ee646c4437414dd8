package security

// CanModify decides whether a requester may mutate a resource. Pure function:
// admins may modify anything, everyone else only what they own. Every
// mutating endpoint must consult it before touching the resource and reject
// with a forbidden outcome when it returns false.
func CanModify(resourceOwnerID, requestingUserID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return resourceOwnerID != "" && resourceOwnerID == requestingUserID
}
