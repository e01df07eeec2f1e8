package domain

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanMutate reports whether the actor may update or delete the given review:
// the review's author, or an admin. An actor without an ID is never allowed.
func (a Actor) CanMutate(review Review) bool {
	if a.ID == "" {
		return false
	}
	return a.ID == review.UserID || a.Role == RoleAdmin
}
