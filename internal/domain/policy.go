package domain

import "github.com/google/uuid"

// Visibility rules: admins see everything, owners see their own
// entities in any status, everyone else only sees the publicly visible
// status (published events, approved locations). A denied lookup must
// surface as not-found so existence is never confirmed.

func CanViewEvent(actor *Actor, e Event) bool {
	if actor.IsAdmin() || actor.Is(e.OrganizerID) {
		return true
	}
	return e.Status == EventPublished
}

func CanViewLocation(actor *Actor, l Location) bool {
	if actor.IsAdmin() || actor.Is(l.CreatedByID) {
		return true
	}
	return l.Status == LocationApproved
}

// VisibilityScope is the list-query counterpart of the lookup checks:
// it restricts a listing to what the actor may see. All wins over
// OwnerID; a zero scope means publicly visible entities only.
type VisibilityScope struct {
	All bool
	// OwnerID widens the public restriction to also include entities
	// owned by this user, whatever their status.
	OwnerID *uuid.UUID
}

func EventListScope(actor *Actor) VisibilityScope {
	return listScope(actor)
}

func LocationListScope(actor *Actor) VisibilityScope {
	return listScope(actor)
}

func listScope(actor *Actor) VisibilityScope {
	if actor.IsAdmin() {
		return VisibilityScope{All: true}
	}
	if actor != nil && actor.Role == RoleOrganizer {
		id := actor.ID
		return VisibilityScope{OwnerID: &id}
	}
	return VisibilityScope{}
}
