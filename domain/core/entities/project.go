package entities

import "time"

// MemberRole is a project member's role
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleEditor MemberRole = "editor"
	RoleViewer MemberRole = "viewer"
)

// Member is one entry in a project's membership list
type Member struct {
	UserID string     `json:"userId"`
	Name   string     `json:"name"`
	Role   MemberRole `json:"role"`
}

// Project is the minimal projection of a project consumed by
// permission checks and notification fan-out. Project lifecycle is
// owned by a separate service; this core only reads it.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	IsPublic  bool      `json:"isPublic"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsMember reports whether the user appears in the membership list or
// owns the project
func (p *Project) IsMember(userID string) bool {
	if p.OwnerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanMutate reports whether the user may modify project maps.
// Any member or the owner may mutate; viewers included, since role
// semantics beyond membership are not defined here.
func (p *Project) CanMutate(userID string) bool {
	return p.IsMember(userID)
}

// OtherMembers returns every member except the given user, owner
// included, for notification fan-out
func (p *Project) OtherMembers(excludeUserID string) []Member {
	var others []Member
	seen := make(map[string]bool)
	if p.OwnerID != excludeUserID {
		others = append(others, Member{UserID: p.OwnerID, Role: RoleOwner})
		seen[p.OwnerID] = true
	}
	for _, m := range p.Members {
		if m.UserID == excludeUserID || seen[m.UserID] {
			continue
		}
		others = append(others, m)
		seen[m.UserID] = true
	}
	return others
}
