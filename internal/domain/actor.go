package domain

// Actor is whoever issues a mutation. Facilitator-only transitions check the role.
type Actor struct {
	ID   string
	Role Role
}

func UserActor(id string) Actor { return Actor{ID: id, Role: RoleUser} }

func FacilitatorActor(id string) Actor { return Actor{ID: id, Role: RoleFacilitator} }

func (a Actor) IsFacilitator() bool { return a.Role == RoleFacilitator && a.ID != "" }
