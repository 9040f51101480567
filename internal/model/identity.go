package model

// Roles assigned by the external auth provider.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the verified caller identity supplied by the external auth
// provider. It is passed explicitly to every core operation; there is no
// ambient current-user state.
type Identity struct {
	UserID string
	Role   string
}

// IsZero reports whether no identity was supplied.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}
