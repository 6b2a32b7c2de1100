package identity

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

const defaultAvatar = "https://images.pexels.com/photos/1681010/pexels-photo-1681010.jpeg?auto=compress&cs=tinysrgb&w=100"

// ProviderRecord is the opaque user record delivered by the external identity
// provider on a session change.
type ProviderRecord struct {
	UID         string
	DisplayName string
	Email       string
	PhotoURL    string
}

// mapUser converts a provider record into the local user shape. The role is
// derived on every session event, never stored: admin iff the email matches
// the configured super-admin address exactly (case-sensitive).
func mapUser(rec ProviderRecord, superAdminEmail string) User {
	name := rec.DisplayName
	if name == "" {
		name = "User"
	}
	avatar := rec.PhotoURL
	if avatar == "" {
		avatar = defaultAvatar
	}
	role := RoleUser
	if rec.Email == superAdminEmail {
		role = RoleAdmin
	}
	return User{
		ID:     rec.UID,
		Name:   name,
		Email:  rec.Email,
		Avatar: avatar,
		Role:   role,
	}
}
