package domain

// UserRole is either USER or ADMIN.
type UserRole struct {
	value string
}

var (
	RoleUser  = UserRole{"USER"}
	RoleAdmin = UserRole{"ADMIN"}
)

func NewUserRole(s string) (UserRole, error) {
	switch s {
	case RoleUser.value:
		return RoleUser, nil
	case RoleAdmin.value:
		return RoleAdmin, nil
	}
	return UserRole{}, invalid(MsgInvalidRole)
}

func (r UserRole) String() string { return r.value }

func (r UserRole) IsZero() bool { return r.value == "" }
