package domain

import "strings"

type UserProps struct {
	ID        UserID
	Email     Email
	Name      string
	Role      UserRole
	CreatedAt DateTime
	UpdatedAt DateTime
}

// User is an account that submits images or, with the ADMIN role, reviews them.
type User struct {
	props UserProps
}

// UnsavedUserID marks a user that has not been assigned a storage key yet.
func UnsavedUserID() UserID { return UserID{value: "0"} }

func NewUser(props UserProps) (User, error) {
	if strings.TrimSpace(props.Name) == "" {
		return User{}, invalid(MsgNameEmpty)
	}
	if props.ID.IsZero() {
		return User{}, invalid(MsgUserIDEmpty)
	}
	if props.Email.IsZero() {
		return User{}, invalid(MsgInvalidEmail)
	}
	if props.Role.IsZero() {
		return User{}, invalid(MsgInvalidRole)
	}
	if props.CreatedAt.IsZero() || props.UpdatedAt.IsZero() {
		return User{}, invalid(MsgInvalidDate)
	}
	return User{props: props}, nil
}

func (u User) ID() UserID { return u.props.ID }
func (u User) Email() Email { return u.props.Email }
func (u User) Name() string { return u.props.Name }
func (u User) Role() UserRole { return u.props.Role }
func (u User) CreatedAt() DateTime { return u.props.CreatedAt }
func (u User) UpdatedAt() DateTime { return u.props.UpdatedAt }
func (u User) Props() UserProps { return u.props }

func (u User) IsAdmin() bool {
	return u.props.Role == RoleAdmin
}

// ChangeRole returns a copy of u with the new role and a fresh UpdatedAt.
func (u User) ChangeRole(role UserRole) (User, error) {
	next := u.props
	next.Role = role
	next.UpdatedAt = Now()
	return NewUser(next)
}

// ChangeName returns a copy of u with the new name and a fresh UpdatedAt.
func (u User) ChangeName(name string) (User, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, invalid(MsgNameEmpty)
	}
	next := u.props
	next.Name = name
	next.UpdatedAt = Now()
	return NewUser(next)
}
