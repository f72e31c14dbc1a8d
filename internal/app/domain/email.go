package domain

import "strings"

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	if s == "" || !strings.Contains(s, "@") {
		return Email{}, invalid(MsgInvalidEmail)
	}
	return Email{value: s}, nil
}

func (e Email) String() string { return e.value }

func (e Email) IsZero() bool { return e.value == "" }
