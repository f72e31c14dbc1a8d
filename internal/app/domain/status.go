package domain

// VerificationStatus is the lifecycle state of a verification request.
type VerificationStatus struct {
	value string
}

var (
	StatusPending  = VerificationStatus{"PENDING"}
	StatusApproved = VerificationStatus{"APPROVED"}
	StatusRejected = VerificationStatus{"REJECTED"}
)

var validStatuses = map[string]VerificationStatus{
	StatusPending.value:  StatusPending,
	StatusApproved.value: StatusApproved,
	StatusRejected.value: StatusRejected,
}

// NewVerificationStatus parses one of PENDING, APPROVED or REJECTED. Matching is
// exact; lowercase input is rejected.
func NewVerificationStatus(s string) (VerificationStatus, error) {
	st, ok := validStatuses[s]
	if !ok {
		return VerificationStatus{}, invalid(MsgInvalidStatus)
	}
	return st, nil
}

// AllStatuses returns the closed set in lifecycle order.
func AllStatuses() []VerificationStatus {
	return []VerificationStatus{StatusPending, StatusApproved, StatusRejected}
}

func (s VerificationStatus) String() string { return s.value }

func (s VerificationStatus) IsZero() bool { return s.value == "" }

// IsTerminal is true for APPROVED and REJECTED; no transition leaves them.
func (s VerificationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}
