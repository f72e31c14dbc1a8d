package domain

import "strings"

// VerificationRequestProps are the stored fields of a request. ReviewedBy,
// ReviewedAt and Comment are optional; nil means unset.
type VerificationRequestProps struct {
	ID         uint
	UserID     UserID
	ImageID    ImageID
	Status     VerificationStatus
	ReviewedBy *UserID
	ReviewedAt *DateTime
	Comment    *string
	CreatedAt  DateTime
	UpdatedAt  DateTime
}

// VerificationRequest asks an admin to confirm that an image shows its submitter.
//
// States: PENDING -> APPROVED | REJECTED. Both targets are terminal. Approve and
// Reject never modify the receiver; they return the next version, which the
// caller persists in place of the old one.
type VerificationRequest struct {
	props VerificationRequestProps
}

// NewVerificationRequest validates props. Reviewer fields must be absent while
// PENDING and present once reviewed, and a REJECTED request must carry a reason.
func NewVerificationRequest(props VerificationRequestProps) (VerificationRequest, error) {
	if props.UserID.IsZero() {
		return VerificationRequest{}, invalid(MsgUserIDEmpty)
	}
	if props.ImageID.IsZero() {
		return VerificationRequest{}, invalid(MsgImageIDEmpty)
	}
	if props.Status.IsZero() {
		return VerificationRequest{}, invalid(MsgInvalidStatus)
	}
	if props.CreatedAt.IsZero() || props.UpdatedAt.IsZero() {
		return VerificationRequest{}, invalid(MsgInvalidDate)
	}

	reviewed := props.ReviewedBy != nil || props.ReviewedAt != nil
	switch {
	case props.Status == StatusPending && reviewed:
		return VerificationRequest{}, invalid("pending request cannot have a reviewer")
	case props.Status.IsTerminal() && (props.ReviewedBy == nil || props.ReviewedAt == nil):
		return VerificationRequest{}, invalid("reviewed request must record reviewer and review time")
	case props.Status == StatusRejected && (props.Comment == nil || strings.TrimSpace(*props.Comment) == ""):
		return VerificationRequest{}, invalid(MsgRejectionReasonReq)
	}

	return VerificationRequest{props: cloneRequestProps(props)}, nil
}

// NewPendingRequest builds the initial version of a request. The ID is zero
// until the repository assigns one.
func NewPendingRequest(userID UserID, imageID ImageID, at DateTime) (VerificationRequest, error) {
	return NewVerificationRequest(VerificationRequestProps{
		UserID:    userID,
		ImageID:   imageID,
		Status:    StatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	})
}

// Approve moves a PENDING request to APPROVED. An empty comment keeps the
// existing one.
func (r VerificationRequest) Approve(adminID UserID, comment string) (VerificationRequest, error) {
	return r.ApproveAt(adminID, comment, Now())
}

func (r VerificationRequest) ApproveAt(adminID UserID, comment string, at DateTime) (VerificationRequest, error) {
	if !r.IsPending() {
		return VerificationRequest{}, &TransitionError{Message: MsgOnlyPendingApprove}
	}

	next := cloneRequestProps(r.props)
	next.Status = StatusApproved
	next.ReviewedBy = &adminID
	next.ReviewedAt = &at
	if comment != "" {
		next.Comment = &comment
	}
	next.UpdatedAt = at
	return NewVerificationRequest(next)
}

// Reject moves a PENDING request to REJECTED. The status check runs before the
// comment check, so a reviewed request always reports the status error.
func (r VerificationRequest) Reject(adminID UserID, comment string) (VerificationRequest, error) {
	return r.RejectAt(adminID, comment, Now())
}

func (r VerificationRequest) RejectAt(adminID UserID, comment string, at DateTime) (VerificationRequest, error) {
	if !r.IsPending() {
		return VerificationRequest{}, &TransitionError{Message: MsgOnlyPendingReject}
	}
	if strings.TrimSpace(comment) == "" {
		return VerificationRequest{}, &TransitionError{Message: MsgRejectionReasonReq}
	}

	next := cloneRequestProps(r.props)
	next.Status = StatusRejected
	next.ReviewedBy = &adminID
	next.ReviewedAt = &at
	next.Comment = &comment
	next.UpdatedAt = at
	return NewVerificationRequest(next)
}

func (r VerificationRequest) IsPending() bool { return r.props.Status == StatusPending }
func (r VerificationRequest) IsApproved() bool { return r.props.Status == StatusApproved }
func (r VerificationRequest) IsRejected() bool { return r.props.Status == StatusRejected }

func (r VerificationRequest) ID() uint { return r.props.ID }
func (r VerificationRequest) UserID() UserID { return r.props.UserID }
func (r VerificationRequest) ImageID() ImageID { return r.props.ImageID }
func (r VerificationRequest) Status() VerificationStatus { return r.props.Status }
func (r VerificationRequest) CreatedAt() DateTime { return r.props.CreatedAt }
func (r VerificationRequest) UpdatedAt() DateTime { return r.props.UpdatedAt }

// ReviewedBy returns the reviewing admin, if any.
func (r VerificationRequest) ReviewedBy() (UserID, bool) {
	if r.props.ReviewedBy == nil {
		return UserID{}, false
	}
	return *r.props.ReviewedBy, true
}

func (r VerificationRequest) ReviewedAt() (DateTime, bool) {
	if r.props.ReviewedAt == nil {
		return DateTime{}, false
	}
	return *r.props.ReviewedAt, true
}

func (r VerificationRequest) Comment() (string, bool) {
	if r.props.Comment == nil {
		return "", false
	}
	return *r.props.Comment, true
}

// Props returns a copy of the request's fields; mutating it does not affect r.
func (r VerificationRequest) Props() VerificationRequestProps {
	return cloneRequestProps(r.props)
}

// WithID returns a copy carrying the storage-assigned ID.
func (r VerificationRequest) WithID(id uint) VerificationRequest {
	next := cloneRequestProps(r.props)
	next.ID = id
	return VerificationRequest{props: next}
}

func cloneRequestProps(p VerificationRequestProps) VerificationRequestProps {
	out := p
	if p.ReviewedBy != nil {
		v := *p.ReviewedBy
		out.ReviewedBy = &v
	}
	if p.ReviewedAt != nil {
		v := *p.ReviewedAt
		out.ReviewedAt = &v
	}
	if p.Comment != nil {
		v := *p.Comment
		out.Comment = &v
	}
	return out
}
