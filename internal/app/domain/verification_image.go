package domain

import "strings"

// VerificationImageProps are the fields of a submitted photo.
type VerificationImageProps struct {
	ID        ImageID
	UserID    UserID
	ImageURL  string
	CreatedAt DateTime
}

// VerificationImage is one submitted photo. It has no transitions.
type VerificationImage struct {
	props VerificationImageProps
}

// UnsavedImageID marks an image that has not been assigned a storage key yet.
func UnsavedImageID() ImageID { return ImageID{value: "0"} }

func NewVerificationImage(props VerificationImageProps) (VerificationImage, error) {
	if strings.TrimSpace(props.ImageURL) == "" {
		return VerificationImage{}, invalid(MsgImageURLEmpty)
	}
	if props.ID.IsZero() {
		return VerificationImage{}, invalid(MsgImageIDEmpty)
	}
	if props.UserID.IsZero() {
		return VerificationImage{}, invalid(MsgUserIDEmpty)
	}
	if props.CreatedAt.IsZero() {
		return VerificationImage{}, invalid(MsgInvalidDate)
	}
	return VerificationImage{props: props}, nil
}

func (i VerificationImage) ID() ImageID { return i.props.ID }
func (i VerificationImage) UserID() UserID { return i.props.UserID }
func (i VerificationImage) ImageURL() string { return i.props.ImageURL }
func (i VerificationImage) CreatedAt() DateTime { return i.props.CreatedAt }
func (i VerificationImage) Props() VerificationImageProps { return i.props }
