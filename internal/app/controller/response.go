package controller

import (
	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/internal/app/service"
)

// RequestResponse is the wire shape of a verification request. Review fields
// are null until the request is reviewed.
type RequestResponse struct {
	ID         uint    `json:"id"`
	UserID     string  `json:"userId"`
	ImageID    string  `json:"imageId"`
	Status     string  `json:"status"`
	ReviewedBy *string `json:"reviewedBy"`
	ReviewedAt *string `json:"reviewedAt"`
	Comment    *string `json:"comment"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

type ImageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toRequestResponse(r domain.VerificationRequest) RequestResponse {
	resp := RequestResponse{
		ID:        r.ID(),
		UserID:    r.UserID().String(),
		ImageID:   r.ImageID().String(),
		Status:    r.Status().String(),
		CreatedAt: r.CreatedAt().String(),
		UpdatedAt: r.UpdatedAt().String(),
	}
	if by, ok := r.ReviewedBy(); ok {
		s := by.String()
		resp.ReviewedBy = &s
	}
	if at, ok := r.ReviewedAt(); ok {
		s := at.String()
		resp.ReviewedAt = &s
	}
	if comment, ok := r.Comment(); ok {
		resp.Comment = &comment
	}
	return resp
}

// requestViewResponse adds imageUrl, null when the image did not resolve.
type requestViewResponse struct {
	RequestResponse
	ImageURL *string `json:"imageUrl"`
}

func toRequestView(v service.RequestView) requestViewResponse {
	resp := requestViewResponse{RequestResponse: toRequestResponse(v.Request)}
	if v.ImageURL != "" {
		url := v.ImageURL
		resp.ImageURL = &url
	}
	return resp
}

func toRequestViews(views []service.RequestView) []requestViewResponse {
	out := make([]requestViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toRequestView(v))
	}
	return out
}

func toImageResponse(i domain.VerificationImage) ImageResponse {
	return ImageResponse{
		ID:        i.ID().String(),
		UserID:    i.UserID().String(),
		ImageURL:  i.ImageURL(),
		CreatedAt: i.CreatedAt().String(),
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		Name:      u.Name(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt().String(),
		UpdatedAt: u.UpdatedAt().String(),
	}
}
