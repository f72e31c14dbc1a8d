package model

import "time"

// VerificationImage 본인 확인용으로 제출된 사진
type VerificationImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"` // S3 URL 또는 data URL
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

func (VerificationImage) TableName() string {
	return "verification_images"
}

// VerificationRequest 관리자 검토 요청
type VerificationRequest struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	UserID     uint              `gorm:"index;not null" json:"user_id"`
	User       User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ImageID    uint              `gorm:"index;not null" json:"image_id"`
	Image      VerificationImage `gorm:"foreignKey:ImageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status     string            `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"` // PENDING, APPROVED, REJECTED
	ReviewedBy *uint             `json:"reviewed_by,omitempty"`                                           // 검토한 관리자 ID
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`                                           // 검토 완료 일시
	Comment    *string           `gorm:"type:text" json:"comment,omitempty"`                              // 승인 메모 또는 반려 사유
	CreatedAt  time.Time         `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (VerificationRequest) TableName() string {
	return "verification_requests"
}
