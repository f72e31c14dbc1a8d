package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                    // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                                    // 비밀번호 해시
	Name         string         `gorm:"not null" json:"name"`                                 // 이름
	Role         string         `gorm:"type:varchar(20);not null;default:'USER'" json:"role"` // USER, ADMIN
	CreatedAt    time.Time      `gorm:"autoCreateTime:false" json:"created_at"`               // 생성 시각
	UpdatedAt    time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`               // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                       // 삭제 시각(소프트 삭제)
}

func (User) TableName() string {
	return "users"
}
