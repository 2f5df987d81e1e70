package models

import "time"

// Profile 用户资料表
type Profile struct {
	ID          uint       `gorm:"primarykey" json:"id"`                 // 主键
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`  // 所属用户（一对一）
	Bio         string     `gorm:"default:''" json:"bio"`                // 个人简介
	Location    string     `gorm:"default:''" json:"location"`           // 所在地
	BirthDate   *time.Time `json:"birth_date"`                           // 出生日期
	PhoneNumber string     `gorm:"default:''" json:"phone_number"`       // 联系电话
	Website     string     `gorm:"default:''" json:"website"`            // 个人主页
	CreatedAt   time.Time  `json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
