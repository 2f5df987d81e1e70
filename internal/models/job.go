package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job 职位表
type Job struct {
	ID              uint            `gorm:"primarykey" json:"id"`                        // 主键
	Title           string          `gorm:"not null" json:"title"`                       // 职位名称
	Description     string          `json:"description"`                                 // 职位描述
	Company         string          `gorm:"index;not null" json:"company"`               // 公司名称
	Location        string          `gorm:"default:''" json:"location"`                  // 工作地点
	Salary          decimal.Decimal `gorm:"type:decimal(12,2)" json:"salary"`            // 薪资
	EmploymentType  string          `gorm:"default:'full_time'" json:"employment_type"`  // 雇佣类型
	ExperienceLevel string          `gorm:"default:'entry'" json:"experience_level"`     // 经验要求
	IsActive        bool            `gorm:"default:true;index" json:"is_active"`         // 是否在招
	PostedAt        time.Time       `gorm:"index" json:"posted_at"`                      // 发布时间
	CreatedAt       time.Time       `json:"created_at"`                                  // 创建时间
	UpdatedAt       time.Time       `json:"updated_at"`                                  // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (Job) TableName() string {
	return "jobs"
}

// JobApplication 职位申请表
type JobApplication struct {
	ID              uint             `gorm:"primarykey" json:"id"`                    // 主键
	JobID           uint             `gorm:"index;not null" json:"job_id"`            // 申请的职位
	UserID          uint             `gorm:"index;not null" json:"user_id"`           // 申请人
	CoverLetter     string           `json:"cover_letter"`                            // 求职信
	ResumeFileID    *uint            `json:"resume_file_id"`                          // 简历文件
	Phone           string           `gorm:"default:''" json:"phone"`                 // 联系电话
	ExperienceYears int              `gorm:"default:0" json:"experience_years"`       // 工作年限
	ExpectedSalary  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_salary"` // 期望薪资
	PortfolioLink   string           `gorm:"default:''" json:"portfolio_link"`        // 作品集链接
	LinkedinProfile string           `gorm:"default:''" json:"linkedin_profile"`      // LinkedIn 主页
	Status          string           `gorm:"default:'pending';index" json:"status"`   // 审核状态
	Notes           string           `json:"notes"`                                   // 备注
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`                 // 申请时间
	UpdatedAt       time.Time        `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (JobApplication) TableName() string {
	return "job_applications"
}
