package models

import "time"

// NewsArticle 新闻文章表
//
// Link 唯一索引负责去重：同一条 RSS 文章重复抓取时直接跳过。
type NewsArticle struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	Title     string    `gorm:"not null" json:"title"`            // 标题
	Summary   string    `json:"summary"`                          // 摘要
	Link      string    `gorm:"uniqueIndex;not null" json:"link"` // 原文链接（去重键）
	Published string    `gorm:"default:''" json:"published"`      // 源站发布时间（原文格式）
	Image     string    `gorm:"default:''" json:"image"`          // 配图地址
	Source    string    `gorm:"index;default:''" json:"source"`   // 来源名称
	Category  string    `gorm:"index;default:''" json:"category"` // 栏目分类
	CreatedAt time.Time `gorm:"index" json:"created_at"`          // 入库时间
}

// TableName 指定表名
func (NewsArticle) TableName() string {
	return "news_articles"
}
