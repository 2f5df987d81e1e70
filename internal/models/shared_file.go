package models

import "time"

// SharedFile 共享文件表
type SharedFile struct {
	ID          uint      `gorm:"primarykey" json:"id"`                // 主键
	FileType    string    `gorm:"index;not null" json:"file_type"`     // 文件类别（决定存储子目录）
	Name        string    `gorm:"not null" json:"name"`                // 原始文件名
	Path        string    `gorm:"not null" json:"-"`                   // 磁盘相对路径
	Size        int64     `gorm:"not null" json:"size"`                // 字节大小
	ContentType string    `gorm:"default:''" json:"content_type"`      // MIME 类型
	UploaderID  uint      `gorm:"index;default:0" json:"uploader_id"`  // 上传者
	UploadedAt  time.Time `gorm:"index" json:"uploaded_at"`            // 上传时间
}

// TableName 指定表名
func (SharedFile) TableName() string {
	return "shared_files"
}
