package repository

import (
	"errors"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
)

// SharedFileRepository 共享文件数据访问接口
type SharedFileRepository interface {
	Create(file *models.SharedFile) error
	GetByID(id uint) (*models.SharedFile, error)
	List(filter FileListFilter) ([]models.SharedFile, int64, error)
	Delete(id uint) error
}

// GormSharedFileRepository GORM 实现
type GormSharedFileRepository struct {
	db *gorm.DB
}

// NewSharedFileRepository 创建共享文件仓库
func NewSharedFileRepository(db *gorm.DB) *GormSharedFileRepository {
	return &GormSharedFileRepository{db: db}
}

// Create 创建文件记录
func (r *GormSharedFileRepository) Create(file *models.SharedFile) error {
	return r.db.Create(file).Error
}

// GetByID 根据 ID 获取文件记录
func (r *GormSharedFileRepository) GetByID(id uint) (*models.SharedFile, error) {
	var file models.SharedFile
	if err := r.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

// List 文件列表
func (r *GormSharedFileRepository) List(filter FileListFilter) ([]models.SharedFile, int64, error) {
	query := r.db.Model(&models.SharedFile{})

	if filter.FileType != "" {
		query = query.Where("file_type = ?", filter.FileType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var files []models.SharedFile
	if err := query.Order("uploaded_at DESC, id DESC").Find(&files).Error; err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// Delete 删除文件记录
func (r *GormSharedFileRepository) Delete(id uint) error {
	return r.db.Delete(&models.SharedFile{}, id).Error
}
