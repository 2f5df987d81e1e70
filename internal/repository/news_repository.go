package repository

import (
	"errors"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository 新闻数据访问接口
type NewsRepository interface {
	InsertIgnoreDuplicates(articles []models.NewsArticle) (int64, error)
	GetByID(id uint) (*models.NewsArticle, error)
	List(filter NewsListFilter) ([]models.NewsArticle, int64, error)
	ListCategories() ([]string, error)
}

// GormNewsRepository GORM 实现
type GormNewsRepository struct {
	db *gorm.DB
}

// NewNewsRepository 创建新闻仓库
func NewNewsRepository(db *gorm.DB) *GormNewsRepository {
	return &GormNewsRepository{db: db}
}

// InsertIgnoreDuplicates 批量入库，Link 冲突的行静默跳过，返回实际新增行数
func (r *GormNewsRepository) InsertIgnoreDuplicates(articles []models.NewsArticle) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "link"}},
		DoNothing: true,
	}).Create(&articles)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetByID 根据 ID 获取文章
func (r *GormNewsRepository) GetByID(id uint) (*models.NewsArticle, error) {
	var article models.NewsArticle
	if err := r.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// List 查询文章列表
func (r *GormNewsRepository) List(filter NewsListFilter) ([]models.NewsArticle, int64, error) {
	query := r.db.Model(&models.NewsArticle{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var articles []models.NewsArticle
	if err := query.Order("created_at DESC, id DESC").Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListCategories 列出已有的栏目分类
func (r *GormNewsRepository) ListCategories() ([]string, error) {
	var categories []string
	if err := r.db.Model(&models.NewsArticle{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
