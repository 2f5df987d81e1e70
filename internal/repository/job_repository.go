package repository

import (
	"errors"

	"github.com/unihub-next/internal/models"

	"gorm.io/gorm"
)

// JobRepository 职位数据访问接口
type JobRepository interface {
	Create(job *models.Job) error
	Update(job *models.Job) error
	Delete(id uint) error
	GetByID(id uint) (*models.Job, error)
	List(filter JobListFilter) ([]models.Job, int64, error)
	CreateApplication(application *models.JobApplication) error
	GetApplication(jobID, userID uint) (*models.JobApplication, error)
	ListApplicationsByJob(jobID uint, page, pageSize int) ([]models.JobApplication, int64, error)
	ListApplicationsByUser(userID uint, page, pageSize int) ([]models.JobApplication, int64, error)
}

// GormJobRepository GORM 实现
type GormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository 创建职位仓库
func NewJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Create 创建职位
func (r *GormJobRepository) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

// Update 更新职位
func (r *GormJobRepository) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

// Delete 删除职位（软删除）
func (r *GormJobRepository) Delete(id uint) error {
	return r.db.Delete(&models.Job{}, id).Error
}

// GetByID 根据 ID 获取职位
func (r *GormJobRepository) GetByID(id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// List 职位列表
func (r *GormJobRepository) List(filter JobListFilter) ([]models.Job, int64, error) {
	query := r.db.Model(&models.Job{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if filter.Company != "" {
		query = query.Where("company = ?", filter.Company)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.EmploymentType != "" {
		query = query.Where("employment_type = ?", filter.EmploymentType)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var jobs []models.Job
	if err := query.Order("posted_at DESC, id DESC").Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// CreateApplication 创建职位申请
func (r *GormJobRepository) CreateApplication(application *models.JobApplication) error {
	return r.db.Create(application).Error
}

// GetApplication 获取某用户对某职位的申请
func (r *GormJobRepository) GetApplication(jobID, userID uint) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.db.Where("job_id = ? AND user_id = ?", jobID, userID).
		First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// ListApplicationsByJob 职位维度的申请列表
func (r *GormJobRepository) ListApplicationsByJob(jobID uint, page, pageSize int) ([]models.JobApplication, int64, error) {
	return r.listApplications(r.db.Model(&models.JobApplication{}).Where("job_id = ?", jobID), page, pageSize)
}

// ListApplicationsByUser 用户维度的申请列表
func (r *GormJobRepository) ListApplicationsByUser(userID uint, page, pageSize int) ([]models.JobApplication, int64, error) {
	return r.listApplications(r.db.Model(&models.JobApplication{}).Where("user_id = ?", userID), page, pageSize)
}

func (r *GormJobRepository) listApplications(query *gorm.DB, page, pageSize int) ([]models.JobApplication, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var applications []models.JobApplication
	if err := query.Order("created_at DESC, id DESC").Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}
