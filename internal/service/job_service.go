package service

import (
	"strings"
	"time"

	"github.com/unihub-next/internal/constants"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"

	"github.com/shopspring/decimal"
)

// JobService 职位服务
type JobService struct {
	jobRepo  repository.JobRepository
	fileRepo repository.SharedFileRepository
}

// NewJobService 创建职位服务
func NewJobService(jobRepo repository.JobRepository, fileRepo repository.SharedFileRepository) *JobService {
	return &JobService{jobRepo: jobRepo, fileRepo: fileRepo}
}

// JobInput 职位创建/更新入参
type JobInput struct {
	Title           string
	Description     string
	Company         string
	Location        string
	Salary          decimal.Decimal
	EmploymentType  string
	ExperienceLevel string
	IsActive        *bool
}

// ApplicationInput 职位申请入参
type ApplicationInput struct {
	CoverLetter     string
	ResumeFileID    *uint
	Phone           string
	ExperienceYears int
	ExpectedSalary  *decimal.Decimal
	PortfolioLink   string
	LinkedinProfile string
}

// CreateJob 创建职位
func (s *JobService) CreateJob(input JobInput) (*models.Job, error) {
	title := strings.TrimSpace(input.Title)
	company := strings.TrimSpace(input.Company)
	if title == "" || company == "" {
		return nil, ErrInvalidArgument
	}

	now := time.Now()
	job := &models.Job{
		Title:           title,
		Description:     input.Description,
		Company:         company,
		Location:        strings.TrimSpace(input.Location),
		Salary:          input.Salary,
		EmploymentType:  normalizeEmploymentType(input.EmploymentType),
		ExperienceLevel: normalizeExperienceLevel(input.ExperienceLevel),
		IsActive:        true,
		PostedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJob 更新职位
func (s *JobService) UpdateJob(id uint, input JobInput) (*models.Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) != "" {
		job.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		job.Description = input.Description
	}
	if strings.TrimSpace(input.Company) != "" {
		job.Company = strings.TrimSpace(input.Company)
	}
	if strings.TrimSpace(input.Location) != "" {
		job.Location = strings.TrimSpace(input.Location)
	}
	if !input.Salary.IsZero() {
		job.Salary = input.Salary
	}
	if strings.TrimSpace(input.EmploymentType) != "" {
		job.EmploymentType = normalizeEmploymentType(input.EmploymentType)
	}
	if strings.TrimSpace(input.ExperienceLevel) != "" {
		job.ExperienceLevel = normalizeExperienceLevel(input.ExperienceLevel)
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}

	job.UpdatedAt = time.Now()
	if err := s.jobRepo.Update(job); err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteJob 删除职位
func (s *JobService) DeleteJob(id uint) error {
	job, err := s.jobRepo.GetByID(id)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrNotFound
	}
	return s.jobRepo.Delete(id)
}

// GetJob 获取职位
func (s *JobService) GetJob(id uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// ListJobs 职位列表
func (s *JobService) ListJobs(filter repository.JobListFilter) ([]models.Job, int64, error) {
	return s.jobRepo.List(filter)
}

// Apply 申请职位，同一用户对同一职位只允许一次申请
func (s *JobService) Apply(jobID, userID uint, input ApplicationInput) (*models.JobApplication, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || !job.IsActive {
		return nil, ErrNotFound
	}

	exist, err := s.jobRepo.GetApplication(jobID, userID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrAlreadyApplied
	}

	if input.ResumeFileID != nil {
		resume, err := s.fileRepo.GetByID(*input.ResumeFileID)
		if err != nil {
			return nil, err
		}
		if resume == nil {
			return nil, ErrNotFound
		}
	}

	now := time.Now()
	application := &models.JobApplication{
		JobID:           jobID,
		UserID:          userID,
		CoverLetter:     input.CoverLetter,
		ResumeFileID:    input.ResumeFileID,
		Phone:           strings.TrimSpace(input.Phone),
		ExperienceYears: input.ExperienceYears,
		ExpectedSalary:  input.ExpectedSalary,
		PortfolioLink:   strings.TrimSpace(input.PortfolioLink),
		LinkedinProfile: strings.TrimSpace(input.LinkedinProfile),
		Status:          constants.ApplicationStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.jobRepo.CreateApplication(application); err != nil {
		return nil, err
	}
	return application, nil
}

// ListApplicationsByJob 职位维度的申请列表
func (s *JobService) ListApplicationsByJob(jobID uint, page, pageSize int) ([]models.JobApplication, int64, error) {
	return s.jobRepo.ListApplicationsByJob(jobID, page, pageSize)
}

// ListApplicationsByUser 用户维度的申请列表
func (s *JobService) ListApplicationsByUser(userID uint, page, pageSize int) ([]models.JobApplication, int64, error) {
	return s.jobRepo.ListApplicationsByUser(userID, page, pageSize)
}

func normalizeEmploymentType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.EmploymentTypePartTime:
		return constants.EmploymentTypePartTime
	case constants.EmploymentTypeContract:
		return constants.EmploymentTypeContract
	case constants.EmploymentTypeInternship:
		return constants.EmploymentTypeInternship
	case constants.EmploymentTypeTemporary:
		return constants.EmploymentTypeTemporary
	default:
		return constants.EmploymentTypeFullTime
	}
}

func normalizeExperienceLevel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.ExperienceLevelMid:
		return constants.ExperienceLevelMid
	case constants.ExperienceLevelSenior:
		return constants.ExperienceLevelSenior
	case constants.ExperienceLevelExecutive:
		return constants.ExperienceLevelExecutive
	default:
		return constants.ExperienceLevelEntry
	}
}
