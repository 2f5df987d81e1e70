package public

import (
	"errors"

	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/repository"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type jobRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Salary          decimal.Decimal `json:"salary"`
	EmploymentType  string          `json:"employment_type"`
	ExperienceLevel string          `json:"experience_level"`
	IsActive        *bool           `json:"is_active"`
}

type jobApplyRequest struct {
	CoverLetter     string           `json:"cover_letter"`
	ResumeFileID    *uint            `json:"resume_file_id"`
	Phone           string           `json:"phone"`
	ExperienceYears int              `json:"experience_years"`
	ExpectedSalary  *decimal.Decimal `json:"expected_salary"`
	PortfolioLink   string           `json:"portfolio_link"`
	LinkedinProfile string           `json:"linkedin_profile"`
}

// ListJobs 职位列表
func (h *Handler) ListJobs(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.JobListFilter{
		Keyword:         c.Query("keyword"),
		Company:         c.Query("company"),
		Location:        c.Query("location"),
		EmploymentType:  c.Query("employment_type"),
		ExperienceLevel: c.Query("experience_level"),
		OnlyActive:      c.DefaultQuery("only_active", "true") == "true",
		Page:            page,
		PageSize:        pageSize,
	}

	jobs, total, err := h.JobService.ListJobs(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, jobs, response.BuildPagination(page, pageSize, total))
}

// GetJob 职位详情
func (h *Handler) GetJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "职位不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, job)
}

// CreateJob 发布职位
func (h *Handler) CreateJob(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	job, err := h.JobService.CreateJob(jobInputFromRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			response.BadRequest(c, "职位名称与公司名称不能为空")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, job)
}

// UpdateJob 更新职位
func (h *Handler) UpdateJob(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	job, err := h.JobService.UpdateJob(id, jobInputFromRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "职位不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, job)
}

// DeleteJob 删除职位
func (h *Handler) DeleteJob(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.JobService.DeleteJob(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "职位不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithMsg(c, "已删除", nil)
}

// ApplyJob 申请职位
func (h *Handler) ApplyJob(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req jobApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	application, err := h.JobService.Apply(jobID, userID, service.ApplicationInput{
		CoverLetter:     req.CoverLetter,
		ResumeFileID:    req.ResumeFileID,
		Phone:           req.Phone,
		ExperienceYears: req.ExperienceYears,
		ExpectedSalary:  req.ExpectedSalary,
		PortfolioLink:   req.PortfolioLink,
		LinkedinProfile: req.LinkedinProfile,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(c, "职位不存在或已下线")
		case errors.Is(err, service.ErrAlreadyApplied):
			response.BadRequest(c, "已申请过该职位")
		default:
			respondError(c, response.CodeInternal, "", err)
		}
		return
	}
	response.Success(c, application)
}

// ListJobApplications 某个职位收到的申请记录
func (h *Handler) ListJobApplications(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)

	if _, err := h.JobService.GetJob(jobID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "职位不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}

	applications, total, err := h.JobService.ListApplicationsByJob(jobID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, applications, response.BuildPagination(page, pageSize, total))
}

// ListMyApplications 当前用户的申请记录
func (h *Handler) ListMyApplications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePageQuery(c)

	applications, total, err := h.JobService.ListApplicationsByUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, applications, response.BuildPagination(page, pageSize, total))
}

func jobInputFromRequest(req jobRequest) service.JobInput {
	return service.JobInput{
		Title:           req.Title,
		Description:     req.Description,
		Company:         req.Company,
		Location:        req.Location,
		Salary:          req.Salary,
		EmploymentType:  req.EmploymentType,
		ExperienceLevel: req.ExperienceLevel,
		IsActive:        req.IsActive,
	}
}
