package public

import (
	"errors"
	"time"

	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
)

type profileUpdateRequest struct {
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	BirthDate   *string `json:"birth_date"` // YYYY-MM-DD
	PhoneNumber *string `json:"phone_number"`
	Website     *string `json:"website"`
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	profile, err := h.ProfileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数不合法")
		return
	}

	input := service.ProfileUpdateInput{
		Bio:         req.Bio,
		Location:    req.Location,
		PhoneNumber: req.PhoneNumber,
		Website:     req.Website,
	}
	if req.BirthDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			response.BadRequest(c, "出生日期格式应为 YYYY-MM-DD")
			return
		}
		input.BirthDate = &parsed
	}

	profile, err := h.ProfileService.UpdateProfile(userID, input)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, profile)
}
