package public

import (
	"errors"

	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/repository"
	"github.com/unihub-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadFile 上传文件（multipart 字段 file，file_type 指定类别）
func (h *Handler) UploadFile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "缺少文件")
		return
	}

	record, err := h.UploadService.SaveFile(file, c.PostForm("file_type"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			response.BadRequest(c, "文件超过大小限制")
		case errors.Is(err, service.ErrFileTypeInvalid):
			response.BadRequest(c, "文件类型不允许")
		default:
			respondError(c, response.CodeInternal, "", err)
		}
		return
	}
	response.Success(c, record)
}

// ListFiles 文件列表
func (h *Handler) ListFiles(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	page, pageSize := parsePageQuery(c)

	files, total, err := h.UploadService.ListFiles(repository.FileListFilter{
		FileType: c.Query("file_type"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, files, response.BuildPagination(page, pageSize, total))
}

// DownloadFile 下载文件
func (h *Handler) DownloadFile(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.UploadService.GetFile(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "文件不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	c.FileAttachment(h.UploadService.ResolveDiskPath(record), record.Name)
}

// DeleteFile 删除文件
func (h *Handler) DeleteFile(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.UploadService.DeleteFile(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(c, "文件不存在")
			return
		}
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithMsg(c, "已删除", nil)
}
