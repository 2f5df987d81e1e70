package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/constants"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"

	"github.com/google/uuid"
)

var allowedFileTypes = map[string]struct{}{
	constants.FileTypeImage:    {},
	constants.FileTypeVideo:    {},
	constants.FileTypeDocument: {},
	constants.FileTypeScan:     {},
	constants.FileTypeAudio:    {},
	constants.FileTypeOther:    {},
}

// UploadService 文件上传服务
type UploadService struct {
	cfg      *config.Config
	fileRepo repository.SharedFileRepository
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.Config, fileRepo repository.SharedFileRepository) *UploadService {
	return &UploadService{cfg: cfg, fileRepo: fileRepo}
}

// SaveFile 保存上传的文件并入库，按文件类别分子目录存储
func (s *UploadService) SaveFile(file *multipart.FileHeader, fileType string, uploaderID uint) (*models.SharedFile, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return nil, ErrFileTypeInvalid
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	_, err = src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil { // 重置文件读取位置
		return nil, err
	}

	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrFileTypeInvalid
		}
	}

	normalizedType := normalizeFileType(fileType)

	// 生成唯一文件名
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	relativePath := filepath.Join(normalizedType, filename)
	savePath := filepath.Join(s.cfg.Upload.Dir, relativePath)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	record := &models.SharedFile{
		FileType:    normalizedType,
		Name:        file.Filename,
		Path:        relativePath,
		Size:        file.Size,
		ContentType: contentType,
		UploaderID:  uploaderID,
		UploadedAt:  time.Now(),
	}
	if err := s.fileRepo.Create(record); err != nil {
		// 入库失败时清掉已写入的磁盘文件，避免孤儿文件
		_ = os.Remove(savePath)
		return nil, err
	}
	return record, nil
}

// GetFile 获取文件记录
func (s *UploadService) GetFile(id uint) (*models.SharedFile, error) {
	record, err := s.fileRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// ResolveDiskPath 计算文件的磁盘绝对路径
func (s *UploadService) ResolveDiskPath(record *models.SharedFile) string {
	return filepath.Join(s.cfg.Upload.Dir, record.Path)
}

// ListFiles 文件列表
func (s *UploadService) ListFiles(filter repository.FileListFilter) ([]models.SharedFile, int64, error) {
	filter.FileType = normalizeFilterFileType(filter.FileType)
	return s.fileRepo.List(filter)
}

// DeleteFile 删除文件记录与磁盘文件
func (s *UploadService) DeleteFile(id uint) error {
	record, err := s.fileRepo.GetByID(id)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrNotFound
	}
	if err := s.fileRepo.Delete(id); err != nil {
		return err
	}
	_ = os.Remove(s.ResolveDiskPath(record))
	return nil
}

func normalizeFileType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedFileTypes[value]; ok {
		return value
	}
	return constants.FileTypeOther
}

func normalizeFilterFileType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	if _, ok := allowedFileTypes[value]; ok {
		return value
	}
	return constants.FileTypeOther
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}
