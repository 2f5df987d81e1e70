package public

import (
	"github.com/unihub-next/internal/http/response"
	"github.com/unihub-next/internal/queue"
	"github.com/unihub-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListNews 文章列表，支持栏目与来源过滤
func (h *Handler) ListNews(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	filter := repository.NewsListFilter{
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Page:     page,
		PageSize: pageSize,
	}

	articles, total, err := h.NewsService.ListArticles(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.SuccessWithPage(c, articles, response.BuildPagination(page, pageSize, total))
}

// ListNewsCategories 栏目列表
func (h *Handler) ListNewsCategories(c *gin.Context) {
	categories, err := h.NewsService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, categories)
}

// RefreshNews 触发后台抓取，队列不可用时降级为同步抓取
func (h *Handler) RefreshNews(c *gin.Context) {
	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueNewsRefresh(queue.NewsRefreshPayload{}); err != nil {
			respondError(c, response.CodeInternal, "", err)
			return
		}
		response.SuccessWithMsg(c, "抓取任务已提交", nil)
		return
	}

	inserted, err := h.NewsService.RefreshAll(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "", err)
		return
	}
	response.Success(c, gin.H{"inserted": inserted})
}
