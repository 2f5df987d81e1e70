package service

import (
	"context"
	"strings"
	"time"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/repository"

	"github.com/mmcdole/gofeed"
)

// NewsService RSS 新闻聚合服务
type NewsService struct {
	cfg      *config.Config
	newsRepo repository.NewsRepository
	parser   *gofeed.Parser
}

// NewNewsService 创建新闻聚合服务
func NewNewsService(cfg *config.Config, newsRepo repository.NewsRepository) *NewsService {
	return &NewsService{
		cfg:      cfg,
		newsRepo: newsRepo,
		parser:   gofeed.NewParser(),
	}
}

// RefreshAll 抓取配置的全部 RSS 源并入库，返回新增文章数
//
// 单个源失败只记日志不中断，Link 唯一索引负责去重。
func (s *NewsService) RefreshAll(ctx context.Context) (int64, error) {
	var inserted int64
	for _, feed := range s.cfg.News.Feeds {
		count, err := s.refreshFeed(ctx, feed)
		if err != nil {
			logger.Warnw("news_feed_refresh_failed", "feed", feed.Name, "url", feed.URL, "error", err)
			continue
		}
		inserted += count
	}
	return inserted, nil
}

func (s *NewsService) refreshFeed(ctx context.Context, feed config.NewsFeedConfig) (int64, error) {
	timeout := time.Duration(s.cfg.News.FetchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsed, err := s.parser.ParseURLWithContext(feed.URL, fetchCtx)
	if err != nil {
		return 0, err
	}

	articles := articlesFromFeed(parsed, feed.Name, feed.Category, s.cfg.News.FallbackImage)
	return s.newsRepo.InsertIgnoreDuplicates(articles)
}

// ListArticles 文章列表
func (s *NewsService) ListArticles(filter repository.NewsListFilter) ([]models.NewsArticle, int64, error) {
	return s.newsRepo.List(filter)
}

// ListCategories 已有栏目列表
func (s *NewsService) ListCategories() ([]string, error) {
	return s.newsRepo.ListCategories()
}

// articlesFromFeed 把解析后的 RSS 条目映射为文章模型，无链接的条目丢弃
func articlesFromFeed(feed *gofeed.Feed, source, category, fallbackImage string) []models.NewsArticle {
	if feed == nil {
		return nil
	}
	now := time.Now()
	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			Title:     strings.TrimSpace(item.Title),
			Summary:   strings.TrimSpace(item.Description),
			Link:      strings.TrimSpace(item.Link),
			Published: strings.TrimSpace(item.Published),
			Image:     resolveItemImage(item, fallbackImage),
			Source:    source,
			Category:  category,
			CreatedAt: now,
		})
	}
	return articles
}

// resolveItemImage 取条目配图：优先 item.Image，其次图片类 enclosure，最后兜底图
func resolveItemImage(item *gofeed.Item, fallback string) string {
	if item.Image != nil && strings.TrimSpace(item.Image.URL) != "" {
		return strings.TrimSpace(item.Image.URL)
	}
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") && strings.TrimSpace(enclosure.URL) != "" {
			return strings.TrimSpace(enclosure.URL)
		}
	}
	return fallback
}
