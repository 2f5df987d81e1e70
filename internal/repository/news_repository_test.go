package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/unihub-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var newsRepoTestDBSeq int64

func setupNewsRepositoryTest(t *testing.T) *GormNewsRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:news_repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&newsRepoTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.NewsArticle{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewNewsRepository(db)
}

func TestInsertIgnoreDuplicatesSkipsKnownLinks(t *testing.T) {
	repo := setupNewsRepositoryTest(t)

	first := []models.NewsArticle{
		{Title: "A", Link: "https://example.com/a", Category: "campus"},
		{Title: "B", Link: "https://example.com/b", Category: "career"},
	}
	inserted, err := repo.InsertIgnoreDuplicates(first)
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("first insert want 2 got %d", inserted)
	}

	// 重复抓取同一批文章时按 Link 去重
	second := []models.NewsArticle{
		{Title: "A again", Link: "https://example.com/a", Category: "campus"},
		{Title: "C", Link: "https://example.com/c", Category: "campus"},
	}
	inserted, err = repo.InsertIgnoreDuplicates(second)
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("second insert want 1 got %d", inserted)
	}

	articles, total, err := repo.List(NewsListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(articles) != 3 {
		t.Fatalf("want 3 articles got total=%d len=%d", total, len(articles))
	}

	categories, err := repo.ListCategories()
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("categories want 2 got %v", categories)
	}
}

func TestInsertIgnoreDuplicatesEmptyBatch(t *testing.T) {
	repo := setupNewsRepositoryTest(t)

	inserted, err := repo.InsertIgnoreDuplicates(nil)
	if err != nil {
		t.Fatalf("empty insert failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("empty insert want 0 got %d", inserted)
	}
}
