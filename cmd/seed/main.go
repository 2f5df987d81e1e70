package main

import (
	"fmt"
	"time"

	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()

	// 添加职位
	jobs := []models.Job{
		{
			Title:           "Go 后端工程师",
			Description:     "负责校园服务平台后端接口的设计与实现，熟悉 gin、gorm、Redis 者优先。",
			Company:         "星图科技",
			Location:        "上海",
			Salary:          decimal.NewFromInt(28000),
			EmploymentType:  "full_time",
			ExperienceLevel: "mid",
			IsActive:        true,
			PostedAt:        now.Add(-48 * time.Hour),
		},
		{
			Title:           "前端开发实习生",
			Description:     "参与校园门户前端页面开发，要求掌握 TypeScript 与 React 基础。",
			Company:         "青藤网络",
			Location:        "远程",
			Salary:          decimal.NewFromInt(4000),
			EmploymentType:  "internship",
			ExperienceLevel: "entry",
			IsActive:        true,
			PostedAt:        now.Add(-24 * time.Hour),
		},
		{
			Title:           "数据分析师",
			Description:     "负责运营数据的清洗、建模与可视化，需要熟练使用 SQL。",
			Company:         "联合数据",
			Location:        "北京",
			Salary:          decimal.NewFromInt(22000),
			EmploymentType:  "full_time",
			ExperienceLevel: "senior",
			IsActive:        true,
			PostedAt:        now.Add(-6 * time.Hour),
		},
		{
			Title:           "校园大使（已结束）",
			Description:     "历史招募职位，仅用于演示下架状态。",
			Company:         "星图科技",
			Location:        "广州",
			Salary:          decimal.NewFromInt(2000),
			EmploymentType:  "part_time",
			ExperienceLevel: "entry",
			IsActive:        false,
			PostedAt:        now.Add(-30 * 24 * time.Hour),
		},
	}

	for _, job := range jobs {
		var existing models.Job
		if err := models.DB.Where("title = ? AND company = ?", job.Title, job.Company).First(&existing).Error; err != nil {
			if err := models.DB.Create(&job).Error; err != nil {
				stdLog.Printf("Failed to create job %s: %v", job.Title, err)
			} else {
				stdLog.Printf("Created job: %s @ %s", job.Title, job.Company)
			}
		} else {
			stdLog.Printf("Job already exists: %s @ %s", job.Title, job.Company)
		}
	}

	// 添加演示新闻（正式数据由 RSS 刷新任务抓取）
	articles := []models.NewsArticle{
		{
			Title:     "平台上线公告",
			Summary:   "校园服务平台正式上线，聊天、招聘、资讯等模块开放使用。",
			Link:      "https://unihub.example.com/news/launch",
			Published: now.Add(-72 * time.Hour).Format(time.RFC1123Z),
			Source:    "官方公告",
			Category:  "campus",
		},
		{
			Title:     "秋季招聘会预告",
			Summary:   "十月中旬将举办线上招聘会，超过 50 家企业参与。",
			Link:      "https://unihub.example.com/news/autumn-job-fair",
			Published: now.Add(-12 * time.Hour).Format(time.RFC1123Z),
			Source:    "官方公告",
			Category:  "career",
		},
	}

	for _, article := range articles {
		var existing models.NewsArticle
		if err := models.DB.Where("link = ?", article.Link).First(&existing).Error; err != nil {
			if err := models.DB.Create(&article).Error; err != nil {
				stdLog.Printf("Failed to create article %s: %v", article.Title, err)
			} else {
				stdLog.Printf("Created article: %s", article.Title)
			}
		} else {
			stdLog.Printf("Article already exists: %s", article.Title)
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Jobs (3 active + 1 closed)")
	fmt.Println("- 2 News articles")
}
