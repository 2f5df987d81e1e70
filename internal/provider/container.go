package provider

import (
	"github.com/unihub-next/internal/cache"
	"github.com/unihub-next/internal/chat"
	"github.com/unihub-next/internal/config"
	"github.com/unihub-next/internal/logger"
	"github.com/unihub-next/internal/models"
	"github.com/unihub-next/internal/queue"
	"github.com/unihub-next/internal/repository"
	"github.com/unihub-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo          repository.UserRepository
	PendingSignupRepo repository.PendingSignupRepository
	OTPCodeRepo       repository.OTPCodeRepository
	PhoneOTPRepo      repository.PhoneOTPRepository
	ProfileRepo       repository.ProfileRepository
	ChatMessageRepo   repository.ChatMessageRepository
	NewsRepo          repository.NewsRepository
	JobRepo           repository.JobRepository
	SharedFileRepo    repository.SharedFileRepository

	// Services
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	SMSService      *service.SMSService
	GoogleService   *service.GoogleService
	ProfileService  *service.ProfileService
	ChatService     *service.ChatService
	NewsService     *service.NewsService
	JobService      *service.JobService
	UploadService   *service.UploadService

	// 聊天枢纽
	ChatHub *chat.Hub
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PendingSignupRepo = repository.NewPendingSignupRepository(db)
	c.OTPCodeRepo = repository.NewOTPCodeRepository(db)
	c.PhoneOTPRepo = repository.NewPhoneOTPRepository(db)
	c.ProfileRepo = repository.NewProfileRepository(db)
	c.ChatMessageRepo = repository.NewChatMessageRepository(db)
	c.NewsRepo = repository.NewNewsRepository(db)
	c.JobRepo = repository.NewJobRepository(db)
	c.SharedFileRepo = repository.NewSharedFileRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(c.Config.Email)
	c.SMSService = service.NewSMSService(c.Config.SMS)
	c.GoogleService = service.NewGoogleService(c.Config.GoogleOAuth)

	// *Service 为 nil 时不能直接塞进接口变量，会变成非 nil 接口包着 nil 指针
	var dispatcher service.CodeDispatcher
	if c.EmailService != nil {
		dispatcher = c.EmailService
	}
	var smsProvider service.SMSProvider
	if c.SMSService != nil {
		smsProvider = c.SMSService
	}
	var googleVerifier service.GoogleVerifier
	if c.GoogleService != nil {
		googleVerifier = c.GoogleService
	}

	c.UserAuthService = service.NewUserAuthService(
		c.Config,
		models.DB,
		c.UserRepo,
		c.PendingSignupRepo,
		c.OTPCodeRepo,
		c.PhoneOTPRepo,
		dispatcher,
		smsProvider,
		googleVerifier,
	)
	c.ProfileService = service.NewProfileService(c.UserRepo, c.ProfileRepo)
	c.ChatService = service.NewChatService(c.ChatMessageRepo, c.UserRepo)
	c.NewsService = service.NewNewsService(c.Config, c.NewsRepo)
	c.JobService = service.NewJobService(c.JobRepo, c.SharedFileRepo)
	c.UploadService = service.NewUploadService(c.Config, c.SharedFileRepo)

	c.ChatHub = chat.NewHub(c.ChatService)
	go c.ChatHub.Run()
}
