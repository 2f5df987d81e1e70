package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 登录方式常量
const (
	LoginProviderEmail = "email"
	LoginProviderOAuth = "oauth"
)

// Token 类型常量
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 文件类型常量
const (
	FileTypeImage    = "image"
	FileTypeVideo    = "video"
	FileTypeDocument = "document"
	FileTypeScan     = "scan"
	FileTypeAudio    = "audio"
	FileTypeOther    = "other"
)

// 职位雇佣类型常量
const (
	EmploymentTypeFullTime   = "full_time"
	EmploymentTypePartTime   = "part_time"
	EmploymentTypeContract   = "contract"
	EmploymentTypeInternship = "internship"
	EmploymentTypeTemporary  = "temporary"
)

// 职位经验等级常量
const (
	ExperienceLevelEntry     = "entry"
	ExperienceLevelMid       = "mid"
	ExperienceLevelSenior    = "senior"
	ExperienceLevelExecutive = "executive"
)

// 职位申请状态常量
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusReviewed = "reviewed"
	ApplicationStatusRejected = "rejected"
	ApplicationStatusSelected = "selected"
)

// 异步队列常量
const (
	QueueDefault         = "default"
	TaskNewsRefresh      = "news:refresh"
	TaskAuthPurgeExpired = "auth:purge_expired"
)

// 聊天消息类型常量
const (
	ChatMessageTypeChat = "chat_message"
)
