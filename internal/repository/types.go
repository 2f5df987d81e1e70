package repository

// NewsListFilter 新闻列表查询条件
type NewsListFilter struct {
	Category string
	Source   string
	Page     int
	PageSize int
}

// ChatMessageListFilter 聊天消息查询条件
type ChatMessageListFilter struct {
	SenderID   uint
	ReceiverID *uint
	Page       int
	PageSize   int
}

// JobListFilter 职位列表查询条件
type JobListFilter struct {
	Keyword         string
	Company         string
	Location        string
	EmploymentType  string
	ExperienceLevel string
	OnlyActive      bool
	Page            int
	PageSize        int
}

// FileListFilter 文件列表查询条件
type FileListFilter struct {
	FileType string
	Page     int
	PageSize int
}
