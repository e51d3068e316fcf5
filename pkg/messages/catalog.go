package messages

// Message keys used in response envelopes.
const (
	KeyInternal         = "error.internal"
	KeyInvalidInput     = "error.invalid_input"
	KeyInvalidField     = "error.invalid_field"
	KeyUnauthorized     = "error.unauthorized"
	KeyForbidden        = "error.forbidden"
	KeyNotFound         = "error.not_found"
	KeyConflict         = "error.conflict"
	KeyRegistered       = "account.registered"
	KeyLoggedIn         = "account.logged_in"
	KeyLoggedOut        = "account.logged_out"
	KeyNovelCreated     = "novel.created"
	KeyChapterCreated   = "chapter.created"
	KeyCommentCreated   = "comment.created"
	KeyFavoriteAdded    = "favorite.added"
	KeyFavoriteRemoved  = "favorite.removed"
	KeyReadingRecorded  = "reading.recorded"
	KeyKeywordRequired  = "search.keyword_required"
	KeyServiceHealthy   = "health.ok"
	KeyServiceUnhealthy = "health.degraded"
	KeyPopularFound     = "search.popular_found"
)

var english = map[string]string{
	KeyInternal:         "Internal server error",
	KeyInvalidInput:     "Invalid request",
	KeyInvalidField:     "Invalid %s: %s",
	KeyUnauthorized:     "Please log in first",
	KeyForbidden:        "You do not have permission for this resource",
	KeyNotFound:         "Resource not found",
	KeyConflict:         "Resource already exists",
	KeyRegistered:       "Registration successful",
	KeyLoggedIn:         "Login successful",
	KeyLoggedOut:        "Logout successful",
	KeyNovelCreated:     "Novel created",
	KeyChapterCreated:   "Chapter created",
	KeyCommentCreated:   "Comment posted",
	KeyFavoriteAdded:    "Added to favorites",
	KeyFavoriteRemoved:  "Removed from favorites",
	KeyReadingRecorded:  "Reading progress saved",
	KeyKeywordRequired:  "Search keyword is required",
	KeyServiceHealthy:   "Service is healthy",
	KeyServiceUnhealthy: "Service is degraded",
	KeyPopularFound:     "Found %d popular novels",
}

var chinese = map[string]string{
	KeyInternal:         "服务器内部错误",
	KeyInvalidInput:     "请求参数无效",
	KeyInvalidField:     "参数 %s 无效: %s",
	KeyUnauthorized:     "请先登录",
	KeyForbidden:        "无权操作该资源",
	KeyNotFound:         "资源不存在",
	KeyConflict:         "资源已存在",
	KeyRegistered:       "注册成功",
	KeyLoggedIn:         "登录成功",
	KeyLoggedOut:        "退出成功",
	KeyNovelCreated:     "小说创建成功",
	KeyChapterCreated:   "章节创建成功",
	KeyCommentCreated:   "评论发表成功",
	KeyFavoriteAdded:    "收藏成功",
	KeyFavoriteRemoved:  "已取消收藏",
	KeyReadingRecorded:  "阅读进度已保存",
	KeyKeywordRequired:  "请输入搜索关键词",
	KeyServiceHealthy:   "服务运行正常",
	KeyServiceUnhealthy: "服务异常",
	KeyPopularFound:     "找到 %d 本热门小说",
}
