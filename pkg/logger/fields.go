package logger

// 统一的日志字段命名常量
// Shared log field names so log queries stay consistent across packages
const (
	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldIntent 意图类型字段
	FieldIntent = "intent"

	// FieldNotification 一次性通知类型字段
	FieldNotification = "notification"

	// FieldImagePath 图片路径字段
	FieldImagePath = "imagePath"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldURL 请求地址字段
	FieldURL = "url"

	// FieldTask 后台任务名称字段
	FieldTask = "task"

	// FieldTraceID 请求追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldGeneration 加载代数字段
	FieldGeneration = "generation"
)
