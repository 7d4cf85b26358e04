package viewmodel

// Intent is the closed set of user actions the controller understands
// Intent 控制器可处理的用户意图
type Intent interface {
	intentName() string
}

// SetText 更新文本
type SetText struct{ Text string }

// SetImagePath 更新图片路径，nil 表示清除
type SetImagePath struct{ Path *string }

// Load opens the editor for ID, or for a new note when ID is nil
// Load 加载笔记到编辑框，ID 为 nil 时新建
type Load struct{ ID *int64 }

// OpenDialog 打开编辑框
type OpenDialog struct{}

// CloseDialog 关闭编辑框，丢弃未保存的修改
type CloseDialog struct{}

// Save 保存当前编辑内容
type Save struct{}

// Delete 删除笔记，ID 为 nil 时忽略
type Delete struct{ ID *int64 }

// FireQuote 获取一条名言
type FireQuote struct{}

func (SetText) intentName() string      { return "set_text" }
func (SetImagePath) intentName() string { return "set_image_path" }
func (Load) intentName() string         { return "load" }
func (OpenDialog) intentName() string   { return "open_dialog" }
func (CloseDialog) intentName() string  { return "close_dialog" }
func (Save) intentName() string         { return "save" }
func (Delete) intentName() string       { return "delete" }
func (FireQuote) intentName() string    { return "fire_quote" }

// IntentName 返回意图名称，用于日志和指标
func IntentName(i Intent) string {
	if i == nil {
		return ""
	}
	return i.intentName()
}

// NotificationKind 一次性通知类型
type NotificationKind string

const (
	NotificationSaveCompleted NotificationKind = "save_completed"
	NotificationQuoteReceived NotificationKind = "quote_received"
	NotificationLoadFailed    NotificationKind = "load_failed"
)

// Notification is delivered at most once, to whoever reads Events first
// Notification 一次性通知，最多投递一次
type Notification struct {
	Kind NotificationKind `json:"kind"`
	// Message "Action done" for a save, the quote text for a quote, the error text for a failed load
	Message string `json:"message"`
	NoteID  *int64 `json:"noteId,omitempty"`
	Err     error  `json:"-"`
}
