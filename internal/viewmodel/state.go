// Package viewmodel holds the editing state of the note pad and maps intents to store calls
// Package viewmodel 维护编辑状态，并把意图映射为存储调用
package viewmodel

// State 编辑界面状态
type State struct {
	DialogOpen bool    `json:"dialogOpen"`
	Text       string  `json:"text"`
	ImagePath  *string `json:"imagePath"`
	EditingID  *int64  `json:"editingId"`
}

// Clone 深拷贝状态，指针字段不共享
func (s State) Clone() State {
	out := State{DialogOpen: s.DialogOpen, Text: s.Text}
	if s.ImagePath != nil {
		p := *s.ImagePath
		out.ImagePath = &p
	}
	if s.EditingID != nil {
		id := *s.EditingID
		out.EditingID = &id
	}
	return out
}
