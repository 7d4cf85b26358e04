package model

const TableNameNote = "notes"

// Note mapped from table <notes>
type Note struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement:true" json:"id" form:"id" copier:"-"`
	Text      string  `gorm:"column:text;type:text" json:"text" form:"text"`
	Update    *int64  `gorm:"column:update;default:NULL" json:"update" form:"update" copier:"-"`
	ImagePath *string `gorm:"column:image_path;type:text;default:NULL" json:"imagePath" form:"imagePath"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
