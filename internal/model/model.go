package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名迁移表结构
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Note":
		return db.AutoMigrate(&Note{})
	}
	return nil
}

// Recreate drops the notes table and creates it again, every row is lost
// Recreate 删除并重建 notes 表，所有数据丢失
func Recreate(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&Note{}); err != nil {
		return err
	}
	return db.Migrator().CreateTable(&Note{})
}
