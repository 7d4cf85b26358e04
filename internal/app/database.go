package app

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/upgrade"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DaoConfig 转换为 dao.DatabaseConfig
func (c *AppConfig) DaoConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// OpenDatabase opens the configured database and brings the schema to the current version
// OpenDatabase 打开数据库并执行 schema 升级
func OpenDatabase(ctx context.Context, cfg *AppConfig, lg *zap.Logger) (*gorm.DB, error) {
	db, err := dao.NewDBEngineWithConfig(cfg.DaoConfig(), lg)
	if err != nil {
		return nil, err
	}
	if err := upgrade.Execute(ctx, db, lg); err != nil {
		if sqlDB, e := db.DB(); e == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("upgrade.Execute: %w", err)
	}
	return db, nil
}
