package upgrade

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CurrentSchemaVersion schema version of the notes table shipped with this build
// CurrentSchemaVersion 当前版本的数据库结构版本号
const CurrentSchemaVersion = 2

// SchemaVersion 数据库版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     int       `gorm:"not null" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}

// Migration moves the schema from From() to To()
// Migration 定义升级接口
type Migration interface {
	From() int
	To() int
	Description() string
	Up(db *gorm.DB, ctx context.Context) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	target     int
	migrations []Migration
}

// ManagerOption 升级管理器选项
type ManagerOption func(*MigrationManager)

// WithTargetVersion 设置目标版本
func WithTargetVersion(v int) ManagerOption {
	return func(m *MigrationManager) {
		m.target = v
	}
}

// WithMigrations 注册升级脚本
func WithMigrations(migrations ...Migration) ManagerOption {
	return func(m *MigrationManager) {
		m.migrations = append(m.migrations, migrations...)
	}
}

// NewMigrationManager 创建升级管理器
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, opts ...ManagerOption) *MigrationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MigrationManager{
		db:     db,
		logger: logger,
		target: CurrentSchemaVersion,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run brings the notes table to the target version.
// A fresh database is created, a matching version is auto-migrated, a
// version reachable through registered migrations is upgraded, anything
// else drops and recreates the notes table.
// Run 执行升级，无升级路径时删除并重建 notes 表（数据丢失）
func (m *MigrationManager) Run(ctx context.Context) error {
	db := m.db.WithContext(ctx)

	// 确保 schema_version 表存在
	if err := db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, found, err := m.currentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get applied version: %w", err)
	}

	if !found {
		m.logger.Info("initializing database", zap.Int("version", m.target))
		if err := model.AutoMigrate(db, "Note"); err != nil {
			return fmt.Errorf("failed to create notes table: %w", err)
		}
		return m.record(db, "initial schema")
	}

	if current == m.target {
		m.logger.Info("database is already up to date", zap.Int("version", current))
		return model.AutoMigrate(db, "Note")
	}

	path, ok := m.path(current)
	if !ok {
		m.logger.Warn("no migration path, recreating notes table, existing notes are lost",
			zap.Int("from", current),
			zap.Int("to", m.target))
		if err := model.Recreate(db); err != nil {
			return fmt.Errorf("failed to recreate notes table: %w", err)
		}
		return m.record(db, fmt.Sprintf("destructive recreation from version %d", current))
	}

	for _, migration := range path {
		m.logger.Info("applying migration",
			zap.Int("from", migration.From()),
			zap.Int("to", migration.To()),
			zap.String("desc", migration.Description()))

		// 在事务中执行升级
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx, ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return tx.Create(&SchemaVersion{
				Version:     migration.To(),
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}).Error
		}); err != nil {
			return fmt.Errorf("failed to apply migration %d->%d: %w", migration.From(), migration.To(), err)
		}
	}

	m.logger.Info("upgrade completed", zap.Int("migrations_applied", len(path)))
	return nil
}

// Plan describes what Run would do, without touching the notes table
// Plan 升级计划，不修改 notes 表
type Plan struct {
	// Current 已记录的版本，Fresh 为 true 时无意义
	Current int
	Target  int
	Fresh   bool
	// Steps 将依次执行的升级描述
	Steps []string
	// Destructive notes 表会被删除重建
	Destructive bool
}

// Plan 计算升级计划，只读取 schema_version
func (m *MigrationManager) Plan(ctx context.Context) (Plan, error) {
	db := m.db.WithContext(ctx)
	p := Plan{Target: m.target}
	if !db.Migrator().HasTable(&SchemaVersion{}) {
		p.Fresh = true
		return p, nil
	}
	current, found, err := m.currentVersion(db)
	if err != nil {
		return p, fmt.Errorf("failed to get applied version: %w", err)
	}
	p.Current, p.Fresh = current, !found
	if !found || current == m.target {
		return p, nil
	}
	path, ok := m.path(current)
	if !ok {
		p.Destructive = true
		return p, nil
	}
	for _, migration := range path {
		p.Steps = append(p.Steps, fmt.Sprintf("%d -> %d: %s", migration.From(), migration.To(), migration.Description()))
	}
	return p, nil
}

// currentVersion 获取最近一次记录的版本
func (m *MigrationManager) currentVersion(db *gorm.DB) (int, bool, error) {
	var rows []SchemaVersion
	if err := db.Order("id DESC").Limit(1).Find(&rows).Error; err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].Version, true, nil
}

// path chains registered migrations from version to the target
func (m *MigrationManager) path(from int) ([]Migration, bool) {
	var chain []Migration
	seen := map[int]bool{}
	for from != m.target {
		if seen[from] {
			return nil, false
		}
		seen[from] = true

		var next Migration
		for _, migration := range m.migrations {
			if migration.From() == from {
				next = migration
				break
			}
		}
		if next == nil {
			return nil, false
		}
		chain = append(chain, next)
		from = next.To()
	}
	return chain, true
}

func (m *MigrationManager) record(db *gorm.DB, desc string) error {
	return db.Create(&SchemaVersion{
		Version:     m.target,
		Description: desc,
		AppliedAt:   time.Now(),
	}).Error
}

// Execute 执行升级(便捷方法)
func Execute(ctx context.Context, db *gorm.DB, logger *zap.Logger, opts ...ManagerOption) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrationManager(db, logger, opts...).Run(ctx)
}
