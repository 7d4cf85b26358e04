// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
	"github.com/haierkeys/fast-note-pad/pkg/timex"
	"github.com/haierkeys/fast-note-pad/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// noteWriteKey all note writes share one write queue key
// noteWriteKey 所有笔记写操作共用一个写队列 key
const noteWriteKey = "notes"

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

type Dao struct {
	Db         *gorm.DB
	ctx        context.Context
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// DaoOption Dao 构造选项
type DaoOption func(*Dao)

// WithLogger 注入日志器
func WithLogger(lg *zap.Logger) DaoOption {
	return func(d *Dao) {
		d.logger = lg
	}
}

// WithWriteQueueManager 注入写队列管理器
func WithWriteQueueManager(m *writequeue.Manager) DaoOption {
	return func(d *Dao) {
		d.writeQueue = m
	}
}

func New(db *gorm.DB, ctx context.Context, opts ...DaoOption) *Dao {
	d := &Dao{Db: db, ctx: ctx}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	return d
}

// DB returns a session bound to ctx
// DB 返回绑定 ctx 的会话
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		ctx = d.ctx
	}
	return d.Db.WithContext(ctx)
}

// ExecuteWrite serializes fn with every other note write.
// Without a write queue manager fn runs inline.
// ExecuteWrite 通过写队列串行执行写操作，未注入写队列时直接执行
func (d *Dao) ExecuteWrite(ctx context.Context, fn func() error) error {
	if d.writeQueue == nil {
		return fn()
	}
	return d.writeQueue.Execute(ctx, noteWriteKey, fn)
}

// NewDBEngineWithConfig 根据配置创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database failed")
	}

	if c.RunMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	maxOpen := c.MaxOpenConns
	if c.Type == "sqlite" || c.Type == "" {
		// sqlite allows a single writer
		maxOpen = 1
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(maxOpen)

	sqlDB.SetConnMaxLifetime(timex.DurationOr(c.ConnMaxLifetime, 30*time.Minute))
	if idle, err := timex.ParseDuration(c.ConnMaxIdleTime); err == nil && idle > 0 {
		sqlDB.SetConnMaxIdleTime(idle)
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type))
	}

	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Local",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
		)), nil
	case "sqlite", "":
		if !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create database directory failed")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}
