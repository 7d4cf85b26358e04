// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/timex"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"
	"github.com/haierkeys/fast-note-pad/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Quote    QuoteConfig    `yaml:"quote"`
	Image    storage.Config `yaml:"image"`
	Task     TaskConfig     `yaml:"task"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只写 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9100"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址，用于 metrics 与 pprof
	PrivateHttpListen string `yaml:"private-http-listen" default:":9101"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/notes.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，SQLite 固定为 1
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m、1h
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultText 新建笔记的默认文本
	DefaultText string `yaml:"default-text" default:"text"`
	// SaveMessage 保存完成通知文本
	SaveMessage string `yaml:"save-message" default:"Action done"`
	// EventBuffer 一次性通知缓冲区大小
	EventBuffer int `yaml:"event-buffer" default:"16"`
	// LoadTimeout 加载笔记超时
	LoadTimeout string `yaml:"load-timeout" default:"10s"`
	// DefaultContextTimeout HTTP 请求上下文超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// ImageMaxSize 上传图片大小上限
	ImageMaxSize int64 `yaml:"image-max-size" default:"10485760"`
	// IntentRateLimit /api/intent 每秒请求数，负数表示不限
	IntentRateLimit int64 `yaml:"intent-rate-limit" default:"50"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"4"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// QuoteConfig 名言服务配置
type QuoteConfig struct {
	// BaseURL 服务地址，请求 <base-url>/quotes
	BaseURL string `yaml:"base-url" default:"http://localhost:8080"`
	// Timeout 请求超时
	Timeout string `yaml:"timeout" default:"10s"`
	// RatePerSecond 每秒请求数，负数表示不限
	RatePerSecond float64 `yaml:"rate-per-second" default:"2"`
	// RateBurst 令牌桶容量
	RateBurst int64 `yaml:"rate-burst" default:"4"`
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	// ImageCleanupCron 清理未引用图片的 cron 表达式，off 表示关闭
	ImageCleanupCron string `yaml:"image-cleanup-cron" default:"@every 1h"`
	// ImageCleanupMinAge 只清理早于该时长的文件
	ImageCleanupMinAge string `yaml:"image-cleanup-min-age" default:"1h"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	if !storage.IsSupported(c.Image.Type) {
		return nil, errors.Errorf("unsupported image storage type %q", c.Image.Type)
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	cfg.WriteTimeout = timex.DurationOr(c.App.WriteQueueTimeout, cfg.WriteTimeout)
	return cfg
}

// GetQuoteTimeout 获取名言请求超时
func (c *AppConfig) GetQuoteTimeout() time.Duration {
	return timex.DurationOr(c.Quote.Timeout, 10*time.Second)
}

// GetLoadTimeout 获取加载笔记超时
func (c *AppConfig) GetLoadTimeout() time.Duration {
	return timex.DurationOr(c.App.LoadTimeout, 10*time.Second)
}

// GetImageCleanupMinAge 获取图片清理的最小文件年龄
func (c *AppConfig) GetImageCleanupMinAge() time.Duration {
	return timex.DurationOr(c.Task.ImageCleanupMinAge, time.Hour)
}
