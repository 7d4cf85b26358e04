// Package storage is the image store behind note attachments
// Package storage 笔记图片存储
package storage

import (
	"io"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/storage/local_fs"
)

type Type = string

const LOCAL Type = "localfs"

// Config image store configuration
// Config 图片存储配置
type Config struct {
	Type     Type   `yaml:"type" default:"localfs"`
	SavePath string `yaml:"save-path" default:"storage/images"`
}

// Storager stores image files under keys and hands back absolute paths
// Storager 图片存储接口
type Storager interface {
	// SendFile never overwrites, an existing key fails with fs.ErrExist
	SendFile(pathKey string, file io.Reader, cType string, modTime time.Time) (string, error)
	SendContent(pathKey string, content []byte, modTime time.Time) (string, error)
	Delete(pathKey string) error
	Exists(pathKey string) bool
	List() ([]string, error)
	// Root 存储根目录的绝对路径
	Root() string
}

var constructors = map[Type]func(*Config) (Storager, error){
	LOCAL: func(c *Config) (Storager, error) {
		return local_fs.NewClient(&local_fs.Config{SavePath: c.SavePath})
	},
}

// IsSupported 判断存储类型是否可用
func IsSupported(t Type) bool {
	_, ok := constructors[t]
	return ok
}

// NewClient 按配置创建存储客户端
func NewClient(config *Config) (Storager, error) {
	if config == nil {
		return nil, code.ErrorInvalidStorageType.Clone().WithDetails("nil config")
	}
	build, ok := constructors[config.Type]
	if !ok {
		return nil, code.ErrorInvalidStorageType.Clone().WithDetails(config.Type)
	}
	return build(config)
}
