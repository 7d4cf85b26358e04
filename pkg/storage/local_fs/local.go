package local_fs

import (
	"path/filepath"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
)

type Config struct {
	SavePath string `yaml:"save-path" default:"storage/images"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(cf *Config) (*LocalFS, error) {
	if cf == nil {
		cf = &Config{}
	}
	return &LocalFS{
		Config: cf,
	}, nil
}

// getSavePath returns the absolute save directory with a trailing separator
// getSavePath 获取保存目录的绝对路径（带分隔符结尾）
func (p *LocalFS) getSavePath() string {
	savePath := p.Config.SavePath
	if savePath == "" {
		savePath = "storage/images"
	}
	if abs, err := filepath.Abs(savePath); err == nil {
		savePath = abs
	}
	return fileurl.PathSuffixCheckAdd(savePath, string(filepath.Separator))
}

// Root 返回保存目录的绝对路径
func (p *LocalFS) Root() string {
	return filepath.Clean(p.getSavePath())
}
