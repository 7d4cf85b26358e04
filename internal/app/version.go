package app

import "fmt"

// Name 应用名称
const Name = "Fast Note Pad"

// 由构建时 -ldflags "-X" 注入
var (
	Version   = "0.1.0"
	GitTag    = "2000.01.01.release"
	BuildTime = "2000-01-01T00:00:00+0800"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Name      string
	Version   string
	GitTag    string
	BuildTime string
}

// CurrentBuild 返回当前二进制的构建信息
func CurrentBuild() BuildInfo {
	return BuildInfo{Name: Name, Version: Version, GitTag: GitTag, BuildTime: BuildTime}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s v%s (Git: %s) BuildTime: %s", b.Name, b.Version, b.GitTag, b.BuildTime)
}
