package dto

import "github.com/haierkeys/fast-note-pad/internal/app"

// VersionDTO 版本信息响应，HTTP 与 CLI 共用
type VersionDTO struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "connected" 或 "error"
	Clients  int     `json:"clients"`  // WebSocket 连接数

	// PendingWrites 写队列中等待执行的写操作数
	PendingWrites int `json:"pendingWrites"`
}

// VersionFromBuild 构建信息转响应对象
func VersionFromBuild(b app.BuildInfo) VersionDTO {
	return VersionDTO{Name: b.Name, Version: b.Version, GitTag: b.GitTag, BuildTime: b.BuildTime}
}
