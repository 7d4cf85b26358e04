// Package fileurl holds small path helpers for the image directory and config files
// Package fileurl 图片目录与配置文件的路径工具
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExist reports whether dst exists, permission errors count as existing
// IsExist 判断路径是否存在
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	return err == nil || !os.IsNotExist(err)
}

// CreatePath creates the parent directory of dst
// CreatePath 创建 dst 的上级目录
func CreatePath(dst string, perm os.FileMode) error {
	return os.MkdirAll(filepath.Dir(dst), perm)
}

// PathSuffixCheckAdd 确保 path 以 suffix 结尾
func PathSuffixCheckAdd(path string, suffix string) string {
	if strings.HasSuffix(path, suffix) {
		return path
	}
	return path + suffix
}

// IsWithin reports whether p is root itself or lies below it, after cleaning both
// IsWithin 判断 p 是否位于 root 目录内
func IsWithin(root, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
