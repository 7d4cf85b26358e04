package timex

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts time.ParseDuration input plus "7d" days and bare seconds
// ParseDuration 解析时长，支持 'd' 天后缀，纯数字按秒处理
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}

// DurationOr 解析失败或非正数时返回 def
func DurationOr(s string, def time.Duration) time.Duration {
	if d, err := ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
