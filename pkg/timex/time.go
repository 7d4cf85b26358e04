package timex

import (
	"strconv"
	"time"
)

const layout = "2006-01-02 15:04:05"

// Time is a time.Time that serializes as "2006-01-02 15:04:05" in JSON, zero as null
// Time JSON 序列化为 "2006-01-02 15:04:05"，零值序列化为 null
type Time time.Time

func Now() Time {
	return Time(time.Now())
}

func (t Time) Unix() int64 {
	return time.Time(t).Unix()
}

func (t Time) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

func (t Time) UnixMicro() int64 {
	return time.Time(t).UnixMicro()
}

func (t Time) UnixNano() int64 {
	return time.Time(t).UnixNano()
}

func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Time) String() string {
	return time.Time(t).Format(layout)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(layout, unquoted, time.Local)
	if err != nil {
		return err
	}
	*t = Time(parsed)
	return nil
}

// Millis converts t to epoch milliseconds, zero time becomes nil (stored as NULL)
// Millis 转换为毫秒时间戳，零值返回 nil（存储为 NULL）
func Millis(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// FromMillis is the inverse of Millis, nil becomes the zero time
// FromMillis 为 Millis 的逆操作，nil 返回零值
func FromMillis(ms *int64) time.Time {
	if ms == nil {
		return time.Time{}
	}
	return time.UnixMilli(*ms)
}
