package helper

import (
	"log"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate 开奖日期只取日期部分，非法输入返回零值
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		log.Printf("[WARN] date parse failed: %s, err: %v", value, err)
		return time.Time{}
	}
	return t
}

// FormatMillisToYMDHMS 将毫秒级时间戳格式化为 yyyy-MM-dd HH:mm:ss
func FormatMillisToYMDHMS(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
