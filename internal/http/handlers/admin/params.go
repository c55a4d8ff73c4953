package admin

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/service"
)

// orderStatusValue 订单状态，兼容数值（0-4）与名称（pending 等）两种写法
type orderStatusValue struct {
	value int
	set   bool
}

// UnmarshalJSON 解析数值或字符串状态
func (v *orderStatusValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	status, err := service.ParseOrderStatus(raw)
	if err != nil {
		return response.KeyedError(response.CodeUnprocessableEntity, "error.order_status_invalid", err)
	}
	v.value = status
	v.set = true
	return nil
}

func (v *orderStatusValue) ptr() *int {
	if v == nil || !v.set {
		return nil
	}
	value := v.value
	return &value
}

// parseTimeNullable 支持 RFC3339 与 YYYY-MM-DD，endOfDay 用于截止日期
func parseTimeNullable(raw string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Second)
	}
	return &parsed, nil
}

func parseUintQuery(raw string) uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func parseBoolQuery(raw string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && parsed
}
