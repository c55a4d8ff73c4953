package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleVI = "vi-VN"
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"

	DefaultLocale = LocaleVI
)

// ContextKey gin 上下文中缓存语言的键
const ContextKey = "locale"

var supportedLocales = []string{LocaleVI, LocaleEN, LocaleZH}

// Normalize 将任意语言标识归一到受支持的语言，无法识别时返回空字符串
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(strings.ReplaceAll(raw, "_", "-"))
	for _, locale := range supportedLocales {
		if lower == strings.ToLower(locale) {
			return locale
		}
	}
	switch {
	case strings.HasPrefix(lower, "vi"):
		return LocaleVI
	case strings.HasPrefix(lower, "en"):
		return LocaleEN
	case strings.HasPrefix(lower, "zh"):
		return LocaleZH
	}
	return ""
}

// ResolveLocale 按 query lang、X-Locale、Accept-Language 顺序解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if cached, ok := c.Get(ContextKey); ok {
		if locale, ok := cached.(string); ok && locale != "" {
			return locale
		}
	}
	locale := Normalize(c.Query("lang"))
	if locale == "" {
		locale = Normalize(c.GetHeader("X-Locale"))
	}
	if locale == "" {
		locale = fromAcceptLanguage(c.GetHeader("Accept-Language"))
	}
	if locale == "" {
		locale = DefaultLocale
	}
	c.Set(ContextKey, locale)
	return locale
}

func fromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := Normalize(tag); locale != "" {
			return locale
		}
	}
	return ""
}

// T 翻译消息键，缺失时回退到默认语言，仍缺失则返回键本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断消息键是否存在
func Has(key string) bool {
	_, ok := lookup(DefaultLocale, key)
	return ok
}

func lookup(locale, key string) (string, bool) {
	catalog, ok := catalogs[Normalize(locale)]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}
