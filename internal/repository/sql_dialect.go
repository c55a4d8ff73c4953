package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var localizedJSONSearchKeys = []string{"vi-VN", "en-US"}

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func jsonTextExprByDialect(dialect, column, key string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	}
	// 语言键带 -，sqlite 需加引号
	return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
}

// buildLocalizedSearch 构建 slug + 多语言名称的模糊匹配条件与参数。
func buildLocalizedSearch(db *gorm.DB, keyword string, plainColumns, jsonColumns []string) (string, []interface{}) {
	return buildLocalizedSearchByDialect(dbDialectName(db), keyword, plainColumns, jsonColumns)
}

func buildLocalizedSearchByDialect(dialect, keyword string, plainColumns, jsonColumns []string) (string, []interface{}) {
	operator := "LIKE"
	if isPostgresDialect(dialect) {
		operator = "ILIKE"
	}
	like := "%" + strings.TrimSpace(keyword) + "%"

	parts := make([]string, 0, len(plainColumns)+len(jsonColumns)*len(localizedJSONSearchKeys))
	args := make([]interface{}, 0, cap(parts))
	for _, column := range plainColumns {
		if column = strings.TrimSpace(column); column == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", column, operator))
		args = append(args, like)
	}
	for _, column := range jsonColumns {
		if column = strings.TrimSpace(column); column == "" {
			continue
		}
		for _, key := range localizedJSONSearchKeys {
			parts = append(parts, fmt.Sprintf("%s %s ?", jsonTextExprByDialect(dialect, column, key), operator))
			args = append(args, like)
		}
	}
	return strings.Join(parts, " OR "), args
}
