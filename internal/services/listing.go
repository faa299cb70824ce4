package services

import "strings"

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// sortClause builds a safe ORDER BY fragment: the sort field must be in the
// whitelist (falling back to def) and the direction is normalized to
// ASC/DESC, so neither ever reaches the query as raw input.
func sortClause(columns map[string]string, sort, order, def string) string {
	col, ok := columns[strings.ToLower(sort)]
	if !ok {
		col = def
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
