package repository

import "strings"

// '!' 作为 LIKE 转义字符，MySQL 与 SQLite 写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 生成不区分大小写的子串匹配模式，配合 LOWER(col) LIKE ? ESCAPE '!'
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
