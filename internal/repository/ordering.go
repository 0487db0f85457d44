package repository

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm/clause"
)

// textColumns 是以不分大小寫順序排序的欄位
var textColumns = map[string]bool{
	"name":   true,
	"agency": true,
}

// compareText 先以小寫比較，相同時再逐位元組比較，
// 與 orderBy 產生的 SQL 排序一致，不受資料庫 collation 影響
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func sortText(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return compareText(values[i], values[j]) < 0
	})
}

// orderBy 回傳欄位的排序子句；NULL 排在最後 (postgres ASC 的預設)
func orderBy(column string) clause.OrderByColumn {
	if textColumns[column] {
		raw := fmt.Sprintf(`LOWER(%[1]s) COLLATE "C" ASC, %[1]s COLLATE "C" ASC`, column)
		return clause.OrderByColumn{Column: clause.Column{Name: raw, Raw: true}}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}}
}
