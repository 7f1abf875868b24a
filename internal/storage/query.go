// internal/storage/query.go
package storage

import "strings"

// TransactionOrder turns a sort key into an ORDER BY list for a query that
// aliases transactions as "t". Ties are always broken by id so that paging
// and the recent list stay deterministic.
func TransactionOrder(sort, amountColumn string) string {
	switch sort {
	case "date":
		return "t.date ASC, t.id ASC"
	case "amount":
		return amountColumn + " ASC, t.id ASC"
	case "-amount":
		return amountColumn + " DESC, t.id DESC"
	case "id":
		return "t.id ASC"
	case "-id":
		return "t.id DESC"
	default:
		return "t.date DESC, t.id DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a substring pattern using backslash as the escape
// character.
func LikePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
