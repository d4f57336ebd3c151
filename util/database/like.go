package database

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// LikePattern wraps term in % after escaping LIKE wildcards with '!'.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Contains is a case-insensitive substring match of term against expr;
// % and _ in term match themselves.
func Contains(expr exp.Expression, term string) exp.LiteralExpression {
	return goqu.L("LOWER(?) LIKE ? ESCAPE '!'", expr, LikePattern(strings.ToLower(term)))
}
