package parser

import "github.com/ecolang-io/ecolang/internal/token"

// Operator precedence levels, loosest to tightest. The boolean operators
// bind looser than comparison, comparison looser than arithmetic, and
// exponentiation tightest of all, binding tighter than unary minus on its
// left.
const (
	LOWEST  = iota
	OR      // or
	AND     // and
	NOT     // not
	COMPARE // == != < <= > >=
	SUM     // + -
	PRODUCT // * / // %
	PREFIX  // -x +x
	POWER   // **
)

var precedences = map[token.Type]int{
	token.OR:          OR,
	token.AND:         AND,
	token.EQ:          COMPARE,
	token.NOT_EQ:      COMPARE,
	token.LT:          COMPARE,
	token.LT_EQUALS:   COMPARE,
	token.GT:          COMPARE,
	token.GT_EQUALS:   COMPARE,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.ASTERISK:    PRODUCT,
	token.SLASH:       PRODUCT,
	token.SLASH_SLASH: PRODUCT,
	token.MOD:         PRODUCT,
	token.POW:         POWER,
}

func precedence(t token.Type) int {
	if p, ok := precedences[t]; ok {
		return p
	}
	return LOWEST
}

func isComparator(t token.Type) bool {
	switch t {
	case token.EQ, token.NOT_EQ, token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS:
		return true
	}
	return false
}
