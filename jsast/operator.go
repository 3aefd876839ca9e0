package jsast

// Operator identifies a unary or binary operator.
type Operator uint8

const (
	OpInvalid Operator = iota

	// Equality
	OpEq       // ==
	OpNe       // !=
	OpStrictEq // ===
	OpStrictNe // !==

	// Relational
	OpLt // <
	OpGt // >
	OpLe // <=
	OpGe // >=

	// Arithmetic
	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpMod // %

	// Logical
	OpLogicalAnd // &&
	OpLogicalOr  // ||

	// Unary
	OpNot    // !
	OpNeg    // -x
	OpPos    // +x
	OpTypeof // typeof
)

var operatorNames = map[Operator]string{
	OpEq:         "==",
	OpNe:         "!=",
	OpStrictEq:   "===",
	OpStrictNe:   "!==",
	OpLt:         "<",
	OpGt:         ">",
	OpLe:         "<=",
	OpGe:         ">=",
	OpAdd:        "+",
	OpSub:        "-",
	OpMul:        "*",
	OpDiv:        "/",
	OpMod:        "%",
	OpLogicalAnd: "&&",
	OpLogicalOr:  "||",
	OpNot:        "!",
	OpNeg:        "-",
	OpPos:        "+",
	OpTypeof:     "typeof",
}

// String returns the source text of the operator.
func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return "INVALID"
}

// IsBinary reports whether the operator is valid in a BinaryExpression.
func (o Operator) IsBinary() bool {
	return o >= OpEq && o <= OpLogicalOr
}
