package zelval

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBigInt
	KindDecimal
	KindText
	KindObject
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindBigInt:  "bigint",
	KindDecimal: "decimal",
	KindText:    "text",
	KindObject:  "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindFloat, KindBigInt, KindDecimal:
		return true
	}
	return false
}
