package token

var keywords = map[string]Kind{
	"temp":   KwTemp,
	"save":   KwSave,
	"extern": KwExtern,
	"set":    KwSet,
	"if":     KwIf,
	"elif":   KwElif,
	"else":   KwElse,
	"true":   KwTrue,
	"false":  KwFalse,
	"and":    KwAnd,
	"or":     KwOr,
	"not":    KwNot,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые - только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsStatementKeyword reports whether a word at the start of a line switches
// the scanner from dialogue text into statement mode.
func IsStatementKeyword(word string) bool {
	switch keywords[word] {
	case KwTemp, KwSave, KwExtern, KwSet, KwIf, KwElif, KwElse:
		return true
	default:
		return false
	}
}
