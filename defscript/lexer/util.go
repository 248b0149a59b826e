package lexer

//
// Rune range helper functions
//

type runeRange struct {
	min int
	max int
}

func isRuneInRange(char rune, ranges ...runeRange) bool {
	intChar := int(char)
	for _, ran := range ranges {
		if intChar >= ran.min && intChar <= ran.max {
			return true
		}
	}
	return false
}

func IsDigit(char rune) bool { return isRuneInRange(char, runeRange{min: 48, max: 57}) }
func IsHexDigit(char rune) bool {
	return isRuneInRange(char,
		runeRange{min: 48, max: 57},
		runeRange{min: 65, max: 70},
		runeRange{min: 97, max: 102},
	)
}
func IsLetter(char rune) bool {
	return isRuneInRange(
		char,
		runeRange{min: 65, max: 90},  // capital letters
		runeRange{min: 97, max: 122}, // lowercase letters
		runeRange{min: 95, max: 95},  // underscore
	)
}

// IsOperatorChar reports whether `char` may be part of an operator cluster.
func IsOperatorChar(char rune) bool {
	switch char {
	case '+', '-', '*', '/', '%', '!', '=', '<', '>', '&', '|':
		return true
	default:
		return false
	}
}

// IsIdent reports whether `test` is a valid identifier (reserved words included).
func IsIdent(test string) bool {
	if len(test) == 0 {
		return false
	}

	for idx, char := range test {
		if idx == 0 && !IsLetter(char) {
			return false
		}
		if !IsDigit(char) && !IsLetter(char) {
			return false
		}
	}

	return true
}
