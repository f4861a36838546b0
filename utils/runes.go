package utils

func StringsToRunes(strs ...string) [][]rune {
	result := make([][]rune, len(strs))
	for i, s := range strs {
		result[i] = []rune(s)
	}
	return result
}

func IndexOfRune(runes []rune, c rune, fromIndex int) int {
	for i := fromIndex; i < len(runes); i++ {
		if runes[i] == c {
			return i
		}
	}
	return -1
}

func RunesEndWith(runes []rune, s string) bool {
	suffix := []rune(s)
	if len(runes) < len(suffix) {
		return false
	}

	offset := len(runes) - len(suffix)
	for i, c := range suffix {
		if runes[offset+i] != c {
			return false
		}
	}
	return true
}
