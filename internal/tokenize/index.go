package tokenize

import "unicode/utf8"

// Index translates offsets produced by byte-oriented regex engines and by
// UTF-16 based services into code-point offsets over the same text.
type Index struct {
	byteToRune  []int
	utf16ToRune []int
	runes       int
}

func NewIndex(text string) *Index {
	idx := &Index{
		byteToRune:  make([]int, len(text)+1),
		utf16ToRune: make([]int, 0, len(text)+1),
	}
	pos := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		for b := 0; b < size; b++ {
			idx.byteToRune[i+b] = pos
		}
		i += size
		idx.utf16ToRune = append(idx.utf16ToRune, pos)
		if r >= 0x10000 {
			idx.utf16ToRune = append(idx.utf16ToRune, pos)
		}
		pos++
	}
	idx.byteToRune[len(text)] = pos
	idx.utf16ToRune = append(idx.utf16ToRune, pos)
	idx.runes = pos
	return idx
}

// Rune converts a byte offset to a code-point offset. Offsets inside a
// multi-byte rune resolve to that rune.
func (idx *Index) Rune(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(idx.byteToRune) {
		return idx.runes
	}
	return idx.byteToRune[byteOffset]
}

// FromUTF16 converts a UTF-16 code unit offset to a code-point offset.
func (idx *Index) FromUTF16(unitOffset int) int {
	if unitOffset <= 0 {
		return 0
	}
	if unitOffset >= len(idx.utf16ToRune) {
		return idx.runes
	}
	return idx.utf16ToRune[unitOffset]
}

// Len is the number of code points in the indexed text.
func (idx *Index) Len() int {
	return idx.runes
}
