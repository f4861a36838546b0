package features

const (
	WORD  = "word"
	LEMMA = "lemma"
	POS   = "pos"

	ALL_ASCII = "all-ascii"

	NEXT_WORD  = "next-word"
	NEXT_LEMMA = "next-lemma"
	NEXT_POS   = "next-pos"

	NEXT_NEXT_WORD = "next-next-word"
	NEXT_NEXT_POS  = "next-next-pos"

	PREV_WORD  = "prev-word"
	PREV_LEMMA = "prev-lemma"
	PREV_POS   = "prev-pos"

	PREV_PREV_WORD = "prev-prev-word"
	PREV_PREV_POS  = "prev-prev-pos"

	PREV_IOB = "prev-iob"

	CONTAINS_DASH = "contains-dash"
	CONTAINS_DOT  = "contains-dot"

	ALL_CAPS    = "all-caps"
	CAPITALIZED = "capitalized"

	PREV_ALL_CAPS    = "prev-all-caps"
	PREV_CAPITALIZED = "prev-capitalized"

	NEXT_ALL_CAPS    = "next-all-caps"
	NEXT_CAPITALIZED = "next-capitalized"
)

// sentinels padding the sentence and the tag history
const (
	START2 = "[START2]"
	START1 = "[START1]"
	END1   = "[END1]"
	END2   = "[END2]"
)

// Schema lists every feature key in extraction order.
var Schema = [...]string{
	WORD, LEMMA, POS, ALL_ASCII,
	NEXT_WORD, NEXT_LEMMA, NEXT_POS,
	NEXT_NEXT_WORD, NEXT_NEXT_POS,
	PREV_WORD, PREV_LEMMA, PREV_POS,
	PREV_PREV_WORD, PREV_PREV_POS,
	PREV_IOB,
	CONTAINS_DASH, CONTAINS_DOT,
	ALL_CAPS, CAPITALIZED,
	PREV_ALL_CAPS, PREV_CAPITALIZED,
	NEXT_ALL_CAPS, NEXT_CAPITALIZED,
}
