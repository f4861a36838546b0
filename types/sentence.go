package types

// Sentence is a raw text sentence on its way through the pipeline.
type Sentence struct {
	Index  int
	Text   string
	Words  []string
	Tokens []Token
	Tagged []LabeledToken
	Tree   Tree
	// Err holds the first stage failure, later stages pass the sentence through untouched.
	Err error
}
