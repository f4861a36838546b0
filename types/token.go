package types

import (
	"strings"
	"unicode"
)

// OutsideTag marks a token outside any entity, both in raw corpus types and in IOB tags.
const OutsideTag = "O"

type Token struct {
	Word string `json:"word"`
	Pos  string `json:"pos"`
}

type LabeledToken struct {
	Word string `json:"word"`
	Pos  string `json:"pos"`
	Tag  string `json:"tag"`
}

// RawToken is a corpus token whose Type is either OutsideTag or a bare entity type.
type RawToken struct {
	Word string
	Pos  string
	Type string
}

func (token LabeledToken) Token() Token {
	return Token{Word: token.Word, Pos: token.Pos}
}

func (token LabeledToken) String() string {
	return token.Word + "/" + token.Pos
}

func (token Token) GetShape() string {
	return GetShape(token.Word)
}

func Tokens(labeled []LabeledToken) []Token {
	tokens := make([]Token, len(labeled))
	for i, t := range labeled {
		tokens[i] = t.Token()
	}
	return tokens
}

func RawTokens(raw []RawToken) []Token {
	tokens := make([]Token, len(raw))
	for i, t := range raw {
		tokens[i] = Token{Word: t.Word, Pos: t.Pos}
	}
	return tokens
}

func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}
