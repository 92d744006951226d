package parser

import "strings"

// Tokenize lowercases input and splits it on whitespace. Punctuation stays
// attached to its word.
func Tokenize(input string) []string {
	return strings.Fields(strings.ToLower(input))
}

func isArticle(w string) bool {
	return w == "the" || w == "a" || w == "an"
}

func isAllWord(w string) bool {
	return w == "all" || w == "everything"
}

func isExceptWord(w string) bool {
	return w == "except" || w == "but"
}

func isAgain(words []string) bool {
	return len(words) > 0 && (words[0] == "again" || words[0] == "g")
}

func isOops(words []string) bool {
	return len(words) > 0 && words[0] == "oops"
}
