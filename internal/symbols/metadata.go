package symbols

import (
	"strings"
	"unicode"
)

// stopWords are dropped from keywords. Besides common English words this
// covers C++ qualifiers and builtin types that appear in every signature.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true,
	"const": true, "unsigned": true, "signed": true, "int": true, "char": true,
	"void": true, "bool": true, "long": true, "short": true, "double": true,
	"float": true, "std": true, "string": true, "static": true, "virtual": true,
	"inline": true,
}

// SplitIdentifier splits a C++ identifier or qualified name into words.
// Example: "AirplaneEnums::EStatus" -> ["Airplane", "Enums", "E", "Status"]
func SplitIdentifier(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

// ParseParams returns the top-level parameter declarations of a signature.
// Example: "A::f(const B &b, std::map<int, int> m)" -> ["const B &b", "std::map<int, int> m"]
func ParseParams(signature string) []string {
	open := strings.IndexByte(signature, '(')
	end := strings.LastIndexByte(signature, ')')
	if open < 0 || end <= open {
		return nil
	}
	inner := signature[open+1 : end]

	var params []string
	depth, from := 0, 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				params = appendParam(params, inner[from:i])
				from = i + 1
			}
		}
	}
	return appendParam(params, inner[from:])
}

func appendParam(params []string, p string) []string {
	p = strings.TrimSpace(p)
	if p == "" || p == "void" {
		return params
	}
	return append(params, p)
}

// ExtractKeywords extracts key terms from a symbol's name, scope and
// parameters, in that order, without duplicates
func ExtractKeywords(name, scope string, params []string) []string {
	words := []string{strings.ToLower(name)}
	words = append(words, SplitIdentifier(name)...)
	words = append(words, SplitIdentifier(scope)...)
	for _, p := range params {
		words = append(words, SplitIdentifier(p)...)
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, MaxKeywords)
	for _, word := range words {
		word = strings.ToLower(word)
		word = strings.TrimFunc(word, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		if len(word) <= 2 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}
