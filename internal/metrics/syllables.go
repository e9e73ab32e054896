package metrics

import (
	"strings"
	"unicode"
)

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

// CountSyllables estimates syllables by counting vowel-group onsets.
//
// Words ending in "es" count as one syllable. Words ending in "ed" also count
// as one unless they appear in exclude (compared lower-case); the exclusion
// never applies to "es". Suffix checks are case-sensitive on the raw token.
func CountSyllables(word string, exclude map[string]struct{}) int {
	if strings.HasSuffix(word, "es") {
		return 1
	}
	if strings.HasSuffix(word, "ed") {
		if _, skip := exclude[strings.ToLower(word)]; !skip {
			return 1
		}
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	return count
}

// CountSyllablesAlt is a dictionary-free English syllable estimate. It treats
// 'y' as a vowel, drops silent trailing e/es/ed, and returns at least 1 for
// any token containing a letter.
func CountSyllablesAlt(word string) int {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	w := []rune(b.String())
	n := len(w)
	if n == 0 {
		return 0
	}

	vowel := func(r rune) bool { return r == 'y' || isVowel(r) }

	count := 0
	prevVowel := false
	for _, r := range w {
		v := vowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	switch {
	case n >= 3 && w[n-1] == 'e' && w[n-2] == 'l' && !vowel(w[n-3]):
		// "table", "simple": the final "le" is voiced.
	case n >= 2 && w[n-1] == 'e' && !vowel(w[n-2]):
		count--
	case n >= 3 && w[n-2] == 'e' && w[n-1] == 'd' && w[n-3] != 't' && w[n-3] != 'd' && !vowel(w[n-3]):
		count--
	case n >= 3 && w[n-2] == 'e' && w[n-1] == 's' && !sibilant(w[:n-2]):
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// sibilant reports whether the stem ends in a sound that voices a following "es".
func sibilant(stem []rune) bool {
	n := len(stem)
	if n == 0 {
		return false
	}
	switch stem[n-1] {
	case 's', 'x', 'z', 'c', 'g':
		return true
	case 'h':
		return n >= 2 && (stem[n-2] == 'c' || stem[n-2] == 's')
	}
	return false
}
