package envedit

import "strings"

const (
	// PathVariable is the persisted list variable edited by the path operations.
	PathVariable = "Path"
	// ProcessPathVariable is the list variable in the live process environment.
	ProcessPathVariable = "PATH"
	// PathDelimiter separates tokens in a path list.
	PathDelimiter = ';'
)

// IndexToken returns the position of the first boundary-delimited occurrence
// of token in value at or after from, or -1. An occurrence counts only when
// it is preceded by the start of value or a delimiter and followed by the end
// of value or a delimiter, so "C:\Foo" never matches inside "C:\FooBar".
func IndexToken(value, token string, from int) int {
	if token == "" || from < 0 {
		return -1
	}
	for from <= len(value) {
		rel := strings.Index(value[from:], token)
		if rel < 0 {
			return -1
		}
		pos := from + rel
		if tokenBounded(value, pos, len(token)) {
			return pos
		}
		from = pos + 1
	}
	return -1
}

func tokenBounded(value string, pos, length int) bool {
	end := pos + length
	before := pos == 0 || value[pos-1] == PathDelimiter
	after := end == len(value) || value[end] == PathDelimiter
	return before && after
}

// ContainsToken reports whether token appears in value as a whole list entry.
func ContainsToken(value, token string) bool {
	return IndexToken(value, token, 0) >= 0
}

// AppendToken returns value with token appended, inserting a delimiter unless
// value is empty. It does not check for duplicates.
func AppendToken(value, token string) string {
	if value == "" {
		return token
	}
	return value + string(PathDelimiter) + token
}

// RemoveToken deletes every boundary-delimited occurrence of token together
// with one adjacent delimiter: the following one when the match starts the
// list, the preceding one otherwise. It returns the new value and the number
// of occurrences removed.
func RemoveToken(value, token string) (string, int) {
	if token == "" {
		return value, 0
	}
	count := 0
	length := len(token)
	pos := IndexToken(value, token, 0)
	for pos >= 0 {
		count++
		switch {
		case pos > 0:
			value = value[:pos-1] + value[pos+length:]
		case length == len(value):
			value = ""
		default:
			value = value[length+1:]
		}
		if pos > len(value) {
			break
		}
		pos = IndexToken(value, token, pos)
	}
	return value, count
}

// SplitTokens returns the entries of a path list in order. An empty value
// has no entries.
func SplitTokens(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, string(PathDelimiter))
}

// JoinTokens is the inverse of SplitTokens.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, string(PathDelimiter))
}
