package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/bintree/pkg/errors"
)

// Value is a parsed token: a 32-bit integer or a null marker.
type Value struct {
	Int  int32
	Null bool
}

// NullValue is the parsed form of an `N`/`n` token.
var NullValue = Value{Null: true}

// IntValue returns the non-null Value holding v.
func IntValue(v int32) Value {
	return Value{Int: v}
}

// String returns the token form of v.
func (v Value) String() string {
	if v.Null {
		return "N"
	}
	return strconv.FormatInt(int64(v.Int), 10)
}

// Messages shown to the user for each validation failure.
const (
	MessageInvalidToken = "Only integer values and 'N'/'n' (Null) are supported"
	MessageOutOfRange   = "Only 32-bit signed integers are supported"
)

// integerLiteral matches a base-10 integer with at most one leading minus.
var integerLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// Tokenize splits text on whitespace and classifies each token.
//
// Blank input yields an empty slice and no error. The first token that is
// neither a null marker nor a well-formed integer fails with
// INVALID_TOKEN; a well-formed integer outside the int32 range fails with
// OUT_OF_RANGE. The returned error's cause names the token and its
// position.
func Tokenize(text string) ([]Value, error) {
	fields := strings.FieldsFunc(text, isSpace)
	values := make([]Value, len(fields))

	for i, tok := range fields {
		v, err := parseToken(tok)
		if err != nil {
			return nil, err.WithCause(fmt.Errorf("token %q at position %d", tok, i))
		}
		values[i] = v
	}
	return values, nil
}

// isSpace reports whether r separates tokens: the ECMAScript WhiteSpace and
// LineTerminator sets. Unlike unicode.IsSpace this includes U+FEFF and
// excludes U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func parseToken(tok string) (Value, *errors.Error) {
	if strings.EqualFold(tok, "n") {
		return NullValue, nil
	}
	if !integerLiteral.MatchString(tok) {
		return Value{}, errors.Validation(errors.ErrCodeInvalidToken, errors.TitleInvalidInput, MessageInvalidToken)
	}
	n, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		// The literal is well formed, so the only possible failure is range.
		return Value{}, errors.Validation(errors.ErrCodeOutOfRange, errors.TitleInvalidInput, MessageOutOfRange)
	}
	return IntValue(int32(n)), nil
}
