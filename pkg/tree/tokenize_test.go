package tree

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bintree/pkg/errors"
)

func TestTokenizeBlank(t *testing.T) {
	for _, input := range []string{"", " ", "   ", "\t", "\n\t \r\n"} {
		values, err := Tokenize(input)
		if err != nil {
			t.Errorf("Tokenize(%q) error = %v, want nil", input, err)
		}
		if len(values) != 0 {
			t.Errorf("Tokenize(%q) = %v, want empty", input, values)
		}
	}
}

func TestTokenizeValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Value
	}{
		{"single", "5", []Value{IntValue(5)}},
		{"max int32", "2147483647", []Value{IntValue(2147483647)}},
		{"min int32", "-2147483648", []Value{IntValue(-2147483648)}},
		{"zero", "0", []Value{IntValue(0)}},
		{"negative zero", "-0", []Value{IntValue(0)}},
		{"leading zeros", "007", []Value{IntValue(7)}},
		{"upper null", "N", []Value{NullValue}},
		{"lower null", "n", []Value{NullValue}},
		{"mixed", "1 2 3 N 4", []Value{IntValue(1), IntValue(2), IntValue(3), NullValue, IntValue(4)}},
		{"whitespace runs", "  1 \t\t2\n\nn   -3 ", []Value{IntValue(1), IntValue(2), NullValue, IntValue(-3)}},
		{"byte order mark", "\ufeff1", []Value{IntValue(1)}},
		{"unicode separators", "1\u00a02\u20283\u3000N", []Value{IntValue(1), IntValue(2), IntValue(3), NullValue}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		input string
		code  errors.Code
	}{
		{"abc", errors.ErrCodeInvalidToken},
		{"1-2", errors.ErrCodeInvalidToken},
		{"--1", errors.ErrCodeInvalidToken},
		{"-", errors.ErrCodeInvalidToken},
		{"1.5", errors.ErrCodeInvalidToken},
		{"+1", errors.ErrCodeInvalidToken},
		{"0x10", errors.ErrCodeInvalidToken},
		{"1_000", errors.ErrCodeInvalidToken},
		{"1e3", errors.ErrCodeInvalidToken},
		{"nn", errors.ErrCodeInvalidToken},
		{"null", errors.ErrCodeInvalidToken},
		{"2147483648", errors.ErrCodeOutOfRange},
		{"-2147483649", errors.ErrCodeOutOfRange},
		{"99999999999999999999999", errors.ErrCodeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			values, err := Tokenize("1 " + tt.input + " 2")
			if err == nil {
				t.Fatalf("Tokenize(%q) = %v, want error", tt.input, values)
			}
			if values != nil {
				t.Errorf("Tokenize(%q) returned values alongside error", tt.input)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Tokenize(%q) code = %v, want %v", tt.input, errors.GetCode(err), tt.code)
			}
			if errors.UserTitle(err) != errors.TitleInvalidInput {
				t.Errorf("title = %q, want %q", errors.UserTitle(err), errors.TitleInvalidInput)
			}
			if !strings.Contains(err.Error(), "at position 1") {
				t.Errorf("error %q does not name the token position", err)
			}
		})
	}
}

func TestTokenizeNextLineIsNotSpace(t *testing.T) {
	_, err := Tokenize("1\u00852")
	if !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("Tokenize(%q) error = %v, want INVALID_TOKEN", "1\u00852", err)
	}
}

func TestTokenizeMessages(t *testing.T) {
	_, err := Tokenize("x")
	if got := errors.UserMessage(err); got != MessageInvalidToken {
		t.Errorf("invalid token message = %q, want %q", got, MessageInvalidToken)
	}

	_, err = Tokenize("2147483648")
	if got := errors.UserMessage(err); got != MessageOutOfRange {
		t.Errorf("out of range message = %q, want %q", got, MessageOutOfRange)
	}
}

func TestTokenizeStopsAtFirstError(t *testing.T) {
	_, err := Tokenize("1 abc 99999999999")
	if !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("want INVALID_TOKEN first, got %v", err)
	}

	_, err = Tokenize("99999999999 abc")
	if !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("want OUT_OF_RANGE first, got %v", err)
	}
}

func TestValueString(t *testing.T) {
	if got := NullValue.String(); got != "N" {
		t.Errorf("NullValue.String() = %q", got)
	}
	if got := IntValue(-42).String(); got != "-42" {
		t.Errorf("IntValue(-42).String() = %q", got)
	}
}
