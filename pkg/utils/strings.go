package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const (
	// XattrNamespace prefixes every attribute name the tool manages.
	XattrNamespace = "user."
	// PatternFiller pads the deterministic value after its size header.
	PatternFiller = 'x'

	patternPrefix = "size="
	// MinPatternSize is the shortest stored value whose size header can
	// still be parsed back.
	MinPatternSize = len(patternPrefix) + 1
)

var ErrNoPatternHeader = errors.New("value does not start with a size header")

// FileName returns the path of the i-th file under dir.
func FileName(dir string, i int) string {
	return fmt.Sprintf("%s/file-%d", dir, i)
}

// XattrName returns the name of the j-th attribute.
func XattrName(j int) string {
	return XattrNamespace + strconv.Itoa(j)
}

// PatternHeaderLen is the length of the "size=<n> " header for n.
func PatternHeaderLen(n int) int {
	return len(patternPrefix) + len(strconv.Itoa(n)) + 1
}

// FillPattern writes the "size=<n> " header into buf and pads the rest of
// buf with the filler byte. Only the first n bytes are meaningful. It
// returns the header length.
func FillPattern(buf []byte, n int) int {
	shift := copy(buf, patternPrefix+strconv.Itoa(n)+" ")
	for k := shift; k < len(buf); k++ {
		buf[k] = PatternFiller
	}
	return shift
}

// ParsePatternSize recovers n from a value starting with "size=<n>".
func ParsePatternSize(value []byte) (int, error) {
	if !bytes.HasPrefix(value, []byte(patternPrefix)) {
		return 0, ErrNoPatternHeader
	}
	digits := value[len(patternPrefix):]
	end := 0
	if end < len(digits) && (digits[end] == '-' || digits[end] == '+') {
		end++
	}
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(string(digits[:end]))
	if err != nil {
		return 0, ErrNoPatternHeader
	}
	return n, nil
}
