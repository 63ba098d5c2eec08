package schema

import (
	"regexp"
	"strings"
)

// FieldTypes lists the field types accepted in a schema, in grammar order.
var FieldTypes = []string{"bool", "string", "uint256", "address"}

const (
	fieldSeparator = ", "
	typeSeparator  = " "
)

var (
	typeAlternation = "(?:" + strings.Join(FieldTypes, "|") + ")"
	schemaPattern   = regexp.MustCompile(`^` + typeAlternation + ` \w+(?:, ` + typeAlternation + ` \w+)*$`)

	uidPattern         = regexp.MustCompile(`0x([0-9a-fA-F]{64})`)
	anchoredUIDPattern = regexp.MustCompile(`^0x([0-9a-fA-F]{64})$`)
)

// ValidateSchema reports whether s is a well formed schema string.
// Types are case sensitive and fields are separated by exactly ", ".
func ValidateSchema(s string) bool {
	return schemaPattern.MatchString(s)
}

// ValidateUID reports whether the whole of s is a 0x-prefixed, 64 hex digit,
// non-zero UID.
func ValidateUID(s string) bool {
	m := anchoredUIDPattern.FindStringSubmatch(s)
	return m != nil && !allZeros(m[1])
}

// ContainsUID reports whether s contains a non-zero 0x-prefixed 64 hex digit
// run anywhere in it. This is the lenient check older clients relied on;
// request validation uses ValidateUID.
func ContainsUID(s string) bool {
	for _, m := range uidPattern.FindAllStringSubmatch(s, -1) {
		if !allZeros(m[1]) {
			return true
		}
	}
	return false
}

func allZeros(digits string) bool {
	return strings.Trim(digits, "0") == ""
}
