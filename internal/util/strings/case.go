// Package strings holds the JVM naming conventions shared by the code that
// builds reflection trees and the code that matches them.
package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Decapitalize lower-cases the first rune of s.
func Decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// GetterName returns the accessor a property compiles to: "isX" properties
// keep their name, everything else gets a "get" prefix.
func GetterName(property string) string {
	if hasUpperAfter(property, "is") {
		return property
	}
	return "get" + Capitalize(property)
}

// SetterName returns the setter a mutable property compiles to. "isX"
// properties drop the "is": isOpen becomes setOpen.
func SetterName(property string) string {
	if hasUpperAfter(property, "is") {
		return "set" + property[len("is"):]
	}
	return "set" + Capitalize(property)
}

// AccessorProperties maps an accessor name back onto the property names it
// may belong to, most likely first: "getName" gives "name", "setOpen" gives
// "open" and "isOpen", "isEmpty" gives itself. Names that do not follow an
// accessor pattern give nil.
func AccessorProperties(name string) []string {
	switch {
	case hasUpperAfter(name, "get"):
		return []string{Decapitalize(name[len("get"):])}
	case hasUpperAfter(name, "set"):
		rest := name[len("set"):]
		return []string{Decapitalize(rest), "is" + rest}
	case hasUpperAfter(name, "is"):
		return []string{name}
	}
	return nil
}

func hasUpperAfter(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}
