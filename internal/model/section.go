package model

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Section identifies one of the fixed record collections shown by the dashboard.
type Section string

const (
	SectionStudents  Section = "students"
	SectionCourses   Section = "courses"
	SectionFaculty   Section = "faculty"
	SectionLibrary   Section = "library"
	SectionAdmin     Section = "admin"
	SectionInventory Section = "inventory"
)

var allSections = []Section{
	SectionStudents,
	SectionCourses,
	SectionFaculty,
	SectionLibrary,
	SectionAdmin,
	SectionInventory,
}

// AllSections returns the six sections in navigation order.
func AllSections() []Section {
	return append([]Section(nil), allSections...)
}

// ParseSection maps a key to a known Section.
func ParseSection(key string) (Section, error) {
	s := Section(key)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, key)
	}
	return s, nil
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	for _, known := range allSections {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the capitalized key used for sidebar and tab entries.
func (s Section) Label() string {
	return Capitalize(string(s))
}

// Singular strips the trailing character of the key ("library" -> "librar").
// The naive rule is what the dialog title has always shown.
func (s Section) Singular() string {
	key := string(s)
	if key == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(key)
	return key[:len(key)-size]
}

func (s Section) String() string { return string(s) }

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	// Casers keep state between calls, so build one per use.
	return cases.Upper(language.Und).String(string(first)) + s[size:]
}
