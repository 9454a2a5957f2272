package unit

import (
	"fmt"
	"regexp"

	"gopkg.in/ini.v1"
)

// Entry is a single directive inside a section. Repeated directives produce one entry each.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Section is a named group of directives as it appears in a unit file.
type Section struct {
	Name    string  `json:"name" yaml:"name"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Values returns every value given to key in this section, in file order.
func (s Section) Values(key string) []string {
	var values []string
	for _, e := range s.Entries {
		if e.Key == key {
			values = append(values, e.Value)
		}
	}
	return values
}

var loadOptions = ini.LoadOptions{
	AllowShadows:               true,
	AllowDuplicateShadowValues: true,
	AllowBooleanKeys:           true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=",
	SpaceBeforeInlineComment:   true,
}

// ini drops empty shadow values, so empty assignments are marked before loading.
var emptyAssignment = regexp.MustCompile(`(?m)^([ \t]*[A-Za-z0-9_.-]+[ \t]*=)[ \t]*$`)

const emptyValue = "\uE000"

// ParseSections reads unit file content into its sections for inspection.
// It is read-only: mkunit never rewrites files through this view.
func ParseSections(content []byte) ([]Section, error) {
	marked := emptyAssignment.ReplaceAll(content, []byte("${1}"+emptyValue))
	file, err := ini.LoadSources(loadOptions, marked)
	if err != nil {
		return nil, fmt.Errorf("parsing unit file: %w", err)
	}

	var sections []Section
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		s := Section{Name: sec.Name()}
		for _, key := range sec.Keys() {
			for _, v := range key.ValueWithShadows() {
				if v == emptyValue {
					v = ""
				}
				s.Entries = append(s.Entries, Entry{Key: key.Name(), Value: v})
			}
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// Lookup returns the values of key within the named section across all sections of that name.
func Lookup(sections []Section, section, key string) []string {
	var values []string
	for _, s := range sections {
		if s.Name == section {
			values = append(values, s.Values(key)...)
		}
	}
	return values
}
