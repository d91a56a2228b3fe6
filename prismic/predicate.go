package prismic

import (
	"strconv"
	"strings"
)

// Predicate is a single query filter understood by the Prismic search API.
type Predicate struct {
	Name   string   // "at", "not", "any"
	Path   string   // e.g. "document.type"
	Values []string // one value for at/not, several for any
}

// At matches documents whose path equals value.
func At(path, value string) Predicate {
	return Predicate{Name: "at", Path: path, Values: []string{value}}
}

// Not matches documents whose path differs from value.
func Not(path, value string) Predicate {
	return Predicate{Name: "not", Path: path, Values: []string{value}}
}

// Any matches documents whose path equals one of values.
func Any(path string, values ...string) Predicate {
	return Predicate{Name: "any", Path: path, Values: values}
}

// String renders the predicate in Prismic syntax, e.g. [at(document.type, "posts")].
func (p Predicate) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(p.Name)
	b.WriteByte('(')
	b.WriteString(p.Path)
	b.WriteString(", ")
	if p.Name == "any" {
		b.WriteByte('[')
		for i, v := range p.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(v))
		}
		b.WriteByte(']')
	} else if len(p.Values) > 0 {
		b.WriteString(strconv.Quote(p.Values[0]))
	}
	b.WriteString(")]")
	return b.String()
}

// encodeQuery combines predicates into the q parameter: [[at(...)][not(...)]].
func encodeQuery(predicates []Predicate) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, p := range predicates {
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}
