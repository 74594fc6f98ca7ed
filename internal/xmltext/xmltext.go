// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xmltext escapes and unescapes the five reserved XML characters
// in attribute text.  It deliberately implements only the narrow entity
// vocabulary used by OSM XML, not general SGML correctness.
package xmltext

import "strings"

// Escape replaces ' " < > & with their named entities.  A literal & that
// is immediately followed by # is passed through untouched so that numeric
// character references already present in source text are not
// double-escaped.
func Escape(s string) string {
	if !strings.ContainsAny(s, `'"<>&`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			if i+1 < len(s) && s[i+1] == '#' {
				b.WriteByte(c)
			} else {
				b.WriteString("&amp;")
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// entities maps the recognized escape sequences, sans leading ampersand,
// to their decoded characters.
var entities = [...]struct {
	name string
	ch   byte
}{
	{"amp;", '&'},
	{"apos;", '\''},
	{"quot;", '"'},
	{"gt;", '>'},
	{"lt;", '<'},
}

// Unescape decodes the five recognized named entities.  An unrecognized
// escape sequence keeps its literal & and the following characters are
// passed through one by one, so "&foo;" survives unchanged.  Lenient, but
// never corrupts unrelated text.
func Unescape(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:amp])

	for i := amp; i < len(s); i++ {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)

			continue
		}

		matched := false

		for _, e := range entities {
			if strings.HasPrefix(s[i+1:], e.name) {
				b.WriteByte(e.ch)
				i += len(e.name)
				matched = true

				break
			}
		}

		if !matched {
			b.WriteByte('&')
		}
	}

	return b.String()
}
