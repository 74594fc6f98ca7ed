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

package xmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;", Escape(`<a href="x">`))
	assert.Equal(t, "Marks &amp; Spencer", Escape("Marks & Spencer"))
	assert.Equal(t, "O&apos;Connell Street", Escape("O'Connell Street"))
	assert.Equal(t, "plain text", Escape("plain text"))
}

func TestEscapeNumericReferencePassthrough(t *testing.T) {
	// an ampersand starting a numeric character reference is not
	// double-escaped
	assert.Equal(t, "caf&#233;", Escape("caf&#233;"))
	assert.Equal(t, "a &amp; b &#38; c", Escape("a & b &#38; c"))
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, `<a href="x">`, Unescape("&lt;a href=&quot;x&quot;&gt;"))
	assert.Equal(t, "Marks & Spencer", Unescape("Marks &amp; Spencer"))
	assert.Equal(t, "O'Connell Street", Unescape("O&apos;Connell Street"))
	assert.Equal(t, "plain text", Unescape("plain text"))
}

func TestUnescapeLenient(t *testing.T) {
	// unrecognized escapes keep their literal ampersand, character by
	// character
	assert.Equal(t, "&foo;", Unescape("&foo;"))
	assert.Equal(t, "fish & chips", Unescape("fish & chips"))
	assert.Equal(t, "&", Unescape("&"))
	assert.Equal(t, "&amp", Unescape("&amp"))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{
		"",
		"plain",
		`<<>>&"'`,
		"O'Connell & Sons <Ltd> \"est. 1900\"",
		"&amp; already escaped once",
		"unicode: grüße, 駅",
	} {
		assert.Equal(t, s, Unescape(Escape(s)), "round trip of %q", s)
	}
}

func TestEscapeLeavesNoRawReservedChars(t *testing.T) {
	out := Escape("a<b>c&d\"e'f")

	stripped := out
	for _, e := range []string{"&lt;", "&gt;", "&amp;", "&quot;", "&apos;"} {
		stripped = strings.ReplaceAll(stripped, e, "")
	}

	assert.False(t, strings.ContainsAny(stripped, `<>&"'`), "raw reserved char in %q", out)
}
