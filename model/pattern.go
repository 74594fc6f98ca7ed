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

package model

// Wildcard matches any key or any value when used as the corresponding
// side of a TagPattern.
const Wildcard = "*"

// TagPattern selects entities by one of their tags.  Either side may be
// the Wildcard; a pattern that is wildcard on both sides matches any
// entity carrying at least one tag.
type TagPattern struct {
	Key   string
	Value string
}

// MatchesTag reports whether the single tag satisfies the pattern.
func (p TagPattern) MatchesTag(t Tag) bool {
	switch {
	case p.Key == Wildcard && p.Value == Wildcard:
		return true
	case p.Key == Wildcard:
		return p.Value == t.Value
	case p.Value == Wildcard:
		return p.Key == t.Key
	default:
		return p.Key == t.Key && p.Value == t.Value
	}
}

// AnyMatch reports whether any of the tags satisfies any of the patterns.
func AnyMatch(tags []Tag, patterns []TagPattern) bool {
	for _, t := range tags {
		for _, p := range patterns {
			if p.MatchesTag(t) {
				return true
			}
		}
	}

	return false
}
