// Copyright 2025 Sefirot Labs
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


package openai

// repairJSON attempts to fix common JSON formatting issues from LLM responses.
// It specifically handles missing quotes around keys in JSON objects.
// Example: `{entities: []}` -> `{"entities": []}`
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		out = append(out, ch)
		i++

		if ch != '{' && ch != ',' {
			continue
		}

		// Skip whitespace after { or ,
		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out = append(out, in[i])
			i++
		}

		// An unquoted key starts with a letter where a quote belongs
		if i < len(in) && in[i] != '"' && isLetter(in[i]) {
			keyStart := i
			for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
				i++
			}
			// Only treat it as a key if a colon follows
			j := i
			for j < len(in) && (in[j] == ' ' || in[j] == '\n' || in[j] == '\t') {
				j++
			}
			if j < len(in) && in[j] == ':' {
				out = append(out, '"')
				out = append(out, in[keyStart:i]...)
				out = append(out, '"')
			} else {
				out = append(out, in[keyStart:i]...)
			}
		}
	}

	return string(out)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
