// Package repair transforms raw oracle text into parseable JSON. The
// generation backend is an untrusted text generator: responses arrive
// wrapped in prose or markdown fences, with trailing commas, single quotes,
// stray control characters, or cut off mid-structure when the output budget
// runs out. Each rule here is a pure string -> string function, idempotent
// and safe to apply to text that already satisfies it; Repair applies them
// in a fixed order because later rules assume earlier ones already ran.
//
// Repair is best-effort. Text that never contained a JSON object passes
// through mostly unchanged and fails at the caller's parse step, which is
// the correct signal for a genuinely unusable response.
package repair

import "strings"

// Repair applies every rule in order and returns the repaired text.
func Repair(text string) string {
	text = strings.TrimSpace(text)
	text = StripMarkdownFences(text)
	text = SliceToBraces(text)
	text = CloseTruncated(text)
	text = StripTrailingCommas(text)
	text = NormalizeQuotes(text)
	text = StripControlChars(text)
	return text
}

// StripMarkdownFences removes ```json and ``` code-fence markers.
func StripMarkdownFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// SliceToBraces cuts the text to the span between the first '{' and the
// last '}', discarding leading and trailing prose. When no such pair
// exists the text is returned unchanged so the parse failure downstream
// carries the original content.
func SliceToBraces(text string) string {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || last < first {
		return text
	}
	return text[first : last+1]
}

// CloseTruncated recovers structures cut off mid-generation. If the text
// does not end with '}', it is truncated to the last complete '}' and any
// dangling comma before the cut is dropped. Unmatched '[' and '{' are then
// closed in innermost-outward order: every open array first, then every
// open object. A balanced text passes through untouched, so the rule is
// idempotent. Text with no '}' at all is left alone; there is nothing to
// recover.
func CloseTruncated(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return text
	}

	if !strings.HasSuffix(trimmed, "}") {
		last := strings.LastIndex(trimmed, "}")
		if last == -1 {
			return text
		}
		trimmed = trimmed[:last+1]
	}

	openBraces := strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
	openBrackets := strings.Count(trimmed, "[") - strings.Count(trimmed, "]")
	if openBraces <= 0 && openBrackets <= 0 {
		return trimmed
	}

	var b strings.Builder
	b.WriteString(trimmed)
	for i := 0; i < openBrackets; i++ {
		b.WriteByte(']')
	}
	for i := 0; i < openBraces; i++ {
		b.WriteByte('}')
	}
	return b.String()
}

// StripTrailingCommas removes commas that directly precede a closing
// bracket or brace, optionally separated by whitespace.
func StripTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] == ',' {
			// Look past whitespace for a closer.
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue // drop the comma, keep the whitespace and closer
			}
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// NormalizeQuotes replaces single quotes with double quotes. This is a
// blind substitution: a legitimate apostrophe inside a task or person name
// would be corrupted. Current catalog data never contains one, but the
// fragility is real; a JSON-aware escape pass would be the structural fix.
func NormalizeQuotes(text string) string {
	return strings.ReplaceAll(text, "'", "\"")
}

// StripControlChars removes raw control characters (0x00-0x1F and 0x7F)
// that appear from encoding glitches. Newlines and tabs between tokens are
// plain JSON whitespace, so dropping them never changes the parsed value.
func StripControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, text)
}
