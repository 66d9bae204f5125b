package parser

import "strings"

const fence = "```"

// ExtractCandidate finds the object-shaped text in a reply. Layers are tried
// in order and the first hit wins:
//
//  1. the body of the first json-tagged fence
//  2. the first fence whose trimmed body is {...}
//  3. the first balanced {...} found by depth counting from the first "{"
//  4. the whole trimmed reply when it is {...}
//
// The depth count in layer 3 does not skip braces inside string literals.
func ExtractCandidate(raw string) (string, bool) {
	if c, ok := jsonFence(raw); ok {
		return c, true
	}
	if c, ok := objectFence(raw); ok {
		return c, true
	}
	if c, ok := balancedBraces(raw); ok {
		return c, true
	}
	if trimmed := strings.TrimSpace(raw); isObjectShaped(trimmed) {
		return trimmed, true
	}
	return "", false
}

func jsonFence(raw string) (string, bool) {
	open := strings.Index(raw, fence+"json")
	if open < 0 {
		return "", false
	}
	start := open + len(fence) + len("json")
	end := strings.Index(raw[start:], fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(raw[start : start+end]), true
}

// objectFence walks fence pairs in order. A leading info string such as a
// language tag is dropped from the body before checking its shape.
func objectFence(raw string) (string, bool) {
	parts := strings.Split(raw, fence)
	// parts alternate outside, inside, outside...; a trailing unmatched
	// fence leaves the last inside part without a closer
	for i := 1; i+1 < len(parts); i += 2 {
		body := strings.TrimSpace(parts[i])
		if isObjectShaped(body) {
			return body, true
		}
		if nl := strings.IndexByte(body, '\n'); nl > 0 && !strings.ContainsAny(body[:nl], "{}") {
			if rest := strings.TrimSpace(body[nl+1:]); isObjectShaped(rest) {
				return rest, true
			}
		}
	}
	return "", false
}

func balancedBraces(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

func isObjectShaped(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}
