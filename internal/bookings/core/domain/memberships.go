package domain

import (
	"encoding/json"
	"strings"
)

type MembershipsKind int

const (
	MembershipsAbsent MembershipsKind = iota
	MembershipsStructured
	MembershipsText
	MembershipsUnsupported
)

// Memberships is the attendee/host field of a scheduled event. Webhook JSON
// carries it as a list of objects; flat-file snapshots carry the same list
// as text, sometimes with single-quoted keys and values.
type Memberships struct {
	Kind  MembershipsKind
	Items []any
	Text  string
}

// MembershipsFromValue tags a raw field value.
func MembershipsFromValue(v any) Memberships {
	switch t := v.(type) {
	case nil:
		return Memberships{Kind: MembershipsAbsent}
	case []any:
		return Memberships{Kind: MembershipsStructured, Items: t}
	case []map[string]any:
		items := make([]any, len(t))
		for i := range t {
			items[i] = t[i]
		}
		return Memberships{Kind: MembershipsStructured, Items: items}
	case string:
		if strings.TrimSpace(t) == "" {
			return Memberships{Kind: MembershipsAbsent}
		}
		return Memberships{Kind: MembershipsText, Text: t}
	default:
		return Memberships{Kind: MembershipsUnsupported}
	}
}

// UserNames returns the user_name of every membership that has one.
// Entries without a string user_name are skipped. Text that cannot be read
// as a list yields an empty result; it never fails.
func (m Memberships) UserNames() []string {
	switch m.Kind {
	case MembershipsStructured:
		return userNames(m.Items)
	case MembershipsText:
		items, ok := parseRelaxedList(m.Text)
		if !ok {
			return []string{}
		}
		return userNames(items)
	default:
		return []string{}
	}
}

func userNames(items []any) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["user_name"].(string)
		if !ok {
			continue
		}
		names = append(names, name)
	}
	return names
}

// parseRelaxedList reads strict JSON first, then retries with
// single-quoted strings and None/True/False literals rewritten to JSON.
func parseRelaxedList(s string) ([]any, bool) {
	var out []any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, true
	}

	relaxed, ok := relaxQuotes(s)
	if !ok {
		return nil, false
	}
	out = nil
	if err := json.Unmarshal([]byte(relaxed), &out); err != nil {
		return nil, false
	}
	return out, true
}

func relaxQuotes(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			lit, next, ok := scanQuoted(s, i)
			if !ok {
				return "", false
			}
			enc, err := json.Marshal(lit)
			if err != nil {
				return "", false
			}
			b.Write(enc)
			i = next
		case isIdentByte(c):
			j := i
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			switch word := s[i:j]; word {
			case "None":
				b.WriteString("null")
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), true
}

// scanQuoted decodes the quoted literal starting at s[start] and returns the
// index just past its closing quote.
func scanQuoted(s string, start int) (string, int, bool) {
	quote := s[start]
	var lit strings.Builder

	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return "", 0, false
			}
			i++
			switch e := s[i]; e {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case 'r':
				lit.WriteByte('\r')
			case '\\', '\'', '"':
				lit.WriteByte(e)
			default:
				lit.WriteByte('\\')
				lit.WriteByte(e)
			}
		case c == quote:
			return lit.String(), i + 1, true
		default:
			lit.WriteByte(c)
		}
	}
	return "", 0, false
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
