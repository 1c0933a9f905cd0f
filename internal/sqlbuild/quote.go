// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlbuild

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Quoter escapes a string for inclusion between single quotes.
// It never adds the surrounding quotes itself.
type Quoter interface {
	Quote(s string) string
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(s string) string

func (f QuoterFunc) Quote(s string) string { return f(s) }

// MySQLQuoter escapes like mysql_real_escape_string.
var MySQLQuoter Quoter = QuoterFunc(func(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\x1a':
			b.WriteString(`\Z`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
})

// PostgresQuoter escapes for standard_conforming_strings=on.
var PostgresQuoter Quoter = QuoterFunc(func(s string) string {
	return strings.ReplaceAll(s, "'", "''")
})

// Field is a single column/value pair.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered list of column/value pairs. The order is the column order
// of the generated statement.
type Row []Field

// RowFromMap builds a Row from a map with columns in lexical order.
func RowFromMap(m map[string]any) Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	row := make(Row, 0, len(keys))
	for _, k := range keys {
		row = append(row, Field{Column: k, Value: m[k]})
	}
	return row
}

// Columns returns the column names in order.
func (r Row) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// NoQuote lists columns whose values are SQL expressions and must be
// emitted verbatim.
type NoQuote []string

// ParseNoQuote accepts the legacy comma separated form ("crdate,tstamp").
func ParseNoQuote(list string) NoQuote {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return NoQuote(strings.Split(list, ","))
}

func (n NoQuote) has(col string) bool {
	for _, c := range n {
		if c == col {
			return true
		}
	}
	return false
}

// Stringify converts a value to the string the legacy API would have seen.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// QuoteStr escapes without adding quotes.
func (b *Builder) QuoteStr(s string) string {
	return b.quoter.Quote(s)
}

// FullQuoteStr escapes and wraps v in single quotes. A nil value becomes NULL
// when allowNull is set.
func (b *Builder) FullQuoteStr(v any, allowNull bool) string {
	if allowNull && v == nil {
		return "NULL"
	}
	return "'" + b.quoter.Quote(Stringify(v)) + "'"
}

// FullQuoteRow quotes every value of row except the columns listed in noQuote.
func (b *Builder) FullQuoteRow(row Row, noQuote NoQuote, allowNull bool) []string {
	out := make([]string, len(row))
	for i, f := range row {
		if noQuote.has(f.Column) {
			out[i] = Stringify(f.Value)
			continue
		}
		out[i] = b.FullQuoteStr(f.Value, allowNull)
	}
	return out
}

// EscapeStrForLike backslash-escapes the LIKE wildcards % and _.
func EscapeStrForLike(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '%' || r == '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CleanIntArray casts every value to an integer. Unparsable values become 0.
func CleanIntArray(values []string) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = intval(v)
	}
	return out
}

// CleanIntList forces every entry of a comma list to an integer.
func CleanIntList(list string) string {
	parts := strings.Split(list, ",")
	ints := CleanIntArray(parts)
	strs := make([]string, len(ints))
	for i, n := range ints {
		strs[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(strs, ",")
}

// intval reads the leading integer of s the way PHP's intval does.
func intval(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// DateTimeFormat describes the empty value and layout of a date column type.
type DateTimeFormat struct {
	Empty  string
	Layout string
}

// DateTimeFormats returns the formats compatible with the database.
func DateTimeFormats() map[string]DateTimeFormat {
	return map[string]DateTimeFormat{
		"date":     {Empty: "0000-00-00", Layout: "2006-01-02"},
		"datetime": {Empty: "0000-00-00 00:00:00", Layout: "2006-01-02 15:04:05"},
	}
}
