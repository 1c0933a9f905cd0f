// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlbuild

import (
	"regexp"
	"strings"
)

// QueryParts is the fixed-key parts record consumed by SelectQueryParts and
// produced (partially) by SplitGroupOrderLimit.
type QueryParts struct {
	Select  string `json:"SELECT" yaml:"SELECT"`
	From    string `json:"FROM" yaml:"FROM"`
	Where   string `json:"WHERE" yaml:"WHERE"`
	GroupBy string `json:"GROUPBY" yaml:"GROUPBY"`
	OrderBy string `json:"ORDERBY" yaml:"ORDERBY"`
	Limit   string `json:"LIMIT" yaml:"LIMIT"`
}

// The clause patterns are anchored at the end and must be applied in this
// order: LIMIT, ORDER BY, GROUP BY.
var (
	reLimit   = regexp.MustCompile(`(?i)^(.*)[[:space:]]+LIMIT[[:space:]]+([[:alnum:][:space:],._]+)$`)
	reOrderBy = regexp.MustCompile(`(?i)^(.*)[[:space:]]+ORDER[[:space:]]+BY[[:space:]]+([[:alnum:][:space:],._]+)$`)
	reGroupBy = regexp.MustCompile(`(?i)^(.*)[[:space:]]+GROUP[[:space:]]+BY[[:space:]]+([[:alnum:][:space:],._]+)$`)

	reOrderByPrefix = regexp.MustCompile(`(?i)^(?:ORDER[[:space:]]*BY[[:space:]]*)+`)
	reGroupByPrefix = regexp.MustCompile(`(?i)^(?:GROUP[[:space:]]*BY[[:space:]]*)+`)
)

// SplitGroupOrderLimit splits the tail of a statement, e.g.
// "uid=123 GROUP BY title ORDER BY title LIMIT 5,2", into its parts. Only
// Where, GroupBy, OrderBy and Limit are filled. Missing clauses stay empty.
func SplitGroupOrderLimit(s string) QueryParts {
	var p QueryParts
	// leading space so the first clause has whitespace before it
	s = " " + s
	if m := reLimit.FindStringSubmatch(s); m != nil {
		p.Limit = strings.TrimSpace(m[2])
		s = m[1]
	}
	if m := reOrderBy.FindStringSubmatch(s); m != nil {
		p.OrderBy = strings.TrimSpace(m[2])
		s = m[1]
	}
	if m := reGroupBy.FindStringSubmatch(s); m != nil {
		p.GroupBy = strings.TrimSpace(m[2])
		s = m[1]
	}
	p.Where = strings.TrimSpace(s)
	return p
}

// StripOrderBy removes any number of leading "ORDER BY" keywords.
func StripOrderBy(s string) string {
	return reOrderByPrefix.ReplaceAllString(strings.TrimSpace(s), "")
}

// StripGroupBy removes any number of leading "GROUP BY" keywords.
func StripGroupBy(s string) string {
	return reGroupByPrefix.ReplaceAllString(strings.TrimSpace(s), "")
}
