// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package contentobject

import (
	"regexp"
	"sort"
	"strings"
)

// Subpart markers usually sit inside HTML comments:
//
//	<!-- ###ITEM### begin -->...<!-- ###ITEM### end -->
//
// The comment residue around the subpart is removed.
var (
	reBothResidue  = regexp.MustCompile(`(?s)^([^<]*-->)(.*)(<!--[^>]*)$`)
	reTrailResidue = regexp.MustCompile(`(?s)^(.*)(<!--[^>]*)$`)
	reLeadResidue  = regexp.MustCompile(`(?s)^([^<]*-->)(.*)$`)
)

// GetSubpart returns the content between the first two occurrences of
// marker, or "" when marker does not occur twice.
func GetSubpart(template, marker string) string {
	if marker == "" {
		return ""
	}
	start := strings.Index(template, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)
	stop := strings.Index(template[start:], marker)
	if stop < 0 {
		return ""
	}
	content := template[start : start+stop]

	if m := reBothResidue.FindStringSubmatch(content); m != nil {
		return m[2]
	}
	if m := reTrailResidue.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := reLeadResidue.FindStringSubmatch(content); m != nil {
		return m[2]
	}
	return content
}

// SubstituteSubpart replaces every marker pair in template, markers
// included, with content.
func SubstituteSubpart(template, marker, content string) string {
	if marker == "" {
		return template
	}
	start := strings.Index(template, marker)
	if start < 0 {
		return template
	}
	afterStart := start + len(marker)
	stop := strings.Index(template[afterStart:], marker)
	if stop < 0 {
		return template
	}
	before := template[:start]
	after := SubstituteSubpart(template[afterStart+stop+len(marker):], marker, content)

	if m := reTrailResidue.FindStringSubmatch(before); m != nil {
		before = m[1]
	}
	if m := reLeadResidue.FindStringSubmatch(after); m != nil {
		after = m[2]
	}
	return before + content + after
}

// SubstituteMarkerArray replaces every key of markers found in template with
// its value. Longer keys win over shorter keys sharing a prefix and
// replaced text is never scanned again.
func SubstituteMarkerArray(template string, markers map[string]string) string {
	if len(markers) == 0 {
		return template
	}
	keys := make([]string, 0, len(markers))
	for k := range markers {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, markers[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
