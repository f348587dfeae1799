package model

import (
	"regexp"
	"strings"
)

// Two-pass camel-to-dash conversion. The first pass cuts before any
// capital that starts a capitalized word, which keeps acronym runs
// ("API", "S3") intact; the second cuts between a lower-case letter
// or digit and the capital that follows it.
var (
	wordBoundary    = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	acronymBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// FormatName converts a definition identifier to the default remote
// stack name: dash-separated lower case, with consecutive capitals
// treated as one segment.
//
//	FormatName("TestStack")    == "test-stack"
//	FormatName("TestAPIStack") == "test-api-stack"
//	FormatName("TestS3Stack")  == "test-s3-stack"
//
// This is a best-effort default; callers wanting full control set an
// explicit name in DeployOptions instead.
func FormatName(name string) string {
	name = wordBoundary.ReplaceAllString(name, "${1}-${2}")
	name = acronymBoundary.ReplaceAllString(name, "${1}-${2}")
	return strings.ToLower(name)
}
