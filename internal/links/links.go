// Package links parses console URLs.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

// AllNamespacesKey is the namespace value meaning "every namespace".
const AllNamespacesKey = "#ALL_NS#"

// LegalNamePattern matches Kubernetes dns-friendly names
// ([a-z0-9]([-a-z0-9]*[a-z0-9])?). It checks the pattern but not the length
// and has no capturing groups, so it can be embedded in larger expressions.
var LegalNamePattern = regexp.MustCompile(`[a-z0-9](?:[-a-z0-9]*[a-z0-9])?`)

// NamespacedPrefixes are the console sections whose paths carry a namespace.
var NamespacedPrefixes = []string{
	"/api-resource",
	"/k8s",
	"/operatorhub",
	"/operatormanagement",
	"/operators",
	"/details",
	"/search",
	"/status",
}

// StripBasePath replaces the console base path at the start of path with "/".
func StripBasePath(basePath, path string) string {
	pattern := regexp.MustCompile(`^/?` + regexp.QuoteMeta(basePath))
	return pattern.ReplaceAllString(path, "/")
}

// GetNamespace extracts the namespace from a console path, or "" when the
// path is not namespaced.
func GetNamespace(basePath, path string) string {
	path = StripBasePath(basePath, path)

	var split []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			split = append(split, part)
		}
	}
	at := func(i int) string {
		if i < len(split) {
			return split[i]
		}
		return ""
	}

	if at(1) == "all-namespaces" {
		return AllNamespacesKey
	}

	var ns string
	switch {
	case at(1) == "cluster" && (at(2) == "namespaces" || at(2) == "projects") && at(3) != "":
		ns = at(3)
	case at(1) == "ns" && at(2) != "":
		ns = at(2)
	default:
		return ""
	}

	return LegalNamePattern.FindString(ns)
}

// IsNamespacedPath reports whether path (without base path) starts with a namespaced prefix.
func IsNamespacedPath(path string) bool {
	for _, prefix := range NamespacedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// SearchParams flattens a query string; the last value of a repeated key wins.
func SearchParams(rawQuery string) map[string]string {
	all := make(map[string]string)
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return all
	}
	for k, v := range values {
		if len(v) > 0 {
			all[k] = v[len(v)-1]
		}
	}
	return all
}
