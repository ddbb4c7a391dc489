package services

import (
	"github.com/Masterminds/semver/v3"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// MatchesFilter reports whether a document is valid for the caller.
//
// A region constraint applies only when both the document and the filter
// name a region. A document minimum client version applies only when the
// caller sent a version.
func MatchesFilter(meta domain.PolicyMetadata, f domain.MetadataFilter) bool {
	if meta.Region != "" && f.Region != "" && meta.Region != f.Region {
		return false
	}
	if meta.MinClientVersion != "" && f.ClientVersion != "" {
		return versionAtLeast(f.ClientVersion, meta.MinClientVersion)
	}
	return true
}

// versionAtLeast reports whether have >= want. Unparsable versions are
// compared as plain strings.
func versionAtLeast(have, want string) bool {
	hv, herr := semver.NewVersion(have)
	wv, werr := semver.NewVersion(want)
	if herr != nil || werr != nil {
		return have >= want
	}
	return !hv.LessThan(wv)
}
