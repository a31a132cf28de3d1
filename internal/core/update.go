package core

import "github.com/git-pkgs/wpupdates/internal/version"

// CompareFunc orders two version strings: -1, 0 or 1.
type CompareFunc = version.CompareFunc

// DecideUpdate returns the update record for pkg if release is strictly newer
// than the installed version and carries at least one downloadable asset.
// It returns nil otherwise, including for a nil release. A nil compare uses
// version.Compare.
func DecideUpdate(release *ReleaseInfo, pkg PackageDescriptor, compare CompareFunc) *UpdateRecord {
	download := release.PackageURL()
	if download == "" {
		return nil
	}
	if release.TagName == "" {
		return nil
	}
	if compare == nil {
		compare = version.Compare
	}
	if compare(release.TagName, pkg.CurrentVersion) <= 0 {
		return nil
	}
	return &UpdateRecord{
		Slug:       pkg.Slug,
		NewVersion: release.TagName,
		Package:    download,
		URL:        pkg.RepositoryURL,
	}
}

// ApplyUpdate returns cache with record published under pkg.Slug. The cache
// is returned unchanged when it has no baseline or record is nil; an
// existing record for the slug is never removed.
func ApplyUpdate(cache UpdateCache, pkg PackageDescriptor, record *UpdateRecord) UpdateCache {
	if !cache.HasBaseline() || record == nil {
		return cache
	}
	r := *record
	r.Slug = pkg.Slug
	return cache.WithResponse(r)
}
