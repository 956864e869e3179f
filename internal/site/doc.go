// Package site renders the static exhibition site: the listing page, one page per
// exhibition and per artwork, the public data dump and the embedded static assets.
//
// Writes go through the build manifest so unchanged pages are left untouched, and
// every generated page can be audited for accessibility and broken internal links.
package site
