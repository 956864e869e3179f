// Package hero downloads exhibition key visuals from Google Drive, caches the
// originals on disk and produces responsive JPEG variants.
//
// Resolve never fails: when a download or optimization breaks it falls back
// to the last cached metadata.json for the Drive file, and when no cache
// exists it returns a placeholder asset. Each outcome is reported as a hero
// log entry with scope "hero-image-cache".
package hero
