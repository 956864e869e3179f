// Package catalog turns raw exhibition and artwork sheet values into the
// validated dataset consumed by the renderer.
//
// Both sheets are header driven: the first row names the columns and every
// later row is looked up by header text, so column order in the spreadsheet
// does not matter. Rows that cannot be published are skipped and reported as
// Warnings rather than failing the sync.
package catalog
