// Package build runs the exhibition site pipeline: fetch both sheets,
// normalize them, resolve hero images, render the site, audit the output,
// then record the run and publish notifications.
//
// All execution paths (CLI, preview, daemon, tests) route through BuildService.
package build
