// Package history persists one record per sync or build run in SQLite so warning
// trends can be reviewed with `exhibitpal history`.
package history
