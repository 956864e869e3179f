// Package daemon keeps a generated site fresh: it rebuilds on a schedule and
// on configuration or fixture changes, serves /healthz and /metrics, and runs
// the local preview server.
package daemon
