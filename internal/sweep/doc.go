// Package sweep removes orphaned Client Side Rendering Print Provider
// cache entries from the hive.
//
// When a domain profile is deleted without a clean logoff, the provider
// keeps a per-user SID key and per-server printer/port entries around.
// A later session that maps the same shared printer then fails with
// "the parameter is incorrect". The sweeper deletes the SID keys
// outright, clears the contents of each server's Printers and
// Monitors\Client Side Port branches (the containers stay), and keeps
// the RemovePrintersAtLogoff flag enabled so the provider cleans up
// after itself on future logoffs.
//
// Everything here is idempotent and tolerant of partially-cleaned
// trees: a failure on one entry is logged and the sweep moves on.
package sweep
