// Package a11ycrawl crawls a website's same-origin link graph, runs
// accessibility engines against every page it reaches, and aggregates the
// findings into a severity-bucketed report.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, markdown/).
package a11ycrawl

// DefaultMaxPages is the page budget used when the caller does not set one.
const DefaultMaxPages = 10
