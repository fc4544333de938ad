// Package dataprocessing implements the data side of the tracker pipeline:
// parsing the source CSV, cleaning and forward-filling the per-country
// series, deriving metrics, and generating key insights.
//
// The stages operate on domain.Dataset snapshots and never mutate shared
// state; re-running over the same input yields identical derived tables.
package dataprocessing
