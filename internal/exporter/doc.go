// Package exporter writes the pipeline outputs: the derived metrics CSV,
// the sectioned insights report, and the Excel workbook.
package exporter
