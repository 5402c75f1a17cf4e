// Package report exports calculation results as CSV, XLSX and PDF.
package report
