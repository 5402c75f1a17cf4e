// Package pagination provides sorting and paging for batch results shown
// by the CLI.
//
// This package contains:
//   - PaginationParams: --limit/--offset and --page/--page-size flag values
//   - PaginationMeta: metadata emitted with paged JSON output
//   - OutcomeSorter: field-validated sorting of batch outcomes
package pagination
