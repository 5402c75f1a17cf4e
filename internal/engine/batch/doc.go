// Package batch computes many calculator rows at once.
//
// Processor splits a slice into fixed-size batches and runs a callback per
// batch, either sequentially or with bounded concurrency. Run builds on it
// to compute every engine.Row: a failing row never stops the run, outcomes
// keep input order, and the Summary totals weight and price in decimal
// arithmetic so that large batches add up to the cent.
package batch
