// Package dataprocessing builds the modeling-ready admissions dataset from
// the multi-entity CRM export. It consolidates workbook loading, target
// labeling, temporal feature derivation, progressive activity aggregation
// and leakage control into a cohesive package.
//
// # Architecture
//
// The package is organized around five components:
//
//  1. Workbook loader: reads the multi-sheet Excel export into tables
//  2. Labeler: derives the binary enrollment target from the stage history
//  3. StageCalculator: computes per-stage durations and transition gaps
//  4. ActivityAggregator: accumulates strictly-prior activity counts per row
//  5. LeakageGuard: redacts fields not legitimately known at a row's stage
//
// The Assembler sequences them over a loaded workbook and emits the final
// column-selected table.
//
// # Temporal integrity
//
// Every derived aggregate attached to a row uses only events that are
// strictly earlier than the row's own timestamp, and the labeler evaluates
// both of its conditions against the same immutable snapshot of the stage
// log. Components never mutate their inputs; each step returns a new table.
//
// # Error Handling
//
// Structural problems (a required column missing from an input table) abort
// the offending step with a MissingColumnError naming the table and field.
// Data-quality anomalies (orphan keys, duplicates, nulls) are counted,
// logged and reported through domain.AuditReport; they never abort the run.
package dataprocessing
