// Package dataset provides the in-memory tabular model the admissions
// pipeline operates on: named tables of ordered columns with nullable,
// string-backed cells, plus the column-generic operations the pipeline
// steps share (null analysis, sparse-column pruning, selection and
// left joins).
//
// Tables are treated as immutable snapshots: every transformation returns
// a new table and no component mutates a caller's table in place. This is
// what lets the pipeline evaluate leakage and labeling rules against a
// consistent view of the data.
package dataset
