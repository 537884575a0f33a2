// Package lint finds fixable style defects in parsed .mnd files.
//
// Each analyzer owns one diagnostic code. Redundant parentheses are reported
// as a primary diagnostic on the group plus two faded (TagUnnecessary)
// diagnostics on the parentheses themselves.
package lint
