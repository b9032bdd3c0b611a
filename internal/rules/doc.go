// Package rules holds the pure decision functions behind the stand dashboard:
// age classification, maintenance due dates, stock forecasting and
// reservation window checks.
//
// Nothing in this package reads the wall clock. Every function takes the
// reference time as an argument so results are reproducible, and malformed
// inputs degrade to a conservative answer instead of returning an error. The
// only errors produced are reservation rejections, which are meant to be
// shown to the user as-is.
package rules
