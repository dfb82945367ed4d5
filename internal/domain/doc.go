// Package domain models the per-person tracking spreadsheet and its reshaping
// into per-day location samples for density heat maps.
//
// # Source Table
//
// The tracking spreadsheet holds one row per person:
//
//	ID | Crime_Tendency | Terror_Tendency | Location_1 | Location_2 | ... | Location_31
//
// Scores are numeric and fall in 0–100 by construction. Every column whose
// name starts with the configured day prefix (matched case-insensitively,
// "Location_" by default) holds that day's raw location token. The trailing
// digits of the column name are the day of month: "Location_07" is day 7.
// Source variants disagree on casing ("Location_", "location_", "LOCATION_"),
// so the prefix is compared with [strings.EqualFold] semantics and validated
// once when the [Schema] is built.
//
// # Location Tokens
//
// A token encodes two non-negative integers, an easting-like x and a
// northing-like y, loosely following MGRS grid references. There is no fixed
// width. Two spellings appear in practice:
//
//	"33T E12345 N67890"  separate runs  ->  x=12345, y=67890
//	"33TWN1234567890"    fused run      ->  x=12345, y=67890
//
// Extraction scans maximal runs of ASCII digits and tries two interpretations
// in order (see [ClassifyToken]):
//
//	Bounded run: at least two runs of 4–6 digits. First is x, second is y.
//	Fused run:   the LAST run of 8–12 digits. If it has at least 10 digits its
//	             final 10 are split into two 5-digit halves.
//
// A fused run of 8 or 9 digits has no defined split and yields no coordinate
// ([MatchAmbiguousFusedRun]). When a token holds several fused runs the last
// one wins; earlier runs are never consulted.
//
// # Drops
//
// Null cells, unparseable tokens and ambiguous fused runs drop that single
// (person, day) sample. They are counted in [ReshapeStats] and never abort a
// reshape. Only schema problems, such as a table with no day columns, fail the
// whole call with a [SchemaError].
package domain
