// Package domain models accident entries in municipal police blotter reports.
//
// # Data Source
//
// Blotters are published as plain-text reports, one per reporting period.
// A report is split into subsections by category (THEFT, ACCIDENT, ...), each
// opened by a header line and closed by a blank line. Only the ACCIDENT
// subsection is extracted; see [AccidentLines].
//
// # Blotter Conventions
//
// Accident description format:
//
//	"<location> - <narrative> MM/DD/YY HHMM"
//	e.g. "Sunset Drive - 2 vehicles, 1 injury, 2 tows. 04/23/13 1511"
//
// Reports are often exported from word processors, so the location separator
// may be an en-dash (U+2013) and spaces may be non-breaking (U+00A0). Both are
// folded to ASCII before matching.
//
// Quantities:
//
//	Vehicle, injury and tow counts are written inline in the narrative as
//	"<digits> <unit>", e.g. "2 vehicles", "1 injury", "3 tows". Unstated counts
//	default to 1 vehicle, 0 injuries and 0 tows. Only the first mention of each
//	unit is used.
//
// Dates:
//
//	Two-digit years are assumed to fall in the 2000s ([CenturyPrefix]).
//	Times are 24-hour HHMM and are emitted as HH:MM without range checks.
//
// # Output
//
// Each parsed line becomes an [AccidentRecord], serialized in the fixed
// column order given by [Columns].
package domain
