package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CenturyPrefix is prepended to two-digit years. Dates past 2099 will be
// misdated; this is the documented behaviour, not a general date parser.
const CenturyPrefix = "20"

// accidentRe captures location, narrative, month, day, two-digit year and
// HHMM time. It is anchored at the start only, so trailing text after the
// time is ignored. Separators accept any Unicode space, not just ASCII.
var accidentRe = regexp.MustCompile(`^(.*?)[\s\p{Z}]+-[\s\p{Z}]+(.*?)[\s\p{Z}]+(\d\d)/(\d\d)/(\d\d)[\s\p{Z}]+(\d{4})`)

// lineReplacer folds word-processor punctuation to ASCII.
var lineReplacer = strings.NewReplacer(
	"\u00a0", " ", // non-breaking space
	"\u2013", "-", // en-dash
)

// quantityRule extracts one count from the narrative text.
type quantityRule struct {
	unit  string // prefix of the unit word, e.g. "injur" for injury/injuries
	def   int
	floor int
	re    *regexp.Regexp
}

func newQuantityRule(unit string, def, floor int) quantityRule {
	return quantityRule{
		unit:  unit,
		def:   def,
		floor: floor,
		re:    regexp.MustCompile(`(\d+)\s+` + regexp.QuoteMeta(unit)),
	}
}

var (
	vehiclesRule = newQuantityRule("vehicle", 1, 1)
	injuriesRule = newQuantityRule("injur", 0, 0)
	towsRule     = newQuantityRule("tow", 0, 0)
)

// extract returns the first count written before the rule's unit, or the
// default when the unit is not mentioned or the count is below the rule floor.
func (r quantityRule) extract(text string) (int, bool) {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return r.def, true
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if n < r.floor {
		return r.def, true
	}
	return n, true
}

// NormalizeLine folds non-breaking spaces and en-dashes to their ASCII forms.
func NormalizeLine(s string) string {
	return lineReplacer.Replace(s)
}

// ParseAccident converts one accident description line into an AccidentRecord.
// It returns an *EncodingError for invalid UTF-8 and a *MalformedLineError when
// the line does not follow the description layout.
func ParseAccident(line Line) (AccidentRecord, error) {
	if !utf8.ValidString(line.Text) {
		return AccidentRecord{}, &EncodingError{Source: line.Source, Number: line.Number, Line: line.Text}
	}

	text := NormalizeLine(line.Text)
	m := accidentRe.FindStringSubmatch(text)
	if m == nil {
		return AccidentRecord{}, malformed(line, "expected \"<location> - <text> MM/DD/YY HHMM\"")
	}
	location, narrative := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	month, day, year, hhmm := m[3], m[4], m[5], m[6]

	rec := AccidentRecord{
		Date:     CenturyPrefix + year + "-" + month + "-" + day,
		Time:     hhmm[:2] + ":" + hhmm[2:],
		Location: location,
		Text:     narrative,
	}

	for _, q := range []struct {
		rule quantityRule
		dst  *int
	}{
		{vehiclesRule, &rec.Vehicles},
		{injuriesRule, &rec.Injuries},
		{towsRule, &rec.Tows},
	} {
		n, ok := q.rule.extract(narrative)
		if !ok {
			return AccidentRecord{}, malformed(line, q.rule.unit+" count out of range")
		}
		*q.dst = n
	}

	return rec, nil
}

func malformed(line Line, reason string) *MalformedLineError {
	return &MalformedLineError{Source: line.Source, Number: line.Number, Line: line.Text, Reason: reason}
}
