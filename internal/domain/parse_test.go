package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pedestrianLine = "Robb Hollow Road - Pedestrian struck by vehicle in parking lot. 04/23/13 1425"
	sunsetLine     = "Sunset Drive - 2 vehicles, 1 injury, 2 tows. 04/23/13 1511"
)

func parse(t *testing.T, text string) AccidentRecord {
	t.Helper()
	rec, err := ParseAccident(Line{Text: text, Source: "blotter.txt", Number: 7})
	require.NoError(t, err)
	return rec
}

func TestParseAccident(t *testing.T) {
	tests := []struct {
		name string
		line string
		want AccidentRecord
	}{
		{
			name: "defaults when no counts are stated",
			line: pedestrianLine,
			want: AccidentRecord{
				Date: "2013-04-23", Time: "14:25",
				Vehicles: 1, Injuries: 0, Tows: 0,
				Location: "Robb Hollow Road",
				Text:     "Pedestrian struck by vehicle in parking lot.",
			},
		},
		{
			name: "counts extracted from narrative",
			line: sunsetLine,
			want: AccidentRecord{
				Date: "2013-04-23", Time: "15:11",
				Vehicles: 2, Injuries: 1, Tows: 2,
				Location: "Sunset Drive",
				Text:     "2 vehicles, 1 injury, 2 tows.",
			},
		},
		{
			name: "first mention wins",
			line: "Cochran Road - 2 vehicles collided, 3 vehicles damaged, 2 injuries. 04/25/13 0916",
			want: AccidentRecord{
				Date: "2013-04-25", Time: "09:16",
				Vehicles: 2, Injuries: 2, Tows: 0,
				Location: "Cochran Road",
				Text:     "2 vehicles collided, 3 vehicles damaged, 2 injuries.",
			},
		},
		{
			name: "location stops at first delimiter",
			line: "Washington Road - Castle Shannon Blvd - 1 tow. 05/01/13 2359",
			want: AccidentRecord{
				Date: "2013-05-01", Time: "23:59",
				Vehicles: 1, Injuries: 0, Tows: 1,
				Location: "Washington Road",
				Text:     "Castle Shannon Blvd - 1 tow.",
			},
		},
		{
			name: "trailing text after time is ignored",
			line: "Bower Hill Road - Hit & Run. 06/02/13 0700 (follow-up)",
			want: AccidentRecord{
				Date: "2013-06-02", Time: "07:00",
				Vehicles: 1,
				Location: "Bower Hill Road",
				Text:     "Hit & Run.",
			},
		},
		{
			name: "surrounding whitespace trimmed",
			line: "  Beverly Road  -  3 vehicles.   07/04/13   1200",
			want: AccidentRecord{
				Date: "2013-07-04", Time: "12:00",
				Vehicles: 3,
				Location: "Beverly Road",
				Text:     "3 vehicles.",
			},
		},
		{
			name: "time is not range checked",
			line: "Main Street - Minor. 12/31/99 2575",
			want: AccidentRecord{
				Date: "2099-12-31", Time: "25:75",
				Vehicles: 1,
				Location: "Main Street",
				Text:     "Minor.",
			},
		},
		{
			name: "zero vehicles falls back to default",
			line: "Main Street - 0 vehicles, 1 tow. 01/02/14 0101",
			want: AccidentRecord{
				Date: "2014-01-02", Time: "01:01",
				Vehicles: 1, Tows: 1,
				Location: "Main Street",
				Text:     "0 vehicles, 1 tow.",
			},
		},
		{
			name: "zero injuries is kept",
			line: "Main Street - 2 vehicles, 0 injuries. 01/02/14 0101",
			want: AccidentRecord{
				Date: "2014-01-02", Time: "01:01",
				Vehicles: 2,
				Location: "Main Street",
				Text:     "2 vehicles, 0 injuries.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAccident_CountsAreCaseSensitive(t *testing.T) {
	rec := parse(t, "Main Street - 2 Vehicles, 1 Injury, 2 Tows. 04/23/13 1511")
	assert.Equal(t, 1, rec.Vehicles)
	assert.Equal(t, 0, rec.Injuries)
	assert.Equal(t, 0, rec.Tows)
}

func TestParseAccident_NormalizesDashAndSpace(t *testing.T) {
	ascii := parse(t, sunsetLine)

	tests := []struct {
		name string
		line string
	}{
		{"en-dash", "Sunset Drive \u2013 2 vehicles, 1 injury, 2 tows. 04/23/13 1511"},
		{"non-breaking spaces", "Sunset\u00a0Drive\u00a0-\u00a02 vehicles, 1 injury, 2 tows.\u00a004/23/13\u00a01511"},
		{"both", "Sunset Drive\u00a0\u2013\u00a02 vehicles, 1 injury, 2 tows. 04/23/13 1511"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ascii, parse(t, tt.line))
		})
	}
}

func TestParseAccident_UnicodeSeparators(t *testing.T) {
	ascii := parse(t, sunsetLine)

	tests := []struct {
		name string
		line string
	}{
		{"en space around delimiter", "Sunset Drive\u2002-\u20022 vehicles, 1 injury, 2 tows. 04/23/13 1511"},
		{"ideographic space before date", "Sunset Drive - 2 vehicles, 1 injury, 2 tows.\u300004/23/13 1511"},
		{"thin space before time", "Sunset Drive - 2 vehicles, 1 injury, 2 tows. 04/23/13\u20091511"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, ascii, parse(t, tt.line))
		})
	}
}

func TestParseAccident_CountsRequireASCIISpace(t *testing.T) {
	rec := parse(t, "Sunset Drive - 2\u2002vehicles. 04/23/13 1511")
	assert.Equal(t, 1, rec.Vehicles)
}

func TestParseAccident_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing delimiter", "Sunset Drive 2 vehicles. 04/23/13 1511"},
		{"hyphen without spaces", "Sunset Drive-2 vehicles. 04/23/13 1511"},
		{"missing date", "Sunset Drive - 2 vehicles. 1511"},
		{"missing time", "Sunset Drive - 2 vehicles. 04/23/13"},
		{"four digit year", "Sunset Drive - 2 vehicles. 04/23/2013 1511"},
		{"short time", "Sunset Drive - 2 vehicles. 04/23/13 151"},
		{"single digit month", "Sunset Drive - 2 vehicles. 4/23/13 1511"},
		{"empty narrative", "Sunset Drive - 04/23/13 1511"},
		{"empty", ""},
		{"count overflows", "Sunset Drive - 99999999999999999999999 vehicles. 04/23/13 1511"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseAccident(Line{Text: tt.line, Source: "blotter.txt", Number: 7})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedLine))
			assert.False(t, errors.Is(err, ErrEncoding))
			assert.Equal(t, AccidentRecord{}, rec)

			var mle *MalformedLineError
			require.ErrorAs(t, err, &mle)
			assert.Equal(t, tt.line, mle.Line)
			assert.Equal(t, 7, mle.Number)
			assert.Contains(t, err.Error(), "blotter.txt:7")
		})
	}
}

func TestParseAccident_ErrorNamesLine(t *testing.T) {
	_, err := ParseAccident(Line{Text: "no delimiter here 04/23/13 1425"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"no delimiter here 04/23/13 1425"`)
	assert.True(t, strings.HasPrefix(err.Error(), "input: bad parse"))
}

func TestParseAccident_InvalidUTF8(t *testing.T) {
	_, err := ParseAccident(Line{Text: "Sunset Drive - \xff\xfe 04/23/13 1511", Source: "a.txt", Number: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))
	assert.False(t, errors.Is(err, ErrMalformedLine))

	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Number)
}

func TestAccidentRecord_Row(t *testing.T) {
	rec := parse(t, sunsetLine)
	assert.Equal(t, []string{"2013-04-23", "15:11", "2", "1", "2", "Sunset Drive", "2 vehicles, 1 injury, 2 tows."}, rec.Row())
	assert.Len(t, rec.Row(), len(Columns))
}

func TestQuantityRule_StemMatchesPrefix(t *testing.T) {
	n, ok := injuriesRule.extract("3 injured")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = towsRule.extract("1 towed away")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = vehiclesRule.extract("vehicle 2")
	require.True(t, ok)
	assert.Equal(t, 1, n)
}
