package domain

import "strconv"

// Columns is the tabular header, in output field order.
var Columns = []string{"date", "time", "vehicles", "injuries", "tows", "location", "text"}

// Line is one raw line of input along with where it came from.
type Line struct {
	Text   string
	Source string // file name, or "-" for stdin
	Number int    // 1-based within Source
}

// AccidentRecord is a single parsed accident description.
type AccidentRecord struct {
	Date     string `json:"date"` // 20YY-MM-DD
	Time     string `json:"time"` // HH:MM
	Vehicles int    `json:"vehicles"`
	Injuries int    `json:"injuries"`
	Tows     int    `json:"tows"`
	Location string `json:"location"`
	Text     string `json:"text"`
}

// Row returns the record's fields as strings in [Columns] order.
func (r AccidentRecord) Row() []string {
	return []string{
		r.Date,
		r.Time,
		strconv.Itoa(r.Vehicles),
		strconv.Itoa(r.Injuries),
		strconv.Itoa(r.Tows),
		r.Location,
		r.Text,
	}
}
