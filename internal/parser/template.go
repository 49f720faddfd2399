package parser

import (
	"bytes"
	"encoding/csv"
)

// TemplateFilename is the suggested name for the downloadable template
const TemplateFilename = "deutsche-lernen-template.csv"

var templateExamples = [][]string{
	{"ich bin", "אני", "I am", "io sono", "1", "verb", "none", "Verbs", "sein"},
	{"Tisch", "שולחן", "table", "tavolo", "1", "noun", "der", "Nouns", "Furniture"},
	{"schön", "יפה", "beautiful", "bello", "1", "adjective", "none", "Adjectives", ""},
}

// CSVTemplate returns a CSV file with the expected header and example rows
func CSVTemplate() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Columns)
	_ = w.WriteAll(templateExamples)
	return buf.Bytes()
}
