package domain

// Format identifies the source encoding of an import payload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Tabular reports whether the format uses the spreadsheet column layout
func (f Format) Tabular() bool {
	return f == FormatCSV || f == FormatXLSX
}

// LessonMeta is the lesson-level part of an import payload
type LessonMeta struct {
	Number int
	// NumberPresent is false when the payload carried no usable lesson number.
	NumberPresent bool
	Name          string
	Description   string
	Topics        []string
	TopicsPresent bool
}

// RawTermRecord is one normalized term row, independent of the source format.
// Part and Gender hold the raw values; defaults and case folding happen at import time.
type RawTermRecord struct {
	// Row is the visible line number for tabular input and the array index for JSON.
	Row          int
	German       string
	Lesson       string
	Part         string
	Gender       string
	Translations map[Language]string
	// HasTranslations is false when a JSON term had no translations object.
	HasTranslations bool
	Category        string
	Subcategory     string
	IPA             string
	AudioURL        string
}

// Sentence is an example sentence carried through from JSON payloads
type Sentence struct {
	German       string
	Translations map[Language]string
}

// ParsedBatch is the parser output fed to validation and import
type ParsedBatch struct {
	Format Format
	Meta   LessonMeta
	Terms  []RawTermRecord
	// Issues are structural problems found while decoding that surface as validation errors.
	Issues    []string
	Sentences []Sentence
	Notes     string
}

// ValidationResult is the complete list of problems found in a batch
type ValidationResult struct {
	Valid  bool
	Errors []RowError
}

// ImportResult summarises one import call
type ImportResult struct {
	Success          bool       `json:"success"`
	LessonNumber     int        `json:"lessonNumber"`
	NewTermsCount    int        `json:"newTermsCount"`
	ReusedTermsCount int        `json:"reusedTermsCount"`
	Errors           []RowError `json:"errors,omitempty"`
}

// Imported is the number of records that were fully processed
func (r ImportResult) Imported() int {
	return r.NewTermsCount + r.ReusedTermsCount
}
