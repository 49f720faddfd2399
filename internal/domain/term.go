package domain

import (
	"fmt"
	"strings"
	"time"
)

// PartOfSpeech is the grammatical category of a term
type PartOfSpeech string

const (
	PartNoun      PartOfSpeech = "noun"
	PartVerb      PartOfSpeech = "verb"
	PartAdjective PartOfSpeech = "adjective"
	PartAdverb    PartOfSpeech = "adverb"
	PartPhrase    PartOfSpeech = "phrase"
	PartOther     PartOfSpeech = "other"
)

// PartsOfSpeech lists the accepted values in display order
var PartsOfSpeech = []PartOfSpeech{PartNoun, PartVerb, PartAdjective, PartAdverb, PartPhrase, PartOther}

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartNoun, PartVerb, PartAdjective, PartAdverb, PartPhrase, PartOther:
		return true
	}
	return false
}

// Gender is the grammatical gender (article) of a German noun
type Gender string

const (
	GenderDer  Gender = "der"
	GenderDie  Gender = "die"
	GenderDas  Gender = "das"
	GenderNone Gender = "none"
)

// Genders lists the accepted values in display order
var Genders = []Gender{GenderDer, GenderDie, GenderDas, GenderNone}

func (g Gender) IsValid() bool {
	switch g {
	case GenderDer, GenderDie, GenderDas, GenderNone:
		return true
	}
	return false
}

// NormalizePart lower-cases and trims raw input, applying the "other" default
// for blank values. Unknown values are rejected rather than stored.
func NormalizePart(raw string) (PartOfSpeech, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return PartOther, nil
	}
	p := PartOfSpeech(v)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid part of speech %q: %w", raw, ErrValidation)
	}
	return p, nil
}

// NormalizeGender lower-cases and trims raw input, applying the "none" default
// for blank values. Unknown values are rejected rather than stored.
func NormalizeGender(raw string) (Gender, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return GenderNone, nil
	}
	g := Gender(v)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid gender %q: %w", raw, ErrValidation)
	}
	return g, nil
}

// Term is a vocabulary entry owned by one user and shared by all of that user's lessons.
// Identity is (OwnerID, German).
type Term struct {
	ID        int64
	OwnerID   int64
	German    string
	Part      PartOfSpeech
	Gender    Gender
	IPA       string
	AudioURL  string
	CreatedAt time.Time
}

// Translation renders a term in one target language. Identity is (TermID, Language).
type Translation struct {
	TermID   int64
	Language Language
	Text     string
}
