package genetics

import (
	"errors"
	"reflect"
	"testing"

	"morphcore/pkg/domain"
)

func TestParseGenotype(t *testing.T) {
	cat := testCatalog(t)
	got, err := ParseGenotype(cat, testSpecies, "Pastel, het albino,  SUPER  mojave , pinstripe, normal")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []domain.GeneEntry{
		{Locus: "Pastel", Mode: domain.CoDominant, Copies: 1},
		{Locus: "Albino", Mode: domain.Recessive, Copies: 1},
		{Locus: "Mojave", Mode: domain.CoDominant, Copies: 2},
		{Locus: "Pinstripe", Mode: domain.Dominant, Copies: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestParseGenotypeVisualForms(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		text   string
		locus  string
		copies int
	}{
		{"albino", "Albino", 2},
		{"visual albino", "Albino", 2},
		{"homozygous pinstripe", "Pinstripe", 2},
		{"homo clown", "Clown", 2},
		{"blue eyed leucistic", "Mojave", 2},
		{"visual pastel", "Pastel", 1},
	}
	for _, tc := range cases {
		got, err := ParseGenotype(cat, testSpecies, tc.text)
		if err != nil {
			t.Fatalf("%q: %v", tc.text, err)
		}
		if len(got) != 1 || got[0].Locus != tc.locus || got[0].Copies != tc.copies {
			t.Fatalf("%q: got %+v, want %s x%d", tc.text, got, tc.locus, tc.copies)
		}
	}
}

func TestParseGenotypeErrors(t *testing.T) {
	cat := testCatalog(t)
	cases := []struct {
		text string
		want error
	}{
		{"banana", ErrUnknownLocus},
		{"pos het albino", ErrUncertainGenotype},
		{"66% het clown", ErrUncertainGenotype},
		{"pastel, super pastel", ErrRepeatedLocus},
		{"het ", ErrUnknownLocus},
	}
	for _, tc := range cases {
		_, err := ParseGenotype(cat, testSpecies, tc.text)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.text, tc.want, err)
		}
	}
	if got, err := ParseGenotype(cat, testSpecies, " , "); err != nil || len(got) != 0 {
		t.Fatalf("blank input should parse to nothing, got %+v %v", got, err)
	}
}
