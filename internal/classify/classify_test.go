// internal/classify/classify_test.go
package classify

import (
	"reflect"
	"testing"
)

func TestInstrumentsFindsTags(t *testing.T) {
	links := []string{
		"http://archive/2013/crisp_2013-06-30_102030_wb_6563.mp4",
		"http://archive/2016/chromis_2016.09.19_094823_cak.mov",
		"http://archive/2013/iris_2013-06-30_102030_sji.mp4",
	}

	tags := Instruments(links, DefaultInstrumentKeywords(), nil)
	want := []string{InstrumentCHROMIS, InstrumentCRISP, InstrumentIRIS}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("expected %v, got %v", want, tags)
	}
}

func TestInstrumentsReturnsDefaultWhenNothingMatches(t *testing.T) {
	links := []string{"http://archive/2013/context_movie.mp4"}

	tags := Instruments(links, DefaultInstrumentKeywords(), []string{"UNKNOWN"})
	if !reflect.DeepEqual(tags, []string{"UNKNOWN"}) {
		t.Errorf("expected the default tags, got %v", tags)
	}

	if tags := Instruments(links, DefaultInstrumentKeywords(), nil); tags != nil {
		t.Errorf("expected nil without defaults, got %v", tags)
	}
}

func TestPolarimetryTrueOnKeyword(t *testing.T) {
	links := []string{"http://archive/2013/crisp_2013-06-30_102030_blos.mp4"}

	pol := Polarimetry(links, DefaultPolarimetryKeywords())
	if pol == nil || !*pol {
		t.Fatalf("expected true, got %v", pol)
	}
}

func TestPolarimetryNilNotFalseWhenUnknown(t *testing.T) {
	links := []string{"http://archive/2013/crisp_2013-06-30_102030_halpha.mp4"}

	if pol := Polarimetry(links, DefaultPolarimetryKeywords()); pol != nil {
		t.Errorf("absence of a keyword must mean unknown, got %v", *pol)
	}
}

func TestFilterLinksContaining(t *testing.T) {
	links := []string{
		"http://archive/a.mp4",
		"http://archive/b.jpg",
		"http://archive/c.mov",
	}

	videos := FilterLinksContaining(links, []string{".mp4", ".mov"})
	want := []string{"http://archive/a.mp4", "http://archive/c.mov"}
	if !reflect.DeepEqual(videos, want) {
		t.Errorf("expected %v, got %v", want, videos)
	}
}

func TestFilterLinksContainingMultiplicity(t *testing.T) {
	// A link matching two substrings appears twice. Historical catalogs were
	// built this way and a rebuild must reproduce them byte for byte.
	links := []string{"http://archive/clip.mp4.mov"}

	matched := FilterLinksContaining(links, []string{".mp4", ".mov"})
	if len(matched) != 2 {
		t.Fatalf("expected the link once per matching substring, got %d", len(matched))
	}
}
