// internal/store/csv_test.go
package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/valpere/SolarArchiver/internal/catalog"
)

func testSessions() []catalog.Session {
	target := "Sunspot AR1234"
	pol := true
	return []catalog.Session{
		{
			DateTime:    time.Date(2013, 6, 30, 10, 20, 30, 0, time.UTC),
			Year:        2013,
			Month:       6,
			Day:         30,
			TimeOfDay:   "10:20:30",
			Instruments: []string{"CHROMIS", "CRISP"},
			Target:      &target,
			VideoLinks:  []string{"http://archive/a.mp4", "http://archive/b.mov"},
			Links:       []string{"http://archive/a.mp4", "http://archive/b.mov"},
			NumLinks:    2,
			Polarimetry: &pol,
		},
		{
			DateTime:  time.Date(2016, 9, 19, 9, 48, 23, 0, time.UTC),
			Year:      2016,
			Month:     9,
			Day:       19,
			TimeOfDay: "09:48:23",
			Links:     []string{"http://archive/c.jpg"},
			ImageLinks: []string{
				"http://archive/c.jpg",
			},
			NumLinks: 1,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "catalog.csv")

	writer, err := NewCSVWriter(filename)
	if err != nil {
		t.Fatalf("NewCSVWriter failed: %v", err)
	}
	sessions := testSessions()
	if err := writer.Write(sessions); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	loaded, err := LoadCSV(filename)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(loaded) != len(sessions) {
		t.Fatalf("expected %d sessions, got %d", len(sessions), len(loaded))
	}

	first := loaded[0]
	if !first.DateTime.Equal(sessions[0].DateTime) {
		t.Errorf("expected %v, got %v", sessions[0].DateTime, first.DateTime)
	}
	if !reflect.DeepEqual(first.Instruments, sessions[0].Instruments) {
		t.Errorf("expected instruments %v, got %v", sessions[0].Instruments, first.Instruments)
	}
	if first.Target == nil || *first.Target != "Sunspot AR1234" {
		t.Errorf("expected target preserved, got %v", first.Target)
	}
	if first.Comments != nil {
		t.Errorf("nil comments must survive the round trip, got %v", *first.Comments)
	}
	if first.Polarimetry == nil || !*first.Polarimetry {
		t.Errorf("expected polarimetry true, got %v", first.Polarimetry)
	}
	if !reflect.DeepEqual(first.VideoLinks, sessions[0].VideoLinks) {
		t.Errorf("expected video links %v, got %v", sessions[0].VideoLinks, first.VideoLinks)
	}

	second := loaded[1]
	if second.Polarimetry != nil {
		t.Errorf("unknown polarimetry must load as nil, got %v", *second.Polarimetry)
	}
	if second.Instruments != nil {
		t.Errorf("empty instrument list must load as empty, got %v", second.Instruments)
	}
	if second.NumLinks != 1 {
		t.Errorf("expected num_links 1, got %d", second.NumLinks)
	}
}

func TestLoadCSVMissingFileIsFirstRun(t *testing.T) {
	sessions, err := LoadCSV(filepath.Join(t.TempDir(), "does_not_exist.csv"))
	if err != nil {
		t.Fatalf("a missing catalog must not be an error: %v", err)
	}
	if sessions != nil {
		t.Errorf("expected an empty catalog, got %d sessions", len(sessions))
	}
}

func TestPolarimetrySerialization(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		in   *bool
		want string
	}{
		{nil, ""},
		{&yes, "True"},
		{&no, "False"},
	}
	for _, tc := range cases {
		if got := boolString(tc.in); got != tc.want {
			t.Errorf("boolString(%v) = %q, want %q", tc.in, got, tc.want)
		}
		back, err := parseBool(tc.want)
		if err != nil {
			t.Fatalf("parseBool(%q) failed: %v", tc.want, err)
		}
		if (back == nil) != (tc.in == nil) {
			t.Errorf("parseBool(%q) nilness mismatch", tc.want)
		}
		if back != nil && *back != *tc.in {
			t.Errorf("parseBool(%q) = %v, want %v", tc.want, *back, *tc.in)
		}
	}

	if _, err := parseBool("yes"); err == nil {
		t.Error("expected an error for an unrecognized polarimetry value")
	}
}

func TestUnflattenRejectsShortRows(t *testing.T) {
	if _, err := unflatten([]string{"2013-06-30 10:20:30", "2013"}); err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestLinkCacheRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "links.csv")
	links := []string{
		"http://archive/2013/2013-06-30/a.mp4",
		"http://archive/2013/2013-06-30/b.jpg",
	}

	if err := SaveLinks(filename, links); err != nil {
		t.Fatalf("SaveLinks failed: %v", err)
	}
	loaded, err := LoadLinks(filename)
	if err != nil {
		t.Fatalf("LoadLinks failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, links) {
		t.Errorf("expected %v, got %v", links, loaded)
	}
}

func TestLoadLinksMissingFile(t *testing.T) {
	links, err := LoadLinks(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("a missing cache must not be an error: %v", err)
	}
	if links != nil {
		t.Errorf("expected nil links, got %v", links)
	}
}

func TestManagerRejectsUnknownFormat(t *testing.T) {
	manager, err := NewManager(&Config{Format: "carrier_pigeon"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := manager.GetWriter(); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestManagerWritesCSV(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "managed.csv")
	manager, err := NewManager(&Config{Format: FormatCSV, File: filename})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := manager.Write(testSessions()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filename); err != nil {
		t.Fatalf("expected the catalog file to exist: %v", err)
	}
}
