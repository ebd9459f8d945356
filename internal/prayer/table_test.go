package prayer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Name
// ---------------------------------------------------------------------------

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantErr bool
	}{
		{"Fajr", Fajr, false},
		{"fajr", Fajr, false},
		{"SUNRISE", Sunrise, false},
		{"zuhr", Dhuhr, false},
		{"Dhuhr", Dhuhr, false},
		{" asr ", Asr, false},
		{"maghrib", Maghrib, false},
		{"Isha", Isha, false},
		{"Tahajjud", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseName(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseName(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseName(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	got, err := ParseNames([]string{"Fajr", "maghrib", "Isha"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != Fajr || got[1] != Maghrib || got[2] != Isha {
		t.Errorf("ParseNames() = %v", got)
	}

	if _, err := ParseNames([]string{"Fajr", "fajr"}); err == nil {
		t.Error("expected error for duplicate names")
	}
	if _, err := ParseNames([]string{"Witr"}); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestNameStrings(t *testing.T) {
	if Dhuhr.String() != "Dhuhr" || Dhuhr.Key() != "dhuhr" || Dhuhr.Short() != "D" {
		t.Errorf("Dhuhr = %q/%q/%q", Dhuhr.String(), Dhuhr.Key(), Dhuhr.Short())
	}
	if got := Name(9).String(); got != "Name(9)" {
		t.Errorf("Name(9).String() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Table formatting
// ---------------------------------------------------------------------------

func TestTable_ClockRounding(t *testing.T) {
	tbl := Table{year: 2024, month: 1, day: 2}
	set := func(n Name, h float64) {
		tbl.hours[n] = h
		tbl.defined[n] = true
	}
	set(Fajr, 5+29.4/60)    // rounds down
	set(Sunrise, 6+29.6/60) // rounds up
	set(Dhuhr, 23.999)      // wraps to midnight
	set(Asr, 0)

	tests := []struct {
		n    Name
		want string
	}{
		{Fajr, "05:29"},
		{Sunrise, "06:30"},
		{Dhuhr, "00:00"},
		{Asr, "00:00"},
		{Maghrib, UndefinedClock},
	}
	for _, tt := range tests {
		if got := tbl.Clock(tt.n); got != tt.want {
			t.Errorf("Clock(%s) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestTable_Date(t *testing.T) {
	tbl := Table{year: 987, month: 3, day: 4}
	if got := tbl.Date(); got != "04.03.0987" {
		t.Errorf("Date() = %q, want 04.03.0987", got)
	}
}

func TestTable_Map(t *testing.T) {
	m := sampleTable(t).Map()
	want := map[string]string{
		"fajr": "05:17", "sunrise": "06:48", "dhuhr": "12:13",
		"asr": "15:02", "maghrib": "17:39", "isha": "19:10",
		"date": "28.02.2026",
	}
	if len(m) != len(want) {
		t.Fatalf("Map() has %d keys, want %d", len(m), len(want))
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("Map()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestTable_JSON(t *testing.T) {
	tbl := tableOf(t, "", "06:48", "12:13", "15:02", "17:39", "19:10")

	data, err := json.Marshal(tbl)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"date":"28.02.2026"`, `"fajr":null`, `"asr":"15:02"`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}

	var back Table
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Defined(Fajr) {
		t.Error("fajr should stay undefined after round trip")
	}
	if back.Clock(Asr) != "15:02" || back.Date() != "28.02.2026" {
		t.Errorf("round trip = %v", back.Map())
	}
}

func TestTable_UnmarshalInvalid(t *testing.T) {
	var tbl Table
	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &tbl); err == nil {
		t.Error("expected error for bad date")
	}
	if err := json.Unmarshal([]byte(`{"date":"01.01.2024","fajr":"5am"}`), &tbl); err == nil {
		t.Error("expected error for bad clock")
	}
}

// ---------------------------------------------------------------------------
// AngleDomainError
// ---------------------------------------------------------------------------

func TestAngleDomainError(t *testing.T) {
	err := error(&AngleDomainError{Prayers: []Name{Fajr, Isha}})

	if !errors.Is(err, ErrInvalidAngleDomain) {
		t.Error("errors.Is(ErrInvalidAngleDomain) = false")
	}
	if errors.Is(err, ErrInvalidDate) {
		t.Error("errors.Is(ErrInvalidDate) = true")
	}
	if !strings.Contains(err.Error(), "fajr, isha") {
		t.Errorf("Error() = %q", err.Error())
	}
}
