package hijri

import (
	"errors"
	"testing"
	"time"
)

func TestFromGregorian(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		want             Date
	}{
		{"first of ramadan 1445", 2024, 3, 11, Date{1445, 9, 1}},
		{"eid al-fitr 1445", 2024, 4, 10, Date{1445, 10, 1}},
		{"new year 1445", 2023, 7, 19, Date{1445, 1, 1}},
		{"y2k", 2000, 1, 1, Date{1420, 9, 24}},
		{"unix epoch", 1970, 1, 1, Date{1389, 10, 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGregorian(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("FromGregorian() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromGregorian(%d-%02d-%02d) = %+v, want %+v", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestFromGregorian_MonthAdvances(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev, _ := FromTime(start)

	for i := 1; i < 400; i++ {
		cur, err := FromTime(start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("FromTime() error: %v", err)
		}
		if cur.Day < 1 || cur.Day > 30 || cur.Month < 1 || cur.Month > 12 {
			t.Fatalf("day %d: out of range %+v", i, cur)
		}
		sameMonth := cur.Year == prev.Year && cur.Month == prev.Month && cur.Day == prev.Day+1
		newMonth := cur.Day == 1 && (prev.Day == 29 || prev.Day == 30)
		if !sameMonth && !newMonth {
			t.Fatalf("day %d: %+v does not follow %+v", i, cur, prev)
		}
		prev = cur
	}
}

func TestFromGregorian_BeforeEpoch(t *testing.T) {
	_, err := FromGregorian(600, 1, 1)
	if !errors.Is(err, ErrBeforeEpoch) {
		t.Errorf("expected ErrBeforeEpoch, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	d := Date{Year: 1445, Month: 9, Day: 1}
	if got := d.Format(); got != "1 Ramadan 1445 AH" {
		t.Errorf("Format() = %q", got)
	}
	if got := (Date{Month: 13}).MonthName(); got != "" {
		t.Errorf("MonthName(13) = %q, want empty", got)
	}
}
