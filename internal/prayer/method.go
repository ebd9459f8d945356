package prayer

import (
	"fmt"
	"strconv"
	"strings"
)

// Method selects the twilight angles used for Fajr and Isha.
type Method int

const (
	MWL Method = iota
	ISNA
	Egypt
	Makkah
	Karachi
	Tehran
)

// DefaultMethod is used when nothing else is configured.
const DefaultMethod = Makkah

// MethodParams describes the depression angles of a method. When IshaMinutes
// is non-zero, Isha is that many minutes after Maghrib and IshaAngle is unused.
type MethodParams struct {
	Name        string
	Description string
	FajrAngle   float64
	IshaAngle   float64
	IshaMinutes float64
}

var methods = [...]MethodParams{
	MWL:     {Name: "MWL", Description: "Muslim World League", FajrAngle: 18, IshaAngle: 17},
	ISNA:    {Name: "ISNA", Description: "Islamic Society of North America", FajrAngle: 15, IshaAngle: 15},
	Egypt:   {Name: "Egypt", Description: "Egyptian General Authority of Survey", FajrAngle: 19.5, IshaAngle: 17.5},
	Makkah:  {Name: "Makkah", Description: "Umm Al-Qura University, Makkah", FajrAngle: 18.5, IshaMinutes: 90},
	Karachi: {Name: "Karachi", Description: "University of Islamic Sciences, Karachi", FajrAngle: 18, IshaAngle: 18},
	Tehran:  {Name: "Tehran", Description: "Institute of Geophysics, University of Tehran", FajrAngle: 17.7, IshaAngle: 14},
}

// Methods lists every supported method in id order.
func Methods() []Method {
	out := make([]Method, len(methods))
	for i := range methods {
		out[i] = Method(i)
	}
	return out
}

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool { return m >= 0 && int(m) < len(methods) }

// Params returns the angle table entry for m.
func (m Method) Params() MethodParams {
	if !m.Valid() {
		return MethodParams{}
	}
	return methods[m]
}

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methods[m].Name
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMethod accepts a method name (case-insensitive) or its numeric id.
func ParseMethod(s string) (Method, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		m := Method(n)
		if !m.Valid() {
			return 0, fmt.Errorf("invalid method id %d: must be 0-%d", n, len(methods)-1)
		}
		return m, nil
	}
	for i, p := range methods {
		if strings.EqualFold(p.Name, s) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("unknown method %q", s)
}

// Madhhab selects the Asr shadow factor.
type Madhhab int

const (
	Shafi Madhhab = iota
	Hanafi
)

// AsrFactor is the shadow length multiple that marks the start of Asr.
func (m Madhhab) AsrFactor() float64 {
	if m == Hanafi {
		return 2
	}
	return 1
}

// Valid reports whether m is Shafi or Hanafi.
func (m Madhhab) Valid() bool { return m == Shafi || m == Hanafi }

func (m Madhhab) String() string {
	switch m {
	case Shafi:
		return "Shafi"
	case Hanafi:
		return "Hanafi"
	}
	return fmt.Sprintf("Madhhab(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Madhhab) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid madhhab %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Madhhab) UnmarshalText(b []byte) error {
	v, err := ParseMadhhab(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMadhhab accepts "shafi", "hanafi" (any case, "standard" as an alias
// for shafi) or the ids 0 and 1.
func ParseMadhhab(s string) (Madhhab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "shafi", "shafii", "standard":
		return Shafi, nil
	case "1", "hanafi":
		return Hanafi, nil
	}
	return 0, fmt.Errorf("unknown madhhab %q: must be shafi or hanafi", s)
}
