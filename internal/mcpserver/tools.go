package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
	"github.com/smokyabdulrahman/salat/internal/qibla"
)

func (s *Server) registerTools() {
	s.registerPrayerTimesTool()
	s.registerPrayerStateTool()
	s.registerQiblaTool()
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func locationProperties() map[string]interface{} {
	return map[string]interface{}{
		"latitude":   prop("number", "Latitude in degrees (-90 to 90)"),
		"longitude":  prop("number", "Longitude in degrees (-180 to 180)"),
		"date":       prop("string", "Optional date as YYYY-MM-DD, defaults to today at the location"),
		"timezone":   prop("string", "Optional IANA time zone, e.g. 'Asia/Riyadh'"),
		"utc_offset": prop("number", "Optional UTC offset in hours, overrides timezone"),
		"method":     prop("string", "Calculation method: MWL, ISNA, Egypt, Makkah (default), Karachi or Tehran"),
		"madhhab":    prop("string", "Asr convention: shafi (default) or hanafi"),
	}
}

// LocationInput selects a place, a date and a calculation method.
type LocationInput struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Date      *string  `json:"date,omitempty"`
	Timezone  *string  `json:"timezone,omitempty"`
	UTCOffset *float64 `json:"utc_offset,omitempty"`
	Method    *string  `json:"method,omitempty"`
	Madhhab   *string  `json:"madhhab,omitempty"`
}

// PrayerTimesOutput is one day's times. Undefined times are omitted from
// Times and listed in Undefined.
type PrayerTimesOutput struct {
	Date      string            `json:"date"`
	Hijri     string            `json:"hijri,omitempty"`
	Times     map[string]string `json:"times"`
	Undefined []string          `json:"undefined,omitempty"`
	UTCOffset float64           `json:"utc_offset"`
	Method    string            `json:"method"`
	Madhhab   string            `json:"madhhab"`
}

// StateInput is LocationInput plus the wall-clock time to resolve against.
type StateInput struct {
	LocationInput
	Now *string `json:"now,omitempty"`
}

// StateOutput names the current and next prayer.
type StateOutput struct {
	Date     string `json:"date"`
	Now      string `json:"now"`
	Current  string `json:"current"`
	Next     string `json:"next"`
	NextTime string `json:"next_time"`
}

// QiblaInput is a location.
type QiblaInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) registerPrayerTimesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_prayer_times",
		Description: "Calculate the six daily prayer times (fajr, sunrise, dhuhr, asr, maghrib, isha) for a location and date.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": locationProperties(),
			"required":   []string{"latitude", "longitude"},
		},
	}, s.handlePrayerTimes)
}

func (s *Server) registerPrayerStateTool() {
	props := locationProperties()
	props["now"] = prop("string", "Optional local time as HH:MM, defaults to the current time at the location")

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_prayer_state",
		Description: "Tell which prayer time is current and which comes next at a location.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"latitude", "longitude"},
		},
	}, s.handlePrayerState)
}

func (s *Server) registerQiblaTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_qibla",
		Description: "Get the direction (bearing from true north) and distance to the Kaaba.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"latitude":  prop("number", "Latitude in degrees (-90 to 90)"),
				"longitude": prop("number", "Longitude in degrees (-180 to 180)"),
			},
			"required": []string{"latitude", "longitude"},
		},
	}, s.handleQibla)
}

func textResult(v interface{}) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

func (s *Server) handlePrayerTimes(ctx context.Context, _ *mcp.CallToolRequest, input LocationInput) (*mcp.CallToolResult, PrayerTimesOutput, error) {
	p, _, err := s.params(input)
	if err != nil {
		return nil, PrayerTimesOutput{}, err
	}
	t, err := s.table(ctx, p)
	if err != nil && !errors.Is(err, prayer.ErrInvalidAngleDomain) {
		return nil, PrayerTimesOutput{}, err
	}

	output := PrayerTimesOutput{
		Date:      t.Date(),
		Times:     make(map[string]string),
		UTCOffset: p.UTCOffset,
		Method:    p.Method.String(),
		Madhhab:   p.Madhhab.String(),
	}
	for _, n := range prayer.Names {
		if t.Defined(n) {
			output.Times[n.Key()] = t.Clock(n)
		} else {
			output.Undefined = append(output.Undefined, n.Key())
		}
	}
	if h, err := hijri.FromGregorian(p.Year, p.Month, p.Day); err == nil {
		output.Hijri = h.Format()
	}

	return textResult(output), output, nil
}

func (s *Server) handlePrayerState(ctx context.Context, _ *mcp.CallToolRequest, input StateInput) (*mcp.CallToolResult, StateOutput, error) {
	p, local, err := s.params(input.LocationInput)
	if err != nil {
		return nil, StateOutput{}, err
	}
	now := prayer.ClockOf(local)
	if input.Now != nil {
		if now, err = prayer.ParseClock(*input.Now); err != nil {
			return nil, StateOutput{}, err
		}
	}

	t, err := s.table(ctx, p)
	if err != nil && !errors.Is(err, prayer.ErrInvalidAngleDomain) {
		return nil, StateOutput{}, err
	}

	next := prayer.NextPrayer(t, now)
	output := StateOutput{
		Date:     t.Date(),
		Now:      now,
		Current:  prayer.CurrentPrayer(t, now).String(),
		Next:     next.String(),
		NextTime: t.Clock(next),
	}
	return textResult(output), output, nil
}

func (s *Server) handleQibla(_ context.Context, _ *mcp.CallToolRequest, input QiblaInput) (*mcp.CallToolResult, qibla.Result, error) {
	res, err := qibla.Direction(input.Latitude, input.Longitude)
	if err != nil {
		return nil, qibla.Result{}, err
	}
	return textResult(res), res, nil
}

// params resolves the input into engine parameters and the current local
// time at the location.
func (s *Server) params(in LocationInput) (prayer.Params, time.Time, error) {
	p := prayer.Params{
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Method:    prayer.DefaultMethod,
		Madhhab:   prayer.Shafi,
	}

	var err error
	if in.Method != nil && *in.Method != "" {
		if p.Method, err = prayer.ParseMethod(*in.Method); err != nil {
			return p, time.Time{}, err
		}
	}
	if in.Madhhab != nil && *in.Madhhab != "" {
		if p.Madhhab, err = prayer.ParseMadhhab(*in.Madhhab); err != nil {
			return p, time.Time{}, err
		}
	}

	loc := time.UTC
	if in.Timezone != nil && *in.Timezone != "" {
		if loc, err = time.LoadLocation(*in.Timezone); err != nil {
			return p, time.Time{}, fmt.Errorf("unknown timezone %q: %w", *in.Timezone, err)
		}
	}
	if in.UTCOffset != nil {
		loc = time.FixedZone("", int(*in.UTCOffset*3600))
	}

	local := s.now().In(loc)
	y, m, d := local.Date()
	if in.Date != nil && *in.Date != "" {
		date, err := time.Parse("2006-01-02", *in.Date)
		if err != nil {
			return p, time.Time{}, fmt.Errorf("%w: %q must be YYYY-MM-DD", prayer.ErrInvalidDate, *in.Date)
		}
		y, m, d = date.Date()
	}

	p.Year, p.Month, p.Day = y, int(m), d
	p.UTCOffset = prayer.OffsetHours(loc, y, int(m), d)
	if in.UTCOffset != nil {
		p.UTCOffset = *in.UTCOffset
	}
	return p, local, p.Validate()
}

func (s *Server) table(ctx context.Context, p prayer.Params) (prayer.Table, error) {
	return cache.Compute(ctx, s.cache, p, cache.OnSaveError(func(err error) {
		s.logger.Warn().Err(err).Msg("failed to cache table")
	}))
}
