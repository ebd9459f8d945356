package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smokyabdulrahman/salat/internal/cache"
	"github.com/smokyabdulrahman/salat/internal/hijri"
	"github.com/smokyabdulrahman/salat/internal/prayer"
	"github.com/smokyabdulrahman/salat/internal/qibla"
)

// timesData flattens a table into the "data" object of /api/prayer-times.
// Undefined times are null.
func timesData(t prayer.Table) gin.H {
	out := gin.H{"date": t.Date()}
	for _, n := range prayer.Names {
		if t.Defined(n) {
			out[n.Key()] = t.Clock(n)
		} else {
			out[n.Key()] = nil
		}
	}
	return out
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (s *Server) prayerTimes(c *gin.Context) {
	lat, lon, err := coordinates(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	p := prayer.Params{
		Latitude:  lat,
		Longitude: lon,
		Method:    prayer.DefaultMethod,
		Madhhab:   prayer.Shafi,
	}
	if p.UTCOffset, err = queryFloat(c, "tz", 0); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if v := c.Query("method"); v != "" {
		if p.Method, err = prayer.ParseMethod(v); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	}
	if v := c.Query("madhhab"); v != "" {
		if p.Madhhab, err = prayer.ParseMadhhab(v); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	}

	// "Today" and "now" are taken in the requested offset, not the server's zone.
	local := s.now().UTC().Add(time.Duration(p.UTCOffset * float64(time.Hour)))
	y, m, d := local.Date()
	if p.Year, err = queryInt(c, "year", y); err == nil {
		if p.Month, err = queryInt(c, "month", int(m)); err == nil {
			p.Day, err = queryInt(c, "day", d)
		}
	}
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	now := prayer.ClockOf(local)
	if v := c.Query("now"); v != "" {
		if now, err = prayer.ParseClock(v); err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
	}

	t, err := s.compute(c.Request.Context(), p)
	var ade *prayer.AngleDomainError
	if err != nil && !errors.As(err, &ade) {
		fail(c, http.StatusBadRequest, err)
		return
	}

	data := timesData(t)
	data["latitude"] = lat
	data["longitude"] = lon
	data["timezone"] = p.UTCOffset
	data["method"] = p.Method.String()
	data["madhhab"] = p.Madhhab.String()
	data["currentPrayer"] = prayer.CurrentPrayer(t, now).String()
	data["nextPrayer"] = prayer.NextPrayer(t, now).String()
	if city := c.Query("city"); city != "" {
		data["city"] = city
	}
	if h, err := hijri.FromGregorian(p.Year, p.Month, p.Day); err == nil {
		data["hijri"] = h.Format()
	}

	if ade != nil {
		undefined := make([]string, len(ade.Prayers))
		for i, n := range ade.Prayers {
			undefined[i] = n.Key()
		}
		data["undefined"] = undefined
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": ade.Error(), "data": data})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) compute(ctx context.Context, p prayer.Params) (prayer.Table, error) {
	return cache.Compute(ctx, s.cache, p, cache.OnSaveError(func(err error) {
		s.logger.Warn().Err(err).Msg("failed to cache table")
	}))
}

func (s *Server) qibla(c *gin.Context) {
	lat, lon, err := coordinates(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	res, err := qibla.Direction(lat, lon)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

type methodInfo struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	FajrAngle   float64 `json:"fajrAngle"`
	IshaAngle   float64 `json:"ishaAngle,omitempty"`
	IshaMinutes float64 `json:"ishaMinutes,omitempty"`
}

func (s *Server) methods(c *gin.Context) {
	var out []methodInfo
	for _, m := range prayer.Methods() {
		mp := m.Params()
		out = append(out, methodInfo{
			ID:          int(m),
			Name:        mp.Name,
			Description: mp.Description,
			FajrAngle:   mp.FajrAngle,
			IshaAngle:   mp.IshaAngle,
			IshaMinutes: mp.IshaMinutes,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) healthz(c *gin.Context) {
	if p, ok := s.cache.(pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func coordinates(c *gin.Context) (float64, float64, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, errors.New("lat and lon parameters are required")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid latitude %q", prayer.ErrInvalidCoordinates, latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid longitude %q", prayer.ErrInvalidCoordinates, lonStr)
	}
	return lat, lon, nil
}

func queryFloat(c *gin.Context, key string, def float64) (float64, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
