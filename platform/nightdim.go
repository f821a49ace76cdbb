package platform

import (
	"log/slog"
	"time"

	"github.com/nathan-osman/go-sunrise"

	c "lautenbacher.net/gestureleds/config"
)

// nightDimmer scales the brightness down between sunset and sunrise at
// the configured location.
type nightDimmer struct {
	enabled   bool
	latitude  float64
	longitude float64
	factor    float64
	night     bool
	checked   bool
}

func newNightDimmer(cfg c.NightDimConfig) *nightDimmer {
	return &nightDimmer{
		enabled:   cfg.Enabled,
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
		factor:    cfg.Factor,
	}
}

func (s *nightDimmer) isNight(now time.Time) bool {
	rise, set := sunrise.SunriseSunset(s.latitude, s.longitude, now.Year(), now.Month(), now.Day())
	if rise.IsZero() || set.IsZero() {
		// polar day or night; go-sunrise reports neither
		return false
	}
	return now.Before(rise) || !now.Before(set)
}

// scale returns level, dimmed by factor at night.
func (s *nightDimmer) scale(level uint8, now time.Time) uint8 {
	if !s.enabled {
		return level
	}
	night := s.isNight(now)
	if !s.checked || night != s.night {
		slog.Info("Night dimming", "night", night, "factor", s.factor)
		s.night = night
		s.checked = true
	}
	if !night {
		return level
	}
	return uint8(float64(level)*s.factor + 0.5)
}
