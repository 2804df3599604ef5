package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerLive(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	start := At(now.Add(-time.Hour))
	end := At(now.Add(time.Hour))

	b := Banner{IsActive: true}
	assert.True(t, b.Live(now), "no window means always live while active")

	b.IsActive = false
	assert.False(t, b.Live(now))

	b = Banner{IsActive: true, StartDate: &start, EndDate: &end}
	assert.True(t, b.Live(now))
	assert.False(t, b.Live(start.Time.Add(-time.Minute)))
	assert.False(t, b.Live(end.Time.Add(time.Minute)))
}

func TestBannerCreateValidate(t *testing.T) {
	good := BannerCreate{Title: "Diwali Special", ImageURL: "https://cdn/img.jpg"}
	assert.NoError(t, good.Validate())

	assert.Error(t, (&BannerCreate{ImageURL: "x"}).Validate())
	assert.Error(t, (&BannerCreate{Title: "x"}).Validate())
}
