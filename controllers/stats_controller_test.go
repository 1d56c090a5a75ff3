package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/applytrack/applytrack/storage"
	"github.com/applytrack/applytrack/tracker"
	"github.com/applytrack/applytrack/utils"
)

func TestStatsCacheKeyFollowsTrackerClock(t *testing.T) {
	past := time.Date(2023, 1, 31, 23, 0, 0, 0, time.UTC)
	tr := tracker.New(storage.NewMemoryStore(), tracker.WithClock(func() time.Time { return past }))
	s := NewStatsController(tr, time.Minute)

	assert.Equal(t, utils.StatsCachePrefix+"summary:2023-01-31", s.cacheKey("summary"))

	kolkata := time.FixedZone("IST", 5*3600+1800)
	tr = tracker.New(storage.NewMemoryStore(), tracker.WithClock(func() time.Time { return past }), tracker.WithLocation(kolkata))
	s = NewStatsController(tr, time.Minute)

	assert.Equal(t, utils.StatsCachePrefix+"salary:2023-02-01", s.cacheKey("salary"))
}
