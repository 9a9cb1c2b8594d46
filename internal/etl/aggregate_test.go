package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

func day(d int) time.Time {
	return time.Date(2025, 11, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateGroupsAndSums(t *testing.T) {
	facts := []model.FactRow{
		{MovieName: "Mai", FullDate: day(17), RevenueVND: 100, TicketsSold: 10, Showtimes: 1},
		{MovieName: "Mai", FullDate: day(17), RevenueVND: 50, TicketsSold: 5, Showtimes: 1},
		{MovieName: "Mai", FullDate: day(18), RevenueVND: 200, TicketsSold: 20, Showtimes: 2},
		{MovieName: "Quật Mộ Trùng Ma", FullDate: day(18), RevenueVND: 400, TicketsSold: 40, Showtimes: 4},
	}

	agg := Aggregate(facts)
	require.False(t, agg.Empty())

	// Daily rows: one per (movie, date), measures summed.
	require.Len(t, agg.Daily, 3)
	assert.Equal(t, int64(150), agg.Daily[0].RevenueVND)
	assert.Equal(t, int64(15), agg.Daily[0].TicketsSold)

	// Total invariant: the daily sums must equal the fact sums.
	var factTotal, dailyTotal int64
	for _, f := range facts {
		factTotal += f.RevenueVND
	}
	for _, d := range agg.Daily {
		dailyTotal += d.RevenueVND
	}
	assert.Equal(t, factTotal, dailyTotal)
}

func TestAggregateRankingInvariant(t *testing.T) {
	facts := []model.FactRow{
		{MovieName: "A", FullDate: day(17), RevenueVND: 100},
		{MovieName: "B", FullDate: day(17), RevenueVND: 400},
		{MovieName: "C", FullDate: day(17), RevenueVND: 250},
		{MovieName: "B", FullDate: day(18), RevenueVND: 100},
	}

	agg := Aggregate(facts)
	require.Len(t, agg.Top, 3)

	// Rankings form the contiguous sequence 1..N and revenue is
	// non-increasing as ranking increases.
	for i, m := range agg.Top {
		assert.Equal(t, i+1, m.Ranking)
		if i > 0 {
			assert.LessOrEqual(t, m.TotalRevenue, agg.Top[i-1].TotalRevenue)
		}
	}
	assert.Equal(t, "B", agg.Top[0].MovieName)
	assert.Equal(t, int64(500), agg.Top[0].TotalRevenue)
}

func TestAggregateStableTieOrder(t *testing.T) {
	// Equal totals keep first-seen order.
	facts := []model.FactRow{
		{MovieName: "First", FullDate: day(17), RevenueVND: 100},
		{MovieName: "Second", FullDate: day(17), RevenueVND: 100},
		{MovieName: "Third", FullDate: day(17), RevenueVND: 100},
	}

	agg := Aggregate(facts)
	require.Len(t, agg.Top, 3)
	assert.Equal(t, []string{"First", "Second", "Third"},
		[]string{agg.Top[0].MovieName, agg.Top[1].MovieName, agg.Top[2].MovieName})
}

func TestAggregateEmptyFactHistory(t *testing.T) {
	agg := Aggregate(nil)
	assert.True(t, agg.Empty())
	assert.Empty(t, agg.Daily)
	assert.Empty(t, agg.Top)
}

func TestWriteAggregateCSVs(t *testing.T) {
	dir := t.TempDir()
	agg := Aggregate([]model.FactRow{
		{MovieName: "Mai", FullDate: day(18), RevenueVND: 15000000, TicketsSold: 1500, Showtimes: 20},
	})

	dailyPath, topPath, err := WriteAggregateCSVs(dir, agg, day(18))
	require.NoError(t, err)
	assert.FileExists(t, dailyPath)
	assert.FileExists(t, topPath)
	assert.Contains(t, dailyPath, "dm_daily_revenue_18112025.csv")
	assert.Contains(t, topPath, "dm_top_movies_18112025.csv")
}
