package etl

import (
	"sort"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// AggregateResult is the output of the datamart aggregator: the two
// summary sets appended into the datamart tables.  A run over an empty
// fact history produces an empty (not nil-error) result; callers must
// check Empty before loading downstream.
type AggregateResult struct {
	Daily []model.DailyRevenue
	Top   []model.TopMovie
}

// Empty reports whether the aggregator had no facts to work with.
func (a AggregateResult) Empty() bool {
	return len(a.Daily) == 0 && len(a.Top) == 0
}

// Aggregate recomputes the daily-revenue and top-movies summaries from the
// entire fact history.  Daily rows group facts by (movie_name, full_date)
// and sum the three measures; top rows group by movie_name, sum the same
// measures, then receive a 1-based ranking by descending total revenue.
// The sort is stable, so ties keep their original iteration order.  Groups
// appear in first-seen fact order.
func Aggregate(facts []model.FactRow) AggregateResult {
	var res AggregateResult
	if len(facts) == 0 {
		return res
	}

	type dailyKey struct {
		movie string
		date  string
	}
	dailyIdx := make(map[dailyKey]int)
	topIdx := make(map[string]int)

	for _, f := range facts {
		dk := dailyKey{movie: f.MovieName, date: f.FullDate.Format("2006-01-02")}
		if i, ok := dailyIdx[dk]; ok {
			res.Daily[i].RevenueVND += f.RevenueVND
			res.Daily[i].TicketsSold += f.TicketsSold
			res.Daily[i].Showtimes += f.Showtimes
		} else {
			dailyIdx[dk] = len(res.Daily)
			res.Daily = append(res.Daily, model.DailyRevenue{
				MovieName:   f.MovieName,
				FullDate:    f.FullDate,
				RevenueVND:  f.RevenueVND,
				TicketsSold: f.TicketsSold,
				Showtimes:   f.Showtimes,
			})
		}

		if i, ok := topIdx[f.MovieName]; ok {
			res.Top[i].TotalRevenue += f.RevenueVND
			res.Top[i].TotalTickets += f.TicketsSold
			res.Top[i].TotalShowtimes += f.Showtimes
		} else {
			topIdx[f.MovieName] = len(res.Top)
			res.Top = append(res.Top, model.TopMovie{
				MovieName:      f.MovieName,
				TotalRevenue:   f.RevenueVND,
				TotalTickets:   f.TicketsSold,
				TotalShowtimes: f.Showtimes,
			})
		}
	}

	sort.SliceStable(res.Top, func(i, j int) bool {
		return res.Top[i].TotalRevenue > res.Top[j].TotalRevenue
	})
	for i := range res.Top {
		res.Top[i].Ranking = i + 1
	}
	return res
}
