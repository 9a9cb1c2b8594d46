package etl

import (
	"strings"

	"github.com/minhlq/boxoffice-etl/internal/model"
	"github.com/minhlq/boxoffice-etl/internal/normalize"
)

// Transform converts the raw staging generation into typed cleaned
// records: film names are trimmed, the three numeric columns are
// normalized (malformed text becomes 0, never an error) and the scraped
// date is carried through.  An empty staging table returns ErrNoData,
// which is distinct from a present-but-zero-row result: the former means
// there is nothing to transform, the latter never occurs on the success
// path.
func Transform(raw []model.RawRecord) ([]model.CleanedRecord, error) {
	if len(raw) == 0 {
		return nil, ErrNoData
	}
	cleaned := make([]model.CleanedRecord, 0, len(raw))
	for _, r := range raw {
		cleaned = append(cleaned, model.CleanedRecord{
			FilmName:    strings.TrimSpace(r.FilmName),
			Revenue:     normalize.Money(r.RevenueRaw),
			Tickets:     normalize.TicketCount(r.TicketsRaw),
			Showtimes:   normalize.ShowtimeCount(r.ShowtimesRaw),
			ScrapedDate: r.ScrapedDate,
		})
	}
	return cleaned, nil
}
