package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// SaveRawCSV writes the extracted records to dir (created if absent) as
// boxoffice_DDMMYYYY.csv, mirroring the raw artifact layout the scrape
// history uses.  The staging table, not the file, is what the transform
// stage reads; the CSV exists for auditing a scrape after the staging
// generation has been replaced.  Returns the path written.
func SaveRawCSV(dir string, records []model.RawRecord, scrapeDate time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "boxoffice_"+scrapeDate.Format("02012006")+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"film_name", "revenue_raw", "tickets_raw", "showtimes_raw"}); err != nil {
		return "", err
	}
	for _, r := range records {
		if err := w.Write([]string{r.FilmName, r.RevenueRaw, r.TicketsRaw, r.ShowtimesRaw}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
