// Command lead-import reads a vendor CSV feed and runs it through the
// import reconciler. Intended for cron-driven bulk loads outside the API.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/service"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/internal/events"
	"akquise_backend/platform/config"
	"akquise_backend/platform/db"
	"akquise_backend/platform/logger"
)

func main() {
	filePath := flag.String("file", "", "path to the vendor CSV feed")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: lead-import -file <feed.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead import", "file", *filePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	rows, err := readFeed(*filePath)
	if err != nil {
		log.Error("failed to read feed", "error", err)
		panic("failed to read feed: " + err.Error())
	}
	if len(rows) == 0 {
		log.Info("feed is empty, nothing to import")
		return
	}

	bus := events.NewInMemoryBus(log)
	svc := service.New(repository.New(pool), log, bus, nil, nil, cfg.GetImportBatchSize())

	summary, err := svc.ImportBatch(ctx, transport.ImportBatchRequest{Rows: rows})
	if err != nil {
		log.Error("import failed", "error", err)
		panic("import failed: " + err.Error())
	}

	log.Info("import finished",
		"batch_id", summary.BatchID.String(),
		"imported", summary.Imported,
		"duplicates_refreshed", summary.DuplicatesRefreshed,
		"blacklisted_skipped", summary.BlacklistedSkipped,
		"protected_skipped", summary.ProtectedSkipped,
		"errors", summary.Errors,
	)
	for _, detail := range summary.ErrorDetails {
		log.Warn("row failed", "row", detail.Row, "ad_id", detail.AdID, "reason", detail.Reason)
	}
}

// readFeed parses the vendor CSV. The first record is a header naming the
// columns; unknown columns are ignored.
func readFeed(path string) ([]transport.ImportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []transport.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := transport.ImportRow{
			Position:         field("position"),
			AdID:             field("ad_id"),
			PositionID:       field("position_id"),
			JobText:          field("job_text"),
			CompanyName:      field("company_name"),
			Street:           field("street"),
			ZipCode:          field("zip_code"),
			City:             field("city"),
			Industry:         field("industry"),
			ContactFirstName: field("contact_first_name"),
			ContactLastName:  field("contact_last_name"),
			ContactRole:      field("contact_role"),
			ContactPhone:     field("contact_phone"),
			ContactEmail:     field("contact_email"),
			Source:           field("source"),
		}
		if raw := field("employee_count"); raw != "" {
			if count, err := strconv.Atoi(raw); err == nil {
				row.EmployeeCount = &count
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
