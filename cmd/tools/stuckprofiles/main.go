// stuckprofiles lists profiles left in the processing state (an insert whose
// completion update never landed) and can mark them as errored. The service
// never reconciles these rows on its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"cv-parser/internal/storage"
)

func main() {
	var olderThan time.Duration
	var markError bool
	var limit int
	flag.DurationVar(&olderThan, "older-than", time.Hour, "Only consider rows stuck for at least this long")
	flag.BoolVar(&markError, "mark-error", false, "Transition the stuck rows to process_status = 'error'")
	flag.IntVar(&limit, "limit", 200, "Max number of rows to process in one run")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	db, err := storage.NewDB(dbURL)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	q := `SELECT id, file_name, created_at FROM cv_profiles
	      WHERE process_status = $1 AND created_at < $2
	      ORDER BY created_at LIMIT $3`
	cutoff := time.Now().Add(-olderThan)
	rows, err := db.GetConnection().QueryContext(ctx, q, storage.StatusProcessing, cutoff, limit)
	if err != nil {
		logger.Fatal("query failed", zap.Error(err))
	}
	defer rows.Close()

	type stuckRow struct {
		id        string
		fileName  *string
		createdAt time.Time
	}
	var stuck []stuckRow
	for rows.Next() {
		var r stuckRow
		if err := rows.Scan(&r.id, &r.fileName, &r.createdAt); err != nil {
			logger.Fatal("scan failed", zap.Error(err))
		}
		stuck = append(stuck, r)
	}
	if err := rows.Err(); err != nil {
		logger.Fatal("iteration failed", zap.Error(err))
	}

	if len(stuck) == 0 {
		fmt.Println("no stuck profiles")
		return
	}

	for _, r := range stuck {
		name := ""
		if r.fileName != nil {
			name = *r.fileName
		}
		fmt.Printf("%s\t%s\t%s\n", r.id, r.createdAt.Format(time.RFC3339), name)
	}
	fmt.Printf("%d stuck profile(s)\n", len(stuck))

	if !markError {
		fmt.Println("re-run with -mark-error to transition them to 'error'")
		return
	}

	for _, r := range stuck {
		if _, err := db.UpdateProfile(ctx, r.id, map[string]any{"process_status": storage.StatusError}); err != nil {
			logger.Error("update failed", zap.String("id", r.id), zap.Error(err))
			continue
		}
		logger.Info("marked as error", zap.String("id", r.id))
	}
}
