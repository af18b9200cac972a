package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/factorysim/mfg-telemetry-g/model"
)

type SqliteConfig struct {
	Path string `yaml:"Path"`
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id                 TEXT PRIMARY KEY,
	asset_id           TEXT NOT NULL,
	product_id         TEXT NOT NULL,
	batch_id           TEXT NOT NULL,
	vibration          REAL NOT NULL,
	temperature        REAL NOT NULL,
	humidity           REAL NOT NULL,
	speed              REAL NOT NULL,
	defect_probability REAL NOT NULL,
	timestamp          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_asset ON events(asset_id, timestamp);
`

// Sqlite persists events into a local database file, one row per event.
type Sqlite struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSqlite(ctx context.Context, wg *sync.WaitGroup, conf SqliteConfig) (*Sqlite, error) {
	db, err := sql.Open("sqlite", conf.Path)
	if err != nil {
		return nil, errors.Join(err, errors.New("failed to open sqlite database"))
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Join(err, errors.New("failed to create events table"))
	}

	s := &Sqlite{
		db:     db,
		logger: zerolog.New(os.Stdout).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
	}

	wg.Add(1)
	go func() {
		<-ctx.Done()
		if err := s.db.Close(); err != nil {
			s.logger.Error().Err(err).Msg("failed to close sqlite database")
		}
		wg.Done()
	}()

	return s, nil
}

func (s *Sqlite) SendEvents(events model.Events) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Join(err, errors.New("failed to begin transaction"))
	}

	for _, e := range events.Events {
		_, err = tx.Exec(
			`INSERT INTO events (id, asset_id, product_id, batch_id, vibration, temperature, humidity, speed, defect_probability, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.AssetID, e.ProductID, e.BatchID,
			e.Vibration, e.Temperature, e.Humidity, e.Speed,
			e.DefectProbability, e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		)
		if err != nil {
			tx.Rollback()
			return errors.Join(err, errors.New("failed to insert event"))
		}
	}

	return tx.Commit()
}

// Count returns the number of persisted events, for stats output.
func (s *Sqlite) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}
