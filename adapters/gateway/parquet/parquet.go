package parquet

import (
	"context"
	"errors"
	"os"
	"sync"

	pq "github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/factorysim/mfg-telemetry-g/model"
)

type ParquetConfig struct {
	Path string `yaml:"Path"`
}

// eventRow is the flat parquet shape of one event. Timestamps are stored as
// unix milliseconds.
type eventRow struct {
	ID                string  `parquet:"id"`
	AssetID           string  `parquet:"asset_id"`
	ProductID         string  `parquet:"product_id"`
	BatchID           string  `parquet:"batch_id"`
	Vibration         float64 `parquet:"vibration"`
	Temperature       float64 `parquet:"temperature"`
	Humidity          float64 `parquet:"humidity"`
	Speed             float64 `parquet:"speed"`
	DefectProbability float64 `parquet:"defect_probability"`
	Timestamp         int64   `parquet:"timestamp"`
}

// Parquet streams events into a single parquet file, the shape the lakehouse
// ingestion jobs expect. Rows are flushed on Close when the context ends.
type Parquet struct {
	mu     sync.Mutex
	file   *os.File
	writer *pq.Writer
	rows   int64
	logger zerolog.Logger
}

func NewParquet(ctx context.Context, wg *sync.WaitGroup, conf ParquetConfig) (*Parquet, error) {
	file, err := os.Create(conf.Path)
	if err != nil {
		return nil, errors.Join(err, errors.New("failed to create parquet file"))
	}

	p := &Parquet{
		file:   file,
		writer: pq.NewWriter(file, pq.SchemaOf(eventRow{})),
		logger: zerolog.New(os.Stdout).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
	}

	wg.Add(1)
	go func() {
		<-ctx.Done()
		if err := p.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close parquet stream")
		}
		wg.Done()
	}()

	return p, nil
}

func (p *Parquet) SendEvents(events model.Events) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return errors.New("parquet stream is closed")
	}

	for _, e := range events.Events {
		row := eventRow{
			ID:                e.ID,
			AssetID:           e.AssetID,
			ProductID:         e.ProductID,
			BatchID:           e.BatchID,
			Vibration:         e.Vibration,
			Temperature:       e.Temperature,
			Humidity:          e.Humidity,
			Speed:             e.Speed,
			DefectProbability: e.DefectProbability,
			Timestamp:         e.Timestamp.UnixMilli(),
		}
		if err := p.writer.Write(row); err != nil {
			return errors.Join(err, errors.New("failed to write parquet row"))
		}
		p.rows++
	}

	return nil
}

// Close finalizes the parquet footer and the underlying file.
func (p *Parquet) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}

	if err := p.writer.Close(); err != nil {
		return errors.Join(err, errors.New("failed to close parquet writer"))
	}
	p.writer = nil
	p.logger.Info().Int64("rows", p.rows).Msg("closed parquet stream")

	return p.file.Close()
}
