package parquet

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pq "github.com/parquet-go/parquet-go"

	"github.com/factorysim/mfg-telemetry-g/model"
)

func testEvents() model.Events {
	return model.Events{Events: []model.Event{
		{
			ID: "e-1", AssetID: "a-1", ProductID: "p-1", BatchID: "b-1",
			Vibration: 0.42, Temperature: 31.07, Humidity: 55.5, Speed: 48.12,
			DefectProbability: 0.03,
			Timestamp:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "e-2", AssetID: "a-1", ProductID: "p-1", BatchID: "b-1",
			Vibration: 0.95, Temperature: 52.3, Humidity: 60.1, Speed: 61.4,
			DefectProbability: 0.31,
			Timestamp:         time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
		},
	}}
}

func TestSendEventsWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.parquet")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	p, err := NewParquet(ctx, wg, ParquetConfig{Path: path})
	if err != nil {
		t.Fatalf("open parquet sink: %v", err)
	}

	if err := p.SendEvents(testEvents()); err != nil {
		t.Fatalf("send events: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close sink: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		t.Fatalf("stat written file: %v", err)
	}

	pf, err := pq.OpenFile(f, st.Size())
	if err != nil {
		t.Fatalf("parquet footer invalid: %v", err)
	}
	if pf.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", pf.NumRows())
	}
}

func TestSendEventsAfterCloseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.parquet")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	p, err := NewParquet(ctx, wg, ParquetConfig{Path: path})
	if err != nil {
		t.Fatalf("open parquet sink: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close sink: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
	if err := p.SendEvents(testEvents()); err == nil {
		t.Fatal("expected error writing to a closed stream")
	}
}
