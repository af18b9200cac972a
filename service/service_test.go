package service

import (
	"errors"
	"testing"

	"github.com/factorysim/mfg-telemetry-g/model"
	"github.com/factorysim/mfg-telemetry-g/simulation"
)

type captureGateway struct {
	sent []model.Events
	err  error
}

func (g *captureGateway) SendEvents(events model.Events) error {
	g.sent = append(g.sent, events)
	return g.err
}

func pressAsset() model.Asset {
	return model.Asset{
		ID:                "asset-1",
		SiteID:            1,
		Name:              "Automated Press",
		Type:              "Press",
		SerialNumber:      "SN-PRS-0032",
		MaintenanceStatus: model.StatusOperational,
	}
}

func TestCreateEventSendsOneEvent(t *testing.T) {
	gtw := &captureGateway{}
	svc := NewService(gtw, 42)

	if err := svc.CreateEvent(pressAsset(), "prod-1", "batch-1", false, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gtw.sent) != 1 || len(gtw.sent[0].Events) != 1 {
		t.Fatalf("expected one batch of one event, got %+v", gtw.sent)
	}
	ev := gtw.sent[0].Events[0]
	if ev.AssetID != "asset-1" || ev.ProductID != "prod-1" || ev.BatchID != "batch-1" {
		t.Fatalf("context fields not carried: %+v", ev)
	}
	if ev.DefectProbability < 0 || ev.DefectProbability > 1 {
		t.Fatalf("defect probability out of [0,1]: %v", ev.DefectProbability)
	}
	if ev.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestCreateEventUnknownTypeFails(t *testing.T) {
	gtw := &captureGateway{}
	svc := NewService(gtw, 42)

	asset := pressAsset()
	asset.Type = "Furnace"

	err := svc.CreateEvent(asset, "prod-1", "batch-1", false, 1)
	if !errors.Is(err, simulation.ErrUnknownAssetType) {
		t.Fatalf("expected ErrUnknownAssetType, got %v", err)
	}
	if len(gtw.sent) != 0 {
		t.Fatalf("gateway called despite lookup failure: %+v", gtw.sent)
	}
}

func TestCreateEventSeededReadingsReproduce(t *testing.T) {
	a := &captureGateway{}
	b := &captureGateway{}

	if err := NewService(a, 7).CreateEvent(pressAsset(), "prod-1", "batch-1", true, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewService(b, 7).CreateEvent(pressAsset(), "prod-1", "batch-1", true, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ea, eb := a.sent[0].Events[0], b.sent[0].Events[0]
	if ea.Vibration != eb.Vibration || ea.Temperature != eb.Temperature ||
		ea.Humidity != eb.Humidity || ea.Speed != eb.Speed ||
		ea.DefectProbability != eb.DefectProbability {
		t.Fatalf("seeded services drew different readings:\n%+v\n%+v", ea, eb)
	}
}

func TestCreateEventPropagatesGatewayError(t *testing.T) {
	gtw := &captureGateway{err: errors.New("broker down")}
	svc := NewService(gtw, 42)

	if err := svc.CreateEvent(pressAsset(), "prod-1", "batch-1", false, 1); err == nil {
		t.Fatal("expected gateway error to propagate")
	}
}
