package simulation

import (
	"errors"
	"testing"
)

func TestTypesContainsTheFourCategories(t *testing.T) {
	types := Types()
	for _, name := range []string{"Assembly", "Press", "Conveyor", "Packaging"} {
		at, ok := types[name]
		if !ok {
			t.Fatalf("catalog missing %q", name)
		}
		if at.Name != name {
			t.Fatalf("catalog key %q holds type named %q", name, at.Name)
		}
	}
	if len(types) != 4 {
		t.Fatalf("expected 4 types, got %d", len(types))
	}
}

func TestPressCalibration(t *testing.T) {
	at, err := TypeByName("Press")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if at.Vibration.Min != 0.2 || at.Vibration.Max != 0.8 {
		t.Fatalf("unexpected vibration range: %+v", at.Vibration)
	}
	if at.Temperature.Min != 25 || at.Temperature.Max != 45 {
		t.Fatalf("unexpected temperature range: %+v", at.Temperature)
	}
	if at.Humidity.Min != 30 || at.Humidity.Max != 70 {
		t.Fatalf("unexpected humidity range: %+v", at.Humidity)
	}
	if at.Speed.Min != 20 || at.Speed.Max != 60 {
		t.Fatalf("unexpected speed range: %+v", at.Speed)
	}
}

func TestTypesReturnsACopy(t *testing.T) {
	types := Types()
	delete(types, "Press")
	types["Assembly"] = AssetType{Name: "tampered"}

	fresh := Types()
	if _, ok := fresh["Press"]; !ok {
		t.Fatal("catalog lost Press after caller mutation")
	}
	if fresh["Assembly"].Name != "Assembly" {
		t.Fatalf("catalog entry tampered: %+v", fresh["Assembly"])
	}
}

func TestTypeByNameUnknown(t *testing.T) {
	_, err := TypeByName("Furnace")
	if !errors.Is(err, ErrUnknownAssetType) {
		t.Fatalf("expected ErrUnknownAssetType, got %v", err)
	}
}

func TestTypeMapCoversExampleAssets(t *testing.T) {
	want := map[string]string{
		"Robotic Arm":     "Assembly",
		"Automated Press": "Press",
		"Conveyor Belt":   "Conveyor",
		"Packaging Line":  "Packaging",
	}
	got := TypeMap()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for name, typ := range want {
		if got[name] != typ {
			t.Fatalf("asset %q mapped to %q, want %q", name, got[name], typ)
		}
	}

	// every mapped type must resolve in the type catalog
	for name, typ := range got {
		if _, err := TypeByName(typ); err != nil {
			t.Fatalf("asset %q maps to unknown type %q", name, typ)
		}
	}
}

func TestTypeMapReturnsACopy(t *testing.T) {
	m := TypeMap()
	m["Robotic Arm"] = "Furnace"
	if TypeMap()["Robotic Arm"] != "Assembly" {
		t.Fatal("type map mutated through caller copy")
	}
}
