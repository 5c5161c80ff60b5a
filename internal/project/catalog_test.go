package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CargoStack/internal/model"
)

func TestLoadCatalogCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "containers.json")

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(cat.Containers) != len(model.DefaultCatalog().Containers) {
		t.Errorf("expected default presets, got %d", len(cat.Containers))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default catalog should be written: %v", err)
	}

	again, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("second LoadCatalog failed: %v", err)
	}
	if again.Containers[0].ID != cat.Containers[0].ID {
		t.Error("second load should read the saved ids")
	}
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "containers.json")
	cat := model.Catalog{Containers: []model.ContainerPreset{
		model.NewContainerPreset("Swap body", 7450, 2480, 2650, 16000, "c745"),
	}}

	if err := SaveCatalog(path, cat); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}
	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	p := loaded.Find("c745")
	if p == nil {
		t.Fatal("saved preset not found by alias")
	}
	if p.Size != (model.ContainerSize{Length: 7450, Width: 2480, Height: 2650}) {
		t.Errorf("size not preserved: %+v", p.Size)
	}
}

func TestLoadCatalogInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "containers.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestImportCatalogMerges(t *testing.T) {
	dir := t.TempDir()
	existing := model.DefaultCatalog()

	src := filepath.Join(dir, "import.json")
	extra := model.Catalog{Containers: []model.ContainerPreset{
		existing.Containers[0],
		model.NewContainerPreset("Flat rack", 5600, 2200, 2200, 30000),
	}}
	if err := SaveCatalog(src, extra); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportCatalog(src, existing)
	if err != nil {
		t.Fatalf("ImportCatalog failed: %v", err)
	}
	if len(merged.Containers) != len(existing.Containers)+1 {
		t.Errorf("expected one new preset, got %d total", len(merged.Containers))
	}

	if _, err := ImportCatalog(filepath.Join(dir, "missing.json"), existing); err == nil {
		t.Error("expected error for missing import file")
	}
}
