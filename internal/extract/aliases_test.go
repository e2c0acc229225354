package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAliasesDefaults(t *testing.T) {
	aliases, err := LoadAliases("")
	if err != nil {
		t.Fatal(err)
	}
	if !matchAlias("포장재정보", aliases.PackingStart) || !matchAlias("Component Info.", aliases.PackingStart) {
		t.Fatal("default packing start aliases missing")
	}
	if aliases.OptimumCapacityCode != "TMM202" {
		t.Fatalf("optimum capacity code %q", aliases.OptimumCapacityCode)
	}
}

func TestLoadAliasesOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	blob := []byte(`{"packing_start": ["包装信息"], "optimum_capacity_code": "TMM999"}`)
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatal(err)
	}
	if !matchAlias("包装信息", aliases.PackingStart) {
		t.Fatal("override not applied")
	}
	if matchAlias("포장재정보", aliases.PackingStart) {
		t.Fatal("override should replace the set")
	}
	if aliases.OptimumCapacityCode != "TMM999" {
		t.Fatalf("optimum capacity code %q", aliases.OptimumCapacityCode)
	}
	// untouched sets keep their defaults
	if !matchAlias("시험코드", aliases.ExperimentStart) {
		t.Fatal("default experiment aliases lost")
	}
}

func TestLoadAliasesMissingFile(t *testing.T) {
	if _, err := LoadAliases(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMatchAliasExact(t *testing.T) {
	set := []string{"결재", "Approval"}
	if !matchAlias("결재", set) {
		t.Fatal("exact match failed")
	}
	if matchAlias("결재란", set) {
		t.Fatal("partial text must not match")
	}
}
