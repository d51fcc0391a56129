package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProjects(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write projects file: %v", err)
	}
	return path
}

func TestLoadProjects(t *testing.T) {
	path := writeProjects(t, `[
		{
			"name": "Arbitrum",
			"projectId": "arbitrum",
			"bridges": [
				{
					"address": "0xAAAA000000000000000000000000000000000001",
					"sinceBlock": 100,
					"tokens": [
						{"assetId": "eth", "address": "0x0000000000000000000000000000000000000000", "coinId": "ethereum"}
					]
				}
			],
			"syntheticTokens": [
				{"assetId": "op", "coinId": "optimism", "balance": 1000}
			]
		}
	]`)

	projects, err := LoadProjects(path)
	if err != nil {
		t.Fatalf("LoadProjects failed: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("Expected 1 project, got %d", len(projects))
	}
	p := projects[0]
	if p.ProjectID != "arbitrum" || len(p.Bridges) != 1 {
		t.Errorf("Unexpected project: %+v", p)
	}
	if got := string(p.Bridges[0].Address); got != "0xaaaa000000000000000000000000000000000001" {
		t.Errorf("Bridge address not lowercased: %s", got)
	}
	if len(p.SyntheticTokens) != 1 || p.SyntheticTokens[0].Balance != 1000 {
		t.Errorf("Unexpected synthetic tokens: %+v", p.SyntheticTokens)
	}
}

func TestLoadProjects_MissingFile(t *testing.T) {
	if _, err := LoadProjects(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadProjects_InvalidJSON(t *testing.T) {
	path := writeProjects(t, `{not json`)
	if _, err := LoadProjects(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadProjects_DuplicateID(t *testing.T) {
	path := writeProjects(t, `[
		{"name": "A", "projectId": "x", "bridges": []},
		{"name": "B", "projectId": "x", "bridges": []}
	]`)
	if _, err := LoadProjects(path); err == nil {
		t.Error("Expected error for duplicate project id")
	}
}

func TestLoadProjects_BadBridgeAddress(t *testing.T) {
	path := writeProjects(t, `[
		{"name": "A", "projectId": "x", "bridges": [{"address": "not-an-address", "tokens": []}]}
	]`)
	if _, err := LoadProjects(path); err == nil {
		t.Error("Expected error for invalid bridge address")
	}
}
