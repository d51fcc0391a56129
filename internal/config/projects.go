// Package config loads the static project configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"bridge-tvl/internal/domain"
)

// LoadProjects reads a JSON array of project definitions. Bridge addresses
// are normalized to lowercase so record lookups never depend on the
// checksum casing used in the file.
func LoadProjects(path string) ([]domain.ProjectInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}

	var projects []domain.ProjectInfo
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse projects file: %w", err)
	}

	if err := validateProjects(projects); err != nil {
		return nil, err
	}

	for i := range projects {
		for j := range projects[i].Bridges {
			bridge := &projects[i].Bridges[j]
			bridge.Address = domain.NewEthereumAddress(string(bridge.Address))
			for k := range bridge.Tokens {
				bridge.Tokens[k].Address = domain.NewEthereumAddress(string(bridge.Tokens[k].Address))
			}
		}
	}
	return projects, nil
}

func validateProjects(projects []domain.ProjectInfo) error {
	seen := make(map[domain.ProjectID]bool)
	for _, p := range projects {
		if p.ProjectID == "" {
			return fmt.Errorf("project %q has no project id", p.Name)
		}
		if seen[p.ProjectID] {
			return fmt.Errorf("duplicate project id %q", p.ProjectID)
		}
		seen[p.ProjectID] = true

		for _, b := range p.Bridges {
			addr := strings.ToLower(string(b.Address))
			if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
				return fmt.Errorf("project %q: invalid bridge address %q", p.ProjectID, b.Address)
			}
		}
	}
	return nil
}
