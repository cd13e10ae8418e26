package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/transitops/rosterd/core/logger"
	"github.com/transitops/rosterd/core/model"
)

// LoadStatus reports how a dataset load went.
type LoadStatus string

const (
	// StatusLoaded means the file existed and produced at least one item.
	StatusLoaded LoadStatus = "loaded"
	// StatusEmpty means the file existed but held no items, or the dataset
	// path was not configured.
	StatusEmpty LoadStatus = "empty"
	// StatusFailed means the file could not be read or parsed.
	StatusFailed LoadStatus = "failed"
)

// DataConfig points at the roster dataset files. All files are JSON arrays.
type DataConfig struct {
	Employees   string `json:"employees"`
	Businesses  string `json:"businesses"`
	Skills      string `json:"skills"`
	Constraints string `json:"constraints"`
	Rules       string `json:"rules"`
}

// Dataset is the fully loaded input of one generation run. Constraints and
// rules degrade to empty sets on load failure; the scheduler proceeds without
// them and reports the problem as a warning.
type Dataset struct {
	Employees   []model.Employee
	Businesses  []model.BusinessDefinition
	Skills      model.SkillMatrix
	Constraints []model.Constraint
	Rules       []model.BusinessRule
	Warnings    []string
}

// LoadDataset reads every dataset file named in the config. Employee and
// business files are required; constraints, rules and skills are optional.
func LoadDataset(cfg DataConfig, log logger.Logger) (*Dataset, error) {
	ds := &Dataset{Skills: model.SkillMatrix{}}

	if err := loadJSONFile(cfg.Employees, &ds.Employees); err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	if err := loadJSONFile(cfg.Businesses, &ds.Businesses); err != nil {
		return nil, fmt.Errorf("load businesses: %w", err)
	}

	if cfg.Skills != "" {
		if err := loadJSONFile(cfg.Skills, &ds.Skills); err != nil {
			return nil, fmt.Errorf("load skills: %w", err)
		}
	}

	var status LoadStatus
	ds.Constraints, status = loadConstraints(cfg.Constraints)
	if status == StatusFailed {
		log.Warnf("constraints dataset %s failed to load, continuing without constraints", cfg.Constraints)
		ds.Warnings = append(ds.Warnings, "constraints dataset failed to load")
	}
	ds.Rules, status = loadRules(cfg.Rules)
	if status == StatusFailed {
		log.Warnf("rules dataset %s failed to load, continuing without rules", cfg.Rules)
		ds.Warnings = append(ds.Warnings, "rules dataset failed to load")
	}
	return ds, nil
}

// loadConstraints never fails hard: a broken file yields an empty set.
func loadConstraints(path string) ([]model.Constraint, LoadStatus) {
	if path == "" {
		return nil, StatusEmpty
	}
	var items []model.Constraint
	if err := loadJSONFile(path, &items); err != nil {
		return nil, StatusFailed
	}
	if len(items) == 0 {
		return nil, StatusEmpty
	}
	return items, StatusLoaded
}

// loadRules mirrors loadConstraints for business rules.
func loadRules(path string) ([]model.BusinessRule, LoadStatus) {
	if path == "" {
		return nil, StatusEmpty
	}
	var items []model.BusinessRule
	if err := loadJSONFile(path, &items); err != nil {
		return nil, StatusFailed
	}
	if len(items) == 0 {
		return nil, StatusEmpty
	}
	return items, StatusLoaded
}

func loadJSONFile(path string, out any) error {
	if path == "" {
		return fmt.Errorf("path not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
