package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/piwi3910/CargoStack/internal/model"
)

// PlanFormatVersion is written into every plan file. Files with a different
// major version are rejected on load.
const PlanFormatVersion = "1.0.0"

// PlanFile is the on-disk envelope of a saved plan.
type PlanFile struct {
	Version string     `json:"version"`
	SavedAt string     `json:"saved_at"`
	Plan    model.Plan `json:"plan"`
}

// SavePlan writes the plan to path as versioned JSON.
func SavePlan(path string, plan model.Plan) error {
	file := PlanFile{
		Version: PlanFormatVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Plan:    plan,
	}
	return writeJSON(path, file)
}

// LoadPlan reads a plan file and checks it before handing it out: the
// version must be compatible, the settings valid, and any stored result
// must satisfy the placement invariants.
func LoadPlan(path string) (model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var file PlanFile
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Plan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if file.Version == "" {
		return model.Plan{}, fmt.Errorf("invalid plan file: missing version field")
	}
	if major(file.Version) != major(PlanFormatVersion) {
		return model.Plan{}, fmt.Errorf("unsupported plan file version %s (expected %s)", file.Version, PlanFormatVersion)
	}

	plan := file.Plan
	if plan.Items == nil {
		plan.Items = []model.Item{}
	}
	if err := plan.Settings.Validate(); err != nil {
		return model.Plan{}, fmt.Errorf("plan %q: invalid settings: %w", plan.Name, err)
	}
	if plan.Result != nil {
		if err := model.ValidatePlan(plan.Result.Containers, plan.Result.Size); err != nil {
			return model.Plan{}, fmt.Errorf("plan %q: %w", plan.Name, err)
		}
	}
	return plan, nil
}

func major(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}
