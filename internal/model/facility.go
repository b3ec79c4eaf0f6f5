package model

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed facilities.yaml
var builtinFacilitiesYAML []byte

// FacilitySpec is a static catalog entry for a buildable facility type.
// Specs are fixed at process start and never derived from external data.
type FacilitySpec struct {
	ID               int     `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	Cost             int     `json:"cost" yaml:"cost"`
	EnergyEfficiency int     `json:"energy_efficiency" yaml:"energy_efficiency"`
	Capacity         int     `json:"capacity" yaml:"capacity"`
	CarbonImpact     float64 `json:"carbon_impact" yaml:"carbon_impact"`
	Description      string  `json:"description" yaml:"description"`
}

type facilityFile struct {
	Facilities []FacilitySpec `yaml:"facilities"`
}

// BuiltinFacilities returns the embedded facility catalog.
func BuiltinFacilities() []FacilitySpec {
	specs, err := parseFacilities(builtinFacilitiesYAML)
	if err != nil {
		// The embedded catalog is validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return specs
}

// LoadFacilities reads a facility catalog from a YAML file, falling back to
// the embedded catalog when path is empty.
func LoadFacilities(path string) ([]FacilitySpec, error) {
	if path == "" {
		return BuiltinFacilities(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read facilities %s", path)
	}
	return parseFacilities(data)
}

func parseFacilities(data []byte) ([]FacilitySpec, error) {
	var f facilityFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "model: parse facilities")
	}
	if len(f.Facilities) == 0 {
		return nil, eris.New("model: facility catalog is empty")
	}
	for _, spec := range f.Facilities {
		if spec.Cost <= 0 {
			return nil, eris.Errorf("model: facility %q has non-positive cost", spec.Name)
		}
		if spec.EnergyEfficiency < 0 || spec.EnergyEfficiency > 100 {
			return nil, eris.Errorf("model: facility %q efficiency out of range", spec.Name)
		}
	}
	return f.Facilities, nil
}

// FacilityByID looks up a facility spec by id.
func FacilityByID(specs []FacilitySpec, id int) (FacilitySpec, bool) {
	for _, spec := range specs {
		if spec.ID == id {
			return spec, true
		}
	}
	return FacilitySpec{}, false
}
