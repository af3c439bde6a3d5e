package region

import (
	"encoding/json"
	"os"
)

// District is a named point location within a region.
type District struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type districtDocument struct {
	Districts []District `json:"districts"`
}

// LoadDistricts reads a per-region district definition document.
func LoadDistricts(path string) ([]District, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc districtDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Districts, nil
}
