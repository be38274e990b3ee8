// Package seed carries the resources a fresh installation starts with.
package seed

import (
	_ "embed"
	"encoding/json"

	"campus_share/models"
)

//go:embed resources.json
var resourcesJSON []byte

// Resources decodes a fresh copy of the seed set, newest first.
func Resources() ([]models.Resource, error) {
	var rs []models.Resource
	if err := json.Unmarshal(resourcesJSON, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}
