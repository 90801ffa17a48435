// Package templates renders the self-contained prediction dashboard. The
// page lives in dashboard.templ; run `templ generate` after editing it.
//
// The document carries its data as a JSON script element (see DataScriptID)
// which the inline client script parses to populate the region selector and
// draw the price and sales charts. All regions ship in the one document;
// switching regions is purely client-side.
package templates

import (
	"encoding/json"
	"fmt"
	"regexp"

	"energy-forecast/internal/models"
)

// DataScriptID is the id of the script element holding the JSON payload.
const DataScriptID = "dashboard-data"

const DefaultTitle = "Electricity Market Prediction Dashboard"

type Page struct {
	Title           string
	ChartLibraryURL string
	DefaultRegion   string
	Data            models.DashboardData
}

func (p Page) title() string {
	if p.Title == "" {
		return DefaultTitle
	}
	return p.Title
}

var payloadPattern = regexp.MustCompile(`(?s)<script[^>]*\bid="` + DataScriptID + `"[^>]*>(.*?)</script>`)

// ExtractData parses the embedded payload back out of a rendered document.
func ExtractData(document []byte) (models.DashboardData, error) {
	var data models.DashboardData

	match := payloadPattern.FindSubmatch(document)
	if match == nil {
		return data, fmt.Errorf("no %q script element in document", DataScriptID)
	}
	if err := json.Unmarshal(match[1], &data); err != nil {
		return data, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}
