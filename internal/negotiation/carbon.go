// Package negotiation implements the multi-round negotiation engine:
// ranking, sustainability accounting, outcome classification, and the
// orchestrator that drives buyer and seller agents round by round.
package negotiation

import (
	"fmt"
	"math"
	"strings"
)

// Industry average carbon footprints by product category (kg CO2 per
// unit). A coarse keyword heuristic, not a real emissions database.
const (
	avgDefault     = 30.0
	avgToothbrush  = 25.0
	avgShoes       = 35.0
	avgElectronics = 50.0
	avgClothing    = 20.0
	avgFurniture   = 60.0
)

// Average car emits ~0.4 kg CO2 per mile.
const co2PerMileDriven = 0.4

// IndustryAverage returns the per-unit industry average carbon footprint
// for a product, matched by name substring.
func IndustryAverage(productName string) float64 {
	p := strings.ToLower(productName)

	switch {
	case strings.Contains(p, "toothbrush"):
		return avgToothbrush
	case strings.Contains(p, "shoe") || strings.Contains(p, "sneaker"):
		return avgShoes
	case strings.Contains(p, "electronic") || strings.Contains(p, "laptop") || strings.Contains(p, "phone"):
		return avgElectronics
	case strings.Contains(p, "shirt") || strings.Contains(p, "clothing") || strings.Contains(p, "apparel"):
		return avgClothing
	case strings.Contains(p, "furniture") || strings.Contains(p, "chair") || strings.Contains(p, "desk"):
		return avgFurniture
	}
	return avgDefault
}

// CarbonSavings returns the per-unit savings versus the industry average,
// never negative.
func CarbonSavings(offerCarbon, averageCarbon float64) float64 {
	return math.Max(0, averageCarbon-offerCarbon)
}

// CarbonToMiles converts kg CO2 into equivalent miles not driven.
func CarbonToMiles(kgCO2 float64) int {
	return int(math.Round(kgCO2 / co2PerMileDriven))
}

// CarbonReduction returns the percentage reduction versus the average.
func CarbonReduction(offerCarbon, averageCarbon float64) int {
	if averageCarbon == 0 {
		return 0
	}
	return int(math.Round((averageCarbon - offerCarbon) / averageCarbon * 100))
}

// CarbonComparison renders a relatable framing for a savings figure.
func CarbonComparison(kgCO2 float64) string {
	miles := CarbonToMiles(kgCO2)

	switch {
	case miles > 500:
		return fmt.Sprintf("Not driving %d miles - that's like a road trip from SF to LA!", miles)
	case miles > 100:
		return fmt.Sprintf("Not driving %d miles - that's like a weekend getaway!", miles)
	case miles > 50:
		return fmt.Sprintf("Not driving %d miles - that's like your daily commute for a week!", miles)
	case miles > 10:
		return fmt.Sprintf("Not driving %d miles", miles)
	default:
		return fmt.Sprintf("Saving %.0fkg CO2", kgCO2)
	}
}
