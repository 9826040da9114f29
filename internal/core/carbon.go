package core

// emissionFactors maps a category to kilograms of CO2e per won spent.
// Labels beyond the inference vocabulary (여행, 음식점, ...) are carried for
// callers that pass through externally supplied category text.
var emissionFactors = map[Category]float64{
	CategoryFlight:   0.00060,
	"여행":             0.00060,
	CategoryTaxi:     0.00018,
	CategoryTransit:  0.00012,
	"버스":             0.00012,
	"지하철":            0.00010,
	CategoryCafe:     0.00012,
	"음식점":            0.00012,
	CategoryKorean:   0.00012,
	CategoryDelivery: 0.00015,
	CategoryGrocery:  0.00008,
	"마트":             0.00008,
	CategoryFashion:  0.00020,
	"의류":             0.00020,
	CategoryOnline:   0.00009,
	CategoryCulture:  0.00006,
	CategoryHospital: 0.00006,
	CategoryOther:    0.00005,
}

// EmissionFactor returns the kgCO2e-per-won factor for a category, falling
// back to the catch-all factor for unknown labels.
func EmissionFactor(cat Category) float64 {
	if f, ok := emissionFactors[cat]; ok {
		return f
	}
	return emissionFactors[CategoryOther]
}

// EstimateEmission converts a month's spending distribution into estimated
// kilograms of CO2e: totalAmount * Σ ratio[c] * factor[c].
func EstimateEmission(totalAmount float64, ratios map[Category]float64) float64 {
	var total float64
	for cat, ratio := range ratios {
		total += totalAmount * ratio * EmissionFactor(cat)
	}
	return total
}
