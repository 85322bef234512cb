package calculator

// LitersPerGallon is the US liquid gallon expressed in liters.
const LitersPerGallon = 3.78541

// LitersToGallons converts a volume in liters to US gallons.
func LitersToGallons(liters float64) float64 {
	return liters / LitersPerGallon
}

// GallonsToLiters converts a volume in US gallons to liters.
func GallonsToLiters(gallons float64) float64 {
	return gallons * LitersPerGallon
}

// RemainingLiters returns the propane left in the tank, rounded to one decimal.
// It returns nil when either the fill level or the capacity is unknown.
func RemainingLiters(level, capacityLiters *float64) *float64 {
	if level == nil || capacityLiters == nil {
		return nil
	}
	v := Round(remaining(*level, *capacityLiters), 1)
	return &v
}

// RemainingGallons returns the propane left in the tank in gallons, rounded to one decimal.
// The liters figure is converted unrounded so both values come from the same raw product.
func RemainingGallons(level, capacityLiters *float64) *float64 {
	if level == nil || capacityLiters == nil {
		return nil
	}
	v := Round(LitersToGallons(remaining(*level, *capacityLiters)), 1)
	return &v
}

// CapacityGallons converts the vendor-reported capacity to gallons for display.
func CapacityGallons(capacityLiters *float64) *float64 {
	if capacityLiters == nil {
		return nil
	}
	v := Round(LitersToGallons(*capacityLiters), 1)
	return &v
}

func remaining(level, capacityLiters float64) float64 {
	return (level / 100) * capacityLiters
}
