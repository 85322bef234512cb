package calculator

// PSIPerKPa is the number of pounds per square inch in one kilopascal.
const PSIPerKPa = 0.145038

// UnitKPa is the pressure unit symbol the vendor reports by default.
const UnitKPa = "kPa"

// KPaToPSI converts kilopascals to PSI, rounded to two decimals for display.
func KPaToPSI(kpa float64) float64 {
	return Round(kpa*PSIPerKPa, 2)
}

// NormalizePressure returns the pressure to publish for a raw vendor reading.
// Readings in kPa are converted to PSI; any other unit is passed through
// untouched. converted reports whether a conversion took place.
func NormalizePressure(raw *float64, unit string) (value *float64, converted bool) {
	if raw == nil {
		return nil, false
	}
	if unit != UnitKPa {
		v := *raw
		return &v, false
	}
	v := KPaToPSI(*raw)
	return &v, true
}
