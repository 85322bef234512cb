package sensor

import (
	"TankSentinel/internal/calculator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/parser"
)

const (
	AttrLevel          = "level"
	AttrLastReading    = "last_reading_date"
	AttrTankCapacity   = "tank_capacity"
	AttrCapacityLiters = "tank_capacity_liters"
	AttrCapacityGallon = "tank_capacity_gallons"
	AttrPropanePrice   = "propane_price"
	AttrSerialNumber   = "serial_number"
	AttrCustomName     = "custom_name"
	AttrCompanyName    = "company_name"
	AttrNotifyAt1      = "notify_at_level_1"
	AttrNotifyAt2      = "notify_at_level_2"
	AttrTankPressure   = "tank_pressure"
	AttrPressureUnit   = "pressure_unit"
	AttrPressurePSI    = "tank_pressure_psi"
	AttrIsOwner        = "is_owner"
	AttrProduct        = "product"
	AttrPressureKPa    = "pressure_kpa"
	AttrOriginalUnit   = "original_unit"
)

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Attributes returns the auxiliary attributes for the sensor's current value.
// Only the level and pressure sensors carry attributes.
func (s *Sensor) Attributes() map[string]any {
	return s.attributes(s.source.Snapshot())
}

func (s *Sensor) attributes(snap *model.Snapshot) map[string]any {
	attrs := map[string]any{}
	tank, ok := snap.Tank(s.index)
	if !ok {
		return attrs
	}

	switch s.kind {
	case KindLevel:
		attrs[AttrLevel] = opt(tank.Level)
		attrs[AttrTankCapacity] = opt(tank.TankCapacity)
		attrs[AttrCapacityLiters] = opt(tank.TankCapacity)
		attrs[AttrSerialNumber] = opt(tank.SerialNumber)
		attrs[AttrCustomName] = opt(tank.CustomName)
		attrs[AttrCompanyName] = opt(tank.CompanyName)
		attrs[AttrProduct] = opt(tank.Product)
		attrs[AttrIsOwner] = opt(tank.IsOwner)
		attrs[AttrNotifyAt1] = opt(tank.NotifyAt1)
		attrs[AttrNotifyAt2] = opt(tank.NotifyAt2)

		if g := calculator.CapacityGallons(tank.TankCapacity); g != nil {
			attrs[AttrCapacityGallon] = *g
		}
		if ts, ok := parser.ParseVendorDatePtr(tank.LastReadingDate); ok {
			attrs[AttrLastReading] = ts.Format(isoLayout)
		}
		if tank.TankLastPressure != nil {
			unit := tank.PressureUnitOrDefault()
			attrs[AttrTankPressure] = *tank.TankLastPressure
			attrs[AttrPressureUnit] = unit
			if psi, converted := calculator.NormalizePressure(tank.TankLastPressure, unit); converted {
				attrs[AttrPressurePSI] = *psi
			}
		}
		if snap.PricingEnabled {
			attrs[AttrPropanePrice] = opt(snap.Price)
		}

	case KindPressure:
		if tank.TankLastPressure != nil && tank.PressureUnitOrDefault() == calculator.UnitKPa {
			attrs[AttrPressureKPa] = *tank.TankLastPressure
			attrs[AttrOriginalUnit] = calculator.UnitKPa
		}
	}
	return attrs
}

// opt unwraps an optional vendor field so absent values serialize as null.
func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
