package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultPressureUnit is assumed when the vendor omits the pressure unit symbol.
const DefaultPressureUnit = "kPa"

// TankRecord is one propane tank as reported by the Nee-Vo device list.
// Optional vendor fields are pointers; nil means the vendor sent null or nothing.
type TankRecord struct {
	ID               FlexString `json:"Id"`
	CustomName       *string    `json:"CustomName"`
	SerialNumber     *string    `json:"SerialNumber"`
	CompanyName      *string    `json:"CompanyName"`
	Product          *string    `json:"Product"`
	Level            *float64   `json:"Level"`
	TankCapacity     *float64   `json:"TankCapacity"` // liters
	LastReadingDate  *string    `json:"LastReadingDate"`
	TankLastPressure *float64   `json:"TankLastPressure"`
	PressureUnit     *string    `json:"TankPressureDisplayUnitSymbol"`
	IsOwner          *bool      `json:"IsOwner"`
	NotifyAt1        *float64   `json:"NotifyAt1"`
	NotifyAt2        *float64   `json:"NotifyAt2"`
}

// PressureUnitOrDefault returns the reported pressure unit, or kPa when absent.
func (t *TankRecord) PressureUnitOrDefault() string {
	if t.PressureUnit == nil {
		return DefaultPressureUnit
	}
	return *t.PressureUnit
}

// DisplayName returns the custom name when set.
func (t *TankRecord) DisplayName() (string, bool) {
	if t.CustomName == nil || *t.CustomName == "" {
		return "", false
	}
	return *t.CustomName, true
}

// FlexString decodes a JSON string or number into a string.
// The vendor has been seen sending device ids both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }
