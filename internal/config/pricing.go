package config

import "strings"

const eiaBase = "https://www.eia.gov/dnav/pet/pet_pri_wfr_dcus_"

// statePricingPages maps a state or PADD region to its EIA weekly
// residential propane price page suffix.
var statePricingPages = map[string]string{
	"US": "nus_w.htm",
	// East Coast (PADD 1)
	"PADD1": "R10_w.htm",
	// New England (PADD 1A)
	"PADD1A": "R1X_w.htm",
	"CT":     "SCT_w.htm",
	"ME":     "SME_w.htm",
	"MA":     "SMA_w.htm",
	"NH":     "SNH_w.htm",
	"RI":     "SRI_w.htm",
	"VT":     "SVT_w.htm",
	// Central Atlantic (PADD 1B)
	"PADD1B": "R1Y_w.htm",
	"DE":     "SDE_w.htm",
	"DC":     "SDC_w.htm",
	"MD":     "SMD_w.htm",
	"NJ":     "SNJ_w.htm",
	"NY":     "SNY_w.htm",
	"PA":     "SPA_w.htm",
	// Lower Atlantic (PADD 1C)
	"PADD1C": "R1Z_w.htm",
	"FL":     "SFL_w.htm",
	"GA":     "SGA_w.htm",
	"NC":     "SNC_w.htm",
	"VA":     "SVA_w.htm",
	// Midwest (PADD 2)
	"PADD2": "R20_w.htm",
	"IL":    "SIL_w.htm",
	"IN":    "SIN_w.htm",
	"IA":    "SIA_w.htm",
	"KS":    "SKS_w.htm",
	"KY":    "SKY_w.htm",
	"MI":    "SMI_w.htm",
	"MN":    "SMN_w.htm",
	"MO":    "SMO_w.htm",
	"NE":    "SNE_w.htm",
	"ND":    "SND_w.htm",
	"OH":    "SOH_w.htm",
	"OK":    "SOK_w.htm",
	"SD":    "SSD_w.htm",
	"TN":    "STN_w.htm",
	"WI":    "SWI_w.htm",
	// Gulf Coast (PADD 3)
	"PADD3": "R30_w.htm",
	"AL":    "SAL_w.htm",
	"AR":    "SAR_w.htm",
	"MS":    "SMS_w.htm",
	"TX":    "STX_w.htm",
	// Rocky Mountain (PADD 4)
	"PADD4": "R40_w.htm",
	"CO":    "SCO_w.htm",
	"ID":    "SID_w.htm",
	"MT":    "SMT_w.htm",
	"UT":    "SUT_w.htm",
}

// PricingURLForState returns the EIA page for a state or region code, case-insensitively.
func PricingURLForState(code string) (string, bool) {
	suffix, ok := statePricingPages[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return "", false
	}
	return eiaBase + suffix, true
}
