package models

// SiteSetting is one row of the site_settings table. Value is "1" or "0".
type SiteSetting struct {
	Key   string `json:"key" db:"setting_key"`
	Value string `json:"value" db:"setting_value"`
}

// Enabled reports whether the row holds an "on" toggle.
func (s SiteSetting) Enabled() bool {
	return s.Value == "1"
}

// FlagSetting builds the row stored for a toggle.
func FlagSetting(key string, on bool) SiteSetting {
	v := "0"
	if on {
		v = "1"
	}
	return SiteSetting{Key: key, Value: v}
}

// Feature flag keys.
const (
	FlagPublicShopfront          = "public_shopfront"
	FlagPublicFabricsChoose      = "public_fabrics_choose"
	FlagPublicFabricsClearance   = "public_fabrics_clearance"
	FlagShowHomeFabricsChoose    = "show_home_fabrics_choose"
	FlagShowHomeFabricsClearance = "show_home_fabrics_clearance"
)

// FlagKeys lists every flag in the order the settings page shows them.
var FlagKeys = []string{
	FlagPublicShopfront,
	FlagPublicFabricsChoose,
	FlagPublicFabricsClearance,
	FlagShowHomeFabricsChoose,
	FlagShowHomeFabricsClearance,
}

// FlagDefault is used for any flag that has no row yet.
const FlagDefault = true

// Flags is the set of site toggles injected into every page.
type Flags struct {
	PublicShopfront          bool
	PublicFabricsChoose      bool
	PublicFabricsClearance   bool
	ShowHomeFabricsChoose    bool
	ShowHomeFabricsClearance bool
}

// DefaultFlags has every toggle on.
func DefaultFlags() Flags {
	return Flags{
		PublicShopfront:          FlagDefault,
		PublicFabricsChoose:      FlagDefault,
		PublicFabricsClearance:   FlagDefault,
		ShowHomeFabricsChoose:    FlagDefault,
		ShowHomeFabricsClearance: FlagDefault,
	}
}

// Get returns the flag for key; unknown keys report false.
func (f Flags) Get(key string) bool {
	switch key {
	case FlagPublicShopfront:
		return f.PublicShopfront
	case FlagPublicFabricsChoose:
		return f.PublicFabricsChoose
	case FlagPublicFabricsClearance:
		return f.PublicFabricsClearance
	case FlagShowHomeFabricsChoose:
		return f.ShowHomeFabricsChoose
	case FlagShowHomeFabricsClearance:
		return f.ShowHomeFabricsClearance
	}
	return false
}

// Set updates the flag for key. Unknown keys are ignored.
func (f *Flags) Set(key string, value bool) {
	switch key {
	case FlagPublicShopfront:
		f.PublicShopfront = value
	case FlagPublicFabricsChoose:
		f.PublicFabricsChoose = value
	case FlagPublicFabricsClearance:
		f.PublicFabricsClearance = value
	case FlagShowHomeFabricsChoose:
		f.ShowHomeFabricsChoose = value
	case FlagShowHomeFabricsClearance:
		f.ShowHomeFabricsClearance = value
	}
}
