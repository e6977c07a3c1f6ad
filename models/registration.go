package models

import "strings"

// Regions a participant can register under. The first four form REGION 1
// on the spin wheel, everything else falls into REGION 2.
var Regions = []string{"USW", "USE", "SA", "EU", "INDIA", "AU", "ASIA"}

var regionGroupOne = map[string]struct{}{
	"USW": {},
	"USE": {},
	"SA":  {},
	"EU":  {},
}

const (
	RegionGroup1 = "REGION 1"
	RegionGroup2 = "REGION 2"
)

func NormalizeRegion(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

func IsValidRegion(region string) bool {
	region = NormalizeRegion(region)
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// RegionGroup maps a region to its wheel group.
func RegionGroup(region string) string {
	if _, ok := regionGroupOne[NormalizeRegion(region)]; ok {
		return RegionGroup1
	}
	return RegionGroup2
}

// Registration is a participant record. UserID is the Discord user id;
// re-registration under the same id overwrites the record in place.
type Registration struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IGN      string `json:"ign"`
	Region   string `json:"region"`
}
