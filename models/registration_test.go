package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRegion(t *testing.T) {
	assert.Equal(t, "EU", NormalizeRegion(" eu "))
	assert.Equal(t, "", NormalizeRegion("   "))
}

func TestIsValidRegion(t *testing.T) {
	for _, r := range Regions {
		assert.True(t, IsValidRegion(r))
	}
	assert.True(t, IsValidRegion("usw"))
	assert.False(t, IsValidRegion("MOON"))
	assert.False(t, IsValidRegion(""))
}

func TestRegionGroup(t *testing.T) {
	assert.Equal(t, RegionGroup1, RegionGroup("USW"))
	assert.Equal(t, RegionGroup1, RegionGroup("eu"))
	assert.Equal(t, RegionGroup2, RegionGroup("INDIA"))
	assert.Equal(t, RegionGroup2, RegionGroup("AU"))
	assert.Equal(t, RegionGroup2, RegionGroup("ASIA"))
	// Unknown regions fall into the catch-all wheel group.
	assert.Equal(t, RegionGroup2, RegionGroup("MOON"))
}
