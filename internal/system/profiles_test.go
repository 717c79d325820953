package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyNames(t *testing.T) {
	assert.Equal(t, "Vega b", planetName("Vega", 0))
	assert.Equal(t, "Vega z", planetName("Vega", 24))
	assert.Equal(t, "Vega 26", planetName("Vega", 25))

	assert.Equal(t, "A", assetSuffix(0))
	assert.Equal(t, "Z", assetSuffix(25))
	assert.Equal(t, "27", assetSuffix(26))
	assert.Equal(t, "41", assetSuffix(40))
}
