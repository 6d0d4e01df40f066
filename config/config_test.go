package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krish567366/submicro-execution-engine/errs"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestEffectiveLatencyFloorsAt550(t *testing.T) {
	c := Default()
	c.SimulatedLatencyNs = 100
	assert.Equal(t, int64(MinimumLatencyFloorNs), c.EffectiveLatencyNs())

	c.SimulatedLatencyNs = 10_000
	assert.Equal(t, int64(10_000), c.EffectiveLatencyNs(), "expected passthrough above floor")
}

func TestValidateRejectsNonPositiveCapital(t *testing.T) {
	c := Default()
	c.InitialCapital = 0
	assert.ErrorIs(t, c.Validate(), errs.ErrConfig)
}

func TestValidateRejectsNonPositiveMaxPosition(t *testing.T) {
	c := Default()
	c.MaxPosition = 0
	assert.ErrorIs(t, c.Validate(), errs.ErrConfig)
}

func TestValidateRejectsNegativeSweepEntries(t *testing.T) {
	c := Default()
	c.LatencySweepNs = []int64{100, -1}
	assert.ErrorIs(t, c.Validate(), errs.ErrConfig)
}
