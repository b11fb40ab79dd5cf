package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMethod(t *testing.T) {
	{
		m, err := ParseMethod(" IDW ")
		assert.NoError(t, err)
		assert.Equal(t, IDW, m)
	}
	{
		m, err := ParseMethod("nn")
		assert.NoError(t, err)
		assert.Equal(t, Nearest, m)
	}
	{
		_, err := ParseMethod("bilinear")
		assert.Error(t, err)
	}
	assert.Equal(t, "kriging", Kriging.String())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	{
		o := DefaultOptions()
		o.NNear = 0
		assert.Error(t, o.Validate())
	}
	{
		o := DefaultOptions()
		o.Power = -1
		assert.Error(t, o.Validate())
	}
	{
		o := DefaultOptions()
		o.Method = Kriging
		o.Range = 0
		assert.Error(t, o.Validate())
	}
	{ // GridData takes no neighbor count
		o := Options{Method: GridData}
		assert.NoError(t, o.Validate())
	}
}

func TestParseVariogramModel(t *testing.T) {
	v, err := ParseVariogramModel("Gaussian")
	assert.NoError(t, err)
	assert.Equal(t, Gaussian, v)
	_, err = ParseVariogramModel("cubic")
	assert.Error(t, err)
}
