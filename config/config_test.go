package config

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/interp"
)

func TestRunConfigParse(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Start: "20000101.000000"
End: "20000102.000000"
Dt: 1800.
UTMZone: 51
North: false
Interp:
  Method: kriging
  NNear: 6
  VarModel: gaussian
  Sill: 0.9
  Range: 25000.
OceanModel:
  File: ocean.nc
  Product: hycom
  SetH: true
  ConvertToUTM: true
Tides:
  Atlas: tpxo.nc
  Constituents: [M2, S2]
  StationDB: stations.db
  StationID: "8771450"
  SetUV: true
Regional:
  File: regional.nc
  SetUV: true
History:
  File: history.nc
  SetH: true
AgeSourceShapefile: sources.shp
FilterDx: 500.
`)
	var rc RunConfig
	if err = rc.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, rc.Start, "20000101.000000")
	assert.Equal(t, rc.Dt, 1800.)
	assert.Equal(t, rc.CoordSys(), gis.CoordSys{Zone: 51, North: false})
	assert.Equal(t, rc.OceanModel.Product, "hycom")
	assert.Equal(t, rc.OceanModel.SetH, true)
	assert.Equal(t, rc.Tides.Constituents, []string{"M2", "S2"})
	assert.Equal(t, rc.Tides.StationID, "8771450")
	assert.Equal(t, rc.Regional.SetUV, true)
	assert.Equal(t, rc.History.File, "history.nc")
	assert.Equal(t, rc.FilterDx, 500.)

	opt, err := rc.InterpOptions()
	if err != nil {
		panic(err)
	}
	assert.Equal(t, opt.Method, interp.Kriging)
	assert.Equal(t, opt.VarModel, interp.Gaussian)
	assert.Equal(t, opt.NNear, 6)
	assert.Equal(t, opt.Power, 1.) // untouched default
	rc.Print()
}

func TestRunConfigValidate(t *testing.T) {
	bad := []string{
		"Interp:\n  Method: cubic\n",
		"OceanModel:\n  File: ocean.nc\n",
		"OceanModel:\n  Product: hycom\n",
		"Tides:\n  Constituents: [M2]\n",
		"Tides:\n  Atlas: tpxo.nc\n  StationDB: stations.db\n",
		"Regional:\n  SetUV: true\n",
		"History:\n  SetUV: true\n",
		"FilterDx: -1.\n",
	}
	for _, s := range bad {
		var rc RunConfig
		if err := rc.Parse([]byte(s)); err == nil {
			t.Errorf("config %q parsed without error", s)
		}
	}
}

func TestExampleParses(t *testing.T) {
	var rc RunConfig
	if err := rc.Parse([]byte(Example())); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, rc.UTMZone, 15)
	assert.Equal(t, rc.North, true)
	assert.Equal(t, rc.Tides.SetUV, true)
	if _, err := rc.InterpOptions(); err != nil {
		t.Fatal(err)
	}
}
