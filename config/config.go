// Package config reads the YAML run file that drives the boundary and
// initial condition builders.
package config

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/oceanmesh/sunbc/gis"
	"github.com/oceanmesh/sunbc/interp"
)

// RunConfig collects every knob of a preparation run. Forcing sections
// left out of the file stay nil and their step is skipped.
type RunConfig struct {
	Start string  `yaml:"Start"` // yyyymmdd.HHMMSS
	End   string  `yaml:"End"`
	Dt    float64 `yaml:"Dt"` // seconds

	UTMZone int  `yaml:"UTMZone"`
	North   bool `yaml:"North"`

	Interp InterpConfig `yaml:"Interp"`

	OceanModel *OceanModelConfig `yaml:"OceanModel"`
	Tides      *TidesConfig      `yaml:"Tides"`
	Regional   *RegionalConfig   `yaml:"Regional"`
	History    *HistoryConfig    `yaml:"History"`

	AgeSourceShapefile string  `yaml:"AgeSourceShapefile"`
	FilterDx           float64 `yaml:"FilterDx"`
	DepthFile          string  `yaml:"DepthFile"`
}

// InterpConfig spells the interpolation tunables out by name. Zero
// fields fall back to the defaults.
type InterpConfig struct {
	Method   string  `yaml:"Method"`
	NNear    int     `yaml:"NNear"`
	Power    float64 `yaml:"Power"`
	VarModel string  `yaml:"VarModel"`
	Nugget   float64 `yaml:"Nugget"`
	Sill     float64 `yaml:"Sill"`
	Range    float64 `yaml:"Range"`
}

type OceanModelConfig struct {
	File         string `yaml:"File"`
	Product      string `yaml:"Product"`
	SetUV        bool   `yaml:"SetUV"`
	SetH         bool   `yaml:"SetH"`
	ConvertToUTM bool   `yaml:"ConvertToUTM"`
}

type TidesConfig struct {
	Atlas        string   `yaml:"Atlas"`
	Constituents []string `yaml:"Constituents"`
	StationDB    string   `yaml:"StationDB"`
	StationID    string   `yaml:"StationID"`
	SetUV        bool     `yaml:"SetUV"`
}

type RegionalConfig struct {
	File  string `yaml:"File"`
	SetUV bool   `yaml:"SetUV"`
	SetH  bool   `yaml:"SetH"`
}

type HistoryConfig struct {
	File  string `yaml:"File"`
	SetUV bool   `yaml:"SetUV"`
	SetH  bool   `yaml:"SetH"`
}

func (rc *RunConfig) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, rc); err != nil {
		return err
	}
	return rc.Validate()
}

// Validate checks the parts every run needs before any work starts.
// Time window checks belong to the builders, which know whether a run
// needs one instant or a whole axis.
func (rc *RunConfig) Validate() error {
	if _, err := rc.InterpOptions(); err != nil {
		return err
	}
	if rc.OceanModel != nil && (rc.OceanModel.File == "" || rc.OceanModel.Product == "") {
		return fmt.Errorf("OceanModel section needs File and Product")
	}
	if rc.Tides != nil && rc.Tides.Atlas == "" {
		return fmt.Errorf("Tides section needs Atlas")
	}
	if rc.Tides != nil && (rc.Tides.StationDB == "") != (rc.Tides.StationID == "") {
		return fmt.Errorf("Tides station correction needs both StationDB and StationID")
	}
	if rc.Regional != nil && rc.Regional.File == "" {
		return fmt.Errorf("Regional section needs File")
	}
	if rc.History != nil && rc.History.File == "" {
		return fmt.Errorf("History section needs File")
	}
	if rc.FilterDx < 0 {
		return fmt.Errorf("FilterDx must not be negative, have %g", rc.FilterDx)
	}
	return nil
}

// CoordSys returns the projection the run is pinned to.
func (rc *RunConfig) CoordSys() gis.CoordSys {
	return gis.CoordSys{Zone: rc.UTMZone, North: rc.North}
}

// InterpOptions resolves the named interpolation settings against the
// defaults.
func (rc *RunConfig) InterpOptions() (interp.Options, error) {
	var (
		opt = interp.DefaultOptions()
		c   = rc.Interp
		err error
	)
	if c.Method != "" {
		if opt.Method, err = interp.ParseMethod(c.Method); err != nil {
			return opt, err
		}
	}
	if c.VarModel != "" {
		if opt.VarModel, err = interp.ParseVariogramModel(c.VarModel); err != nil {
			return opt, err
		}
	}
	if c.NNear > 0 {
		opt.NNear = c.NNear
	}
	if c.Power > 0 {
		opt.Power = c.Power
	}
	if c.Nugget > 0 {
		opt.Nugget = c.Nugget
	}
	if c.Sill > 0 {
		opt.Sill = c.Sill
	}
	if c.Range > 0 {
		opt.Range = c.Range
	}
	return opt, opt.Validate()
}

func (rc *RunConfig) Print() {
	fmt.Printf("\"%s\"\t= Start\n", rc.Start)
	fmt.Printf("\"%s\"\t= End\n", rc.End)
	fmt.Printf("%8.1f\t\t= Dt\n", rc.Dt)
	hemi := "south"
	if rc.North {
		hemi = "north"
	}
	fmt.Printf("[%d %s]\t\t= UTM zone\n", rc.UTMZone, hemi)
	if opt, err := rc.InterpOptions(); err == nil {
		fmt.Printf("[%s]\t\t\t= Interp method\n", opt.Method)
	}
	if rc.OceanModel != nil {
		fmt.Printf("OceanModel: %s (%s)\n", rc.OceanModel.File, rc.OceanModel.Product)
	}
	if rc.Tides != nil {
		fmt.Printf("Tides: %s %v\n", rc.Tides.Atlas, rc.Tides.Constituents)
	}
	if rc.Regional != nil {
		fmt.Printf("Regional: %s\n", rc.Regional.File)
	}
	if rc.History != nil {
		fmt.Printf("History: %s\n", rc.History.File)
	}
}

// Example returns a template run file.
func Example() string {
	return `
########################################
Start: "20000101.000000"
End: "20000105.000000"
Dt: 3600.
UTMZone: 15
North: true
Interp:
  Method: idw    # nn, idw, kriging or griddata
  NNear: 4
  Power: 1.
OceanModel:
  File: hycom.nc
  Product: hycom
  SetUV: false
  SetH: false
  ConvertToUTM: true
Tides:
  Atlas: tpxo.nc
  Constituents: [M2, S2, N2, K1, O1]
  SetUV: true
Regional:
  File: regional.nc
  SetUV: false
  SetH: false
History:
  File: history.nc
  SetUV: true
  SetH: true
AgeSourceShapefile: agesource.shp
FilterDx: 0.
DepthFile: rundata/depths.dat-voro
########################################
`
}
