/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oceanmesh/sunbc/config"
	"github.com/oceanmesh/sunbc/grid"
	"github.com/oceanmesh/sunbc/initial"
)

// icCmd represents the ic command
var icCmd = &cobra.Command{
	Use:   "ic",
	Short: "Build the cold start initial condition file for a grid",
	Long: `Builds the NetCDF initial condition file for a SUNTANS grid at the
run file's Start instant, from a regional model, an ocean model archive
or a prior run's history file, with optional age sources and spatial
low pass filtering.

sunbc ic -d rundata -r run.yml -o rundata/suntans_ic.nc`,
	Run: func(cmd *cobra.Command, args []string) {
		gridDir, _ := cmd.Flags().GetString("gridDir")
		outFile, _ := cmd.Flags().GetString("outFile")
		rc := processRunFile(cmd)
		if err := RunIC(gridDir, outFile, rc); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(icCmd)
	icCmd.Flags().StringP("gridDir", "d", ".", "directory holding points.dat, cells.dat and edges.dat")
	icCmd.Flags().StringP("runFile", "r", "", "YAML run file naming the state sources")
	icCmd.Flags().StringP("outFile", "o", "suntans_ic.nc", "output NetCDF file")
}

// RunIC builds the initial condition for the grid in gridDir and writes
// it to outFile.
func RunIC(gridDir, outFile string, rc *config.RunConfig) error {
	g, err := grid.Load(gridDir)
	if err != nil {
		return err
	}
	ic, err := initial.New(g, rc.Start, rc.CoordSys())
	if err != nil {
		return err
	}
	opt, err := rc.InterpOptions()
	if err != nil {
		return err
	}
	if rc.Regional != nil {
		if RegionalSource == nil {
			return fmt.Errorf("no regional interpolator is linked into this build, cannot apply the Regional section")
		}
		err = ic.FromRegional(RegionalSource, rc.Regional.File, initial.RegionalOptions{
			SetUV: rc.Regional.SetUV, SetH: rc.Regional.SetH, Interp: opt})
		if err != nil {
			return err
		}
	}
	if rc.OceanModel != nil {
		if OceanBuilder == nil {
			return fmt.Errorf("no interpolation kernel is linked into this build, cannot apply the OceanModel section")
		}
		err = ic.FromOceanModel(OceanBuilder, rc.OceanModel.File, rc.OceanModel.Product, initial.OceanOptions{
			SetH: rc.OceanModel.SetH, ConvertToUTM: rc.OceanModel.ConvertToUTM, Interp: opt})
		if err != nil {
			return err
		}
	}
	if rc.History != nil {
		err = ic.FromHistory(rc.History.File, initial.HistoryOptions{
			SetUV: rc.History.SetUV, SetH: rc.History.SetH})
		if err != nil {
			return err
		}
	}
	if rc.AgeSourceShapefile != "" {
		if err = ic.SetAgeSource(rc.AgeSourceShapefile); err != nil {
			return err
		}
	}
	if rc.FilterDx > 0 {
		if err = ic.Filter(rc.FilterDx); err != nil {
			return err
		}
	}
	var dv []float64
	if rc.DepthFile != "" {
		if err = g.LoadDepthsFile(rc.DepthFile); err != nil {
			return err
		}
		dv = g.Dv
	}
	ic.Describe()
	return ic.WriteNC(outFile, dv)
}
