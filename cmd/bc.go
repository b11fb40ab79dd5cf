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
	"io/ioutil"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/oceanmesh/sunbc/boundary"
	"github.com/oceanmesh/sunbc/config"
	"github.com/oceanmesh/sunbc/grid"
)

// bcCmd represents the bc command
var bcCmd = &cobra.Command{
	Use:   "bc",
	Short: "Build the open boundary forcing file for a grid",
	Long: `Builds the NetCDF open boundary file for a SUNTANS grid from the
sections of a YAML run file: a regional model, an ocean model archive,
tidal constituents or any mix of them.

sunbc bc -d rundata -r run.yml -o rundata/suntans_bc.nc`,
	Run: func(cmd *cobra.Command, args []string) {
		gridDir, _ := cmd.Flags().GetString("gridDir")
		outFile, _ := cmd.Flags().GetString("outFile")
		prof, _ := cmd.Flags().GetBool("profile")
		rc := processRunFile(cmd)
		if prof {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}
		if err := RunBC(gridDir, outFile, rc); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(bcCmd)
	bcCmd.Flags().StringP("gridDir", "d", ".", "directory holding points.dat, cells.dat and edges.dat")
	bcCmd.Flags().StringP("runFile", "r", "", "YAML run file naming the forcing sources")
	bcCmd.Flags().StringP("outFile", "o", "suntans_bc.nc", "output NetCDF file")
	bcCmd.Flags().BoolP("profile", "p", false, "write a CPU profile while building")
}

// processRunFile loads the YAML run file named by the runFile flag,
// printing a template and exiting when the flag is missing.
func processRunFile(cmd *cobra.Command) (rc *config.RunConfig) {
	var (
		err  error
		path string
	)
	if path, err = cmd.Flags().GetString("runFile"); err != nil {
		panic(err)
	}
	if len(path) == 0 {
		err = fmt.Errorf("must supply a run file (-r, --runFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", config.Example())
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(path); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	rc = &config.RunConfig{}
	if err = rc.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	rc.Print()
	return
}

// RunBC builds the boundary forcing for the grid in gridDir and writes
// it to outFile. Sources run in the run file's replace-then-add order:
// regional and ocean model first, tides last.
func RunBC(gridDir, outFile string, rc *config.RunConfig) error {
	g, err := grid.Load(gridDir)
	if err != nil {
		return err
	}
	b, err := boundary.New(g, rc.Start, rc.End, rc.Dt, rc.CoordSys())
	if err != nil {
		return err
	}
	if rc.DepthFile != "" {
		if err = g.LoadDepthsFile(rc.DepthFile); err != nil {
			return err
		}
		if err = b.SetDepth(g.Dv); err != nil {
			return err
		}
	}
	opt, err := rc.InterpOptions()
	if err != nil {
		return err
	}
	if rc.Regional != nil {
		if RegionalSource == nil {
			return fmt.Errorf("no regional interpolator is linked into this build, cannot apply the Regional section")
		}
		err = b.FromRegional(RegionalSource, rc.Regional.File, boundary.RegionalOptions{
			SetUV: rc.Regional.SetUV, SetH: rc.Regional.SetH, Interp: opt})
		if err != nil {
			return err
		}
	}
	if rc.OceanModel != nil {
		if OceanBuilder == nil {
			return fmt.Errorf("no interpolation kernel is linked into this build, cannot apply the OceanModel section")
		}
		err = b.FromOceanModel(OceanBuilder, rc.OceanModel.File, rc.OceanModel.Product, boundary.OceanOptions{
			SetUV: rc.OceanModel.SetUV, SetH: rc.OceanModel.SetH,
			ConvertToUTM: rc.OceanModel.ConvertToUTM, Interp: opt})
		if err != nil {
			return err
		}
	}
	if rc.Tides != nil {
		topt := boundary.TideOptions{SetUV: rc.Tides.SetUV, Constituents: rc.Tides.Constituents}
		if rc.Tides.StationDB != "" {
			if TideCorrector == nil {
				return fmt.Errorf("no corrected tidal predictor is linked into this build, cannot apply the Tides station correction")
			}
			err = b.FromTidesCorrected(TideCorrector, rc.Tides.Atlas,
				rc.Tides.StationDB, rc.Tides.StationID, topt)
		} else {
			if TidePredictor == nil {
				return fmt.Errorf("no tidal predictor is linked into this build, cannot apply the Tides section")
			}
			err = b.FromTides(TidePredictor, rc.Tides.Atlas, topt)
		}
		if err != nil {
			return err
		}
	}
	b.Describe()
	return b.WriteNC(outFile)
}
