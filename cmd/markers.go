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

	"github.com/oceanmesh/sunbc/boundary"
)

// markersCmd represents the markers command
var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "Rewrite boundary edge markers from a polygon shapefile",
	Long: `Rewrites the marker column of edges.dat in place. Every boundary edge
is first reset to marker 1, then edges whose midpoint falls inside a
polygon of the shapefile take that polygon's marker value. Marker 4
polygons tag a flux segment and land on disk as marker 2.

sunbc markers -d rundata -s bcpolygons.shp`,
	Run: func(cmd *cobra.Command, args []string) {
		gridDir, _ := cmd.Flags().GetString("gridDir")
		shpFile, _ := cmd.Flags().GetString("shapeFile")
		if err := boundary.ModifyEdgeMarkers(gridDir, shpFile); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(markersCmd)
	markersCmd.Flags().StringP("gridDir", "d", ".", "directory holding points.dat, cells.dat and edges.dat")
	markersCmd.Flags().StringP("shapeFile", "s", "", "polygon shapefile with integer fields marker and edge_id; empty resets all markers to 1")
}
