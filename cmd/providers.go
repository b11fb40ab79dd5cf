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
	"github.com/oceanmesh/sunbc/boundary"
	"github.com/oceanmesh/sunbc/interp"
	"github.com/oceanmesh/sunbc/tide"
)

// The numeric kernels live outside this repository. A build that links
// real implementations assigns these before Execute; the commands refuse
// run file sections they cannot serve.
var (
	// OceanBuilder constructs the 4-D interpolator applied to ocean
	// model archives.
	OceanBuilder interp.Builder
	// RegionalSource interpolates regional model output onto points.
	RegionalSource boundary.RegionalInterpolator
	// TidePredictor evaluates harmonic constituents from an atlas.
	TidePredictor tide.Predictor
	// TideCorrector additionally scales against an observed station.
	TideCorrector tide.CorrectedPredictor
)
