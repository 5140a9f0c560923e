/*
Copyright © 2024 the vader authors.
This file is part of vader.

vader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

vader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with vader.  If not, see <http://www.gnu.org/licenses/>.
*/


// Package vaderutil contains the command-line interface for vader.
package vaderutil

import (
	"fmt"

	"github.com/lnashier/viper"
	vader "github.com/lo-y-wni/vader-sub001"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to vader.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages that are printed.
              It can be one of debug, info, warning, error or fatal.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Recipes",
			usage: `
              Recipes is the list of recipes to run, in tangent-linear order.
              Available recipes are AirPressure_A, HydrostaticExner_A,
              HydrostaticPressure_A, SurfaceAirPressure_A, SurfaceTemperature_A
              and SurfaceWind_A.`,
			defaultVal: vader.RecipeNames(),
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "RecipeParams",
			usage: `
              RecipeParams holds one TOML table per recipe name with settings that
              override the recipe defaults, for example
              '[HydrostaticExner_A]
               Cp = 1004.0'.
              Field names are overridden by setting the default field name to the
              replacement name.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags(), runCmd.Flags()},
		},
		{
			name: "Points",
			usage: `
              Points is the number of horizontal points, including halo points,
              of the random background state used for testing.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "Owned",
			usage: `
              Owned is the number of horizontal points that are owned by this
              process. The remaining points are halo points and are left out of
              inner products.`,
			defaultVal: 90,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "Levels",
			usage: `
              Levels is the number of full model levels. Fields on half levels
              have one more level.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "Bins",
			usage: `
              Bins is the number of vertical regression bins. If Bins is zero the
              background state has no interpolation weights and hydrostatic
              pressure is a copy of unbalanced pressure.`,
			defaultVal: 4,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed is the seed of the random number generator.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "Tolerance",
			usage: `
              Tolerance is the largest acceptable relative error of the adjoint
              and inverse tests.`,
			defaultVal: 1.e-10,
			flagsets:   []*pflag.FlagSet{adjtestCmd.Flags()},
		},
		{
			name: "StateFile",
			usage: `
              StateFile is the path to the netCDF file holding the background
              state. It can include environment variables.`,
			defaultVal: "state.ncf",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "IncrementFile",
			usage: `
              IncrementFile is the path to the netCDF file holding the increments
              (tl mode) or the sensitivities (ad mode). It can include environment
              variables.`,
			defaultVal: "increment.ncf",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the resulting increments or
              sensitivities are written. It can include environment variables.`,
			defaultVal: "vader_output.ncf",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mode",
			usage: `
              Mode is either tl, to run the tangent-linear recipes in the order
              given by Recipes, or ad, to run their adjoints in reverse order.`,
			shorthand:  "m",
			defaultVal: "tl",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("VADER")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(adjtestCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and configures the logger.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("vader: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "vader",
	Short: "Variable changes for data assimilation.",
	Long: `vader runs the tangent-linear and adjoint variable changes that link
the control variables of a variational data assimilation system to the
model variables. Use the subcommands specified below to access its
functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'VADER_var' where 'var' is the
name of the variable to be set.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of vader.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("vader v%s\n", vader.Version)
	},
	DisableAutoGenTag: true,
}

// adjtestCmd checks every configured recipe on a random background.
var adjtestCmd = &cobra.Command{
	Use:   "adjtest",
	Short: "Test the adjoints of the recipes.",
	Long: `adjtest creates a random but physically plausible background state and
checks for every configured recipe that its adjoint is the transpose of its
tangent-linear operator, using the dot-product test
<F x, y> = <x, F* y>. Recipes that can be inverted are also checked
for recovering their inputs. The command fails if any relative error is
larger than Tolerance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := StateConfig(Cfg)
		if err != nil {
			return err
		}
		recipes, err := Recipes(Cfg)
		if err != nil {
			return err
		}
		return AdjointTests(Log, sc, cast.ToInt64(Cfg.Get("Seed")), Cfg.GetFloat64("Tolerance"), recipes)
	},
	DisableAutoGenTag: true,
}

// runCmd applies the recipes to an increment file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recipes on an increment file.",
	Long: `run reads a background state from StateFile and increments from
IncrementFile. In tl mode it runs the tangent-linear operators of the
configured recipes in order; in ad mode it runs their adjoints in reverse
order on the sensitivities in IncrementFile. The result is written to
OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := checkMode(Cfg.GetString("Mode"))
		if err != nil {
			return err
		}
		recipes, err := Recipes(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Run(Log, mode, recipes,
			expandPath(Cfg.GetString("StateFile")),
			expandPath(Cfg.GetString("IncrementFile")),
			outputFile)
	},
	DisableAutoGenTag: true,
}
