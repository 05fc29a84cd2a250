/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Command fob bundles JavaScript and TypeScript modules and analyzes their
// import graphs.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/fob/cmd/analyze"
	"bennypowers.dev/fob/cmd/build"
	"bennypowers.dev/fob/cmd/version"
	"bennypowers.dev/fob/internal/logging"
)

var (
	cpuprofile     string
	cpuprofileFile *os.File
	rootCmd        = &cobra.Command{
		Use:   "fob",
		Short: "Bundle and analyze JavaScript/TypeScript module graphs",
		Long:  `fob bundles JavaScript and TypeScript entry points and analyzes their module graphs for dead code, cycles and external dependencies.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := logging.GetLogger()
			log.SetDebug(viper.GetBool("verbose"))
			log.SetQuiet(viper.GetBool("quiet"))

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("could not create CPU profile: %w", err)
				}
				cpuprofileFile = f
				if err := pprof.StartCPUProfile(f); err != nil {
					closeErr := f.Close()
					return errors.Join(
						fmt.Errorf("could not start CPU profile: %w", err),
						closeErr,
					)
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuprofileFile != nil {
				pprof.StopCPUProfile()
				if err := cpuprofileFile.Close(); err != nil {
					return fmt.Errorf("closing CPU profile: %w", err)
				}
			}
			return nil
		},
	}
)

func init() {
	// Root flags (persistent across all commands)
	rootCmd.PersistentFlags().String("cwd", "", "Working directory (default: process cwd)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write CPU profile to file")

	_ = viper.BindPFlag("cwd", rootCmd.PersistentFlags().Lookup("cwd"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	viper.SetConfigName("fob")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Add commands
	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	cobra.OnInitialize(func() {
		// A missing config file is fine; anything else is reported.
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				logging.GetLogger().Warning("reading config file: %v", err)
			}
		}
	})

	if err := rootCmd.Execute(); err != nil {
		logging.GetLogger().Error("%v", err)
		os.Exit(1)
	}
}
