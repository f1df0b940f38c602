// Package cmd implements the rosmsg CLI's command tree, grounded on
// dp3's cli/cmd/root.go: a package-level rootCmd, a bailf/checkErr pair
// for terse error exits, and subcommands registering themselves onto
// rootCmd from their own init().
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var preset string

var rootCmd = &cobra.Command{
	Use:   "rosmsg",
	Short: "inspect and translate ROS message definitions and wire payloads",
}

// Execute runs the command tree, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, color.RedString(format+"\n", args...))
	os.Exit(1)
}

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "", "",
		`built-in type catalog to seed the store with ("", "ros1_defaults", "ros2_defaults")`)
}
