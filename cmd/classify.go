package cmd

import (
	"fmt"
	"strconv"

	"github.com/dumpersafety/dumperwatch/hazard"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// Handy when eyeballing backend payloads during an incident.
var classifyCmd = &cobra.Command{
	Use:   "classify <score>",
	Short: "Prints the severity tier and display color for a hazard score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("not a numeric score: %s", args[0])
		}
		level := hazard.Classify(score)
		color := hazard.ColorOf(level)
		fmt.Printf("%s %s (%s)\n", level, color, color.Hex())
		return nil
	},
}
