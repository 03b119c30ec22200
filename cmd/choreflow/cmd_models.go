package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"choreflow/internal/oracle"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the supported backend models",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range oracle.AllModels() {
			marker := " "
			if m.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %-20s %-10s %-10s %s\n", marker, m.ID, m.Provider, m.CostTier, m.Description)
		}
		fmt.Println("\n* default when no model is configured")
		return nil
	},
}
