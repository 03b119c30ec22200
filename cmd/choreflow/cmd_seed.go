package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default household catalog into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := st.Seed()
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d persons and %d tasks\n", result.PersonsCreated, result.TasksCreated)
		return nil
	},
}
