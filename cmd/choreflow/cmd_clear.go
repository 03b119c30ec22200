package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearTaskID string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete assignments (all of them, or one task's with --task)",
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

		if clearTaskID != "" {
			if err := st.DeleteAssignmentsForTask(clearTaskID); err != nil {
				return err
			}
			fmt.Printf("Cleared assignments for task %s\n", clearTaskID)
			return nil
		}
		if err := st.DeleteAllAssignments(); err != nil {
			return err
		}
		fmt.Println("Cleared all assignments")
		return nil
	},
}

func init() {
	clearCmd.Flags().StringVar(&clearTaskID, "task", "", "clear only this task's assignments")
}
