package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var personsCmd = &cobra.Command{
	Use:   "persons",
	Short: "Manage household members",
}

var personsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List household members",
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

		persons, err := st.ListPersons()
		if err != nil {
			return err
		}
		if len(persons) == 0 {
			fmt.Println("No persons. Run 'choreflow seed' or add some.")
			return nil
		}
		for _, p := range persons {
			note := ""
			switch {
			case p.SpecialConditions.FullTimeAvailable:
				note = "  (fully available)"
			case p.SpecialConditions.ShiftWork:
				note = "  (shift work)"
			}
			fmt.Printf("%s  %-15s %s%s\n", p.ID, p.Name, p.Email, note)
		}
		return nil
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the chore catalog",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the chore catalog",
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

		tasks, err := st.ListAllTasks()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks. Run 'choreflow seed' or add some.")
			return nil
		}
		for _, t := range tasks {
			status := ""
			if !t.Active {
				status = "  [inactive]"
			}
			fmt.Printf("#%-3d %-40s %3d min  %-8s %s%s\n",
				t.Number, t.Name, t.Duration, t.Frequency, t.Category, status)
		}
		return nil
	},
}

func init() {
	personsCmd.AddCommand(personsListCmd)
	tasksCmd.AddCommand(tasksListCmd)
}
