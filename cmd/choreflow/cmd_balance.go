package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"choreflow/internal/distribution"
	"choreflow/internal/types"
)

var (
	balanceStart string
	balanceEnd   string
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Report how evenly the schedule spreads work across persons",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := types.ParseDate(balanceStart)
		if err != nil {
			return err
		}
		end, err := types.ParseDate(balanceEnd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := distribution.NewEvaluator(st).Balance(start, end)
		if err != nil {
			return err
		}
		printBalance(report)
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceStart, "start", "", "period start (YYYY-MM-DD)")
	balanceCmd.Flags().StringVar(&balanceEnd, "end", "", "period end, inclusive (YYYY-MM-DD)")
	_ = balanceCmd.MarkFlagRequired("start")
	_ = balanceCmd.MarkFlagRequired("end")
}

func printBalance(report distribution.Report) {
	fmt.Printf("Workload %s..%s (%d days)\n", report.Start, report.End, report.Days)
	if report.Undefined {
		fmt.Println("No persons in the household; nothing to balance.")
		return
	}

	for _, p := range report.Persons {
		fmt.Printf("  %-20s %3d tasks  %6.1fh total  %5.1f min/day\n",
			p.Name, p.TaskCount, p.TotalHours, p.AvgMinutesPerDay)
	}
	fmt.Printf("Spread: %.2fh (max %.1fh, min %.1fh, avg %.1fh)\n",
		report.SpreadHours, report.MaxHours, report.MinHours, report.AvgHours)
	if report.Balanced {
		fmt.Println("Schedule is balanced.")
	} else {
		fmt.Println("Schedule is NOT balanced; consider a redistribute.")
	}
}
