package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"choreflow/internal/distribution"
	"choreflow/internal/types"
)

var (
	distStart string
	distEnd   string
	distClear bool
)

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Generate assignments for a period in a single pass",
	Long: `Asks the backend for one distribution covering the whole period and
persists it. Use --clear to wipe the existing schedule first. For long
periods or big catalogs prefer 'redistribute', which works in chunks.`,
	RunE: runDistribute,
}

var redistributeCmd = &cobra.Command{
	Use:   "redistribute",
	Short: "Clear the schedule and regenerate it chunk by chunk",
	Long: `Deletes all existing assignments, splits the period into chunks sized
by catalog volume, and generates each chunk sequentially, persisting it
before the next one starts. If a chunk fails after retries the run stops
and everything persisted so far is kept.`,
	RunE: runRedistribute,
}

func init() {
	for _, cmd := range []*cobra.Command{distributeCmd, redistributeCmd} {
		cmd.Flags().StringVar(&distStart, "start", "", "period start (YYYY-MM-DD)")
		cmd.Flags().StringVar(&distEnd, "end", "", "period end, inclusive (YYYY-MM-DD)")
		_ = cmd.MarkFlagRequired("start")
		_ = cmd.MarkFlagRequired("end")
	}
	distributeCmd.Flags().BoolVar(&distClear, "clear", false, "delete existing assignments first")
}

func parsePeriod() (start, end time.Time, err error) {
	if start, err = types.ParseDate(distStart); err != nil {
		return
	}
	end, err = types.ParseDate(distEnd)
	return
}

func runDistribute(cmd *cobra.Command, args []string) error {
	start, end, err := parsePeriod()
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

	gen, info, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	logger.Info("distributing", zap.String("model", info.ID),
		zap.String("start", distStart), zap.String("end", distEnd))

	ctx, cancel := signalContext()
	defer cancel()

	o := distribution.NewOrchestrator(st, gen, printProgress)
	result, err := o.Distribute(ctx, start, end, distClear)
	reportRun(result, err)
	return err
}

func runRedistribute(cmd *cobra.Command, args []string) error {
	start, end, err := parsePeriod()
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

	gen, info, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	logger.Info("redistributing", zap.String("model", info.ID),
		zap.String("start", distStart), zap.String("end", distEnd))

	ctx, cancel := signalContext()
	defer cancel()

	o := distribution.NewOrchestrator(st, gen, printProgress)
	result, err := o.Redistribute(ctx, start, end)
	reportRun(result, err)
	return err
}

func printProgress(ev distribution.ProgressEvent) {
	switch ev.State {
	case distribution.StatePlanning:
		fmt.Printf("Planned %d chunks\n", ev.Chunks)
	case distribution.StateRunningChunk:
		fmt.Printf("Chunk %d/%d: generating...\n", ev.Chunk, ev.Chunks)
	case distribution.StatePersisted:
		fmt.Printf("Chunk %d/%d: persisted (%d assignments so far)\n", ev.Chunk, ev.Chunks, ev.Created)
	case distribution.StateAborted:
		fmt.Printf("Aborted at chunk %d/%d\n", ev.Chunk, ev.Chunks)
	}
}

// reportRun prints the outcome; created counts are shown on success and
// abort alike.
func reportRun(result distribution.Result, err error) {
	if err != nil {
		fmt.Printf("Run failed after %d/%d chunks: %d assignments kept, %d rows skipped\n",
			result.ChunksCompleted, result.ChunksTotal, result.AssignmentsCreated, result.RowsSkipped)
		return
	}
	fmt.Printf("Done: %d assignments created over %d chunks (%d rows skipped)\n",
		result.AssignmentsCreated, result.ChunksCompleted, result.RowsSkipped)
}
