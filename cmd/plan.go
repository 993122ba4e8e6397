package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridflow/lvplan/core/connection"
	"github.com/gridflow/lvplan/core/distribution"
	coremetrics "github.com/gridflow/lvplan/core/metrics"
	"github.com/gridflow/lvplan/core/model"
	"github.com/gridflow/lvplan/infra/logger"
	"github.com/gridflow/lvplan/infra/metrics"
	"github.com/gridflow/lvplan/pkg/export"
	"github.com/gridflow/lvplan/pkg/input"
)

var (
	inputPath string
	outDir    string
	wait      bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a balanced distribution and its connection schedule",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&inputPath, "input", "i", "meters.yaml", "meter groups file (yaml or json)")
	planCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for result files")
	planCmd.Flags().BoolVar(&wait, "wait", false, "keep serving /metrics until interrupted")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("plan-command")

	groups, err := input.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	sink, err := metrics.New(cfg.Metrics)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	engine, err := distribution.New(cfg.Engine, logger.New("engine"))
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := engine.Run(groups)
	if err != nil {
		return fmt.Errorf("distribution: %w", err)
	}

	resolver, err := connection.New(cfg.Connection, logger.New("resolver"))
	if err != nil {
		return err
	}
	conns := resolver.Resolve(results.Transformers)

	if err := writeResults(results, conns); err != nil {
		return err
	}

	if err := sink.RecordRun(coremetrics.RunEvent{
		RunID:    results.RunID,
		Summary:  results.Summary,
		Duration: time.Since(start),
		Time:     time.Now(),
	}); err != nil {
		logg.Warnf("record run: %v", err)
	}
	if rec, ok := sink.(coremetrics.ConnectionCountRecorder); ok {
		if err := rec.RecordConnectionCount(results.RunID, len(conns)); err != nil {
			logg.Warnf("record connections: %v", err)
		}
	}

	logg.Infof("run %s: %d transformers, %d connections, balance %.1f",
		results.RunID, results.Summary.TransformerCount, len(conns), results.Summary.BalanceScore)

	if wait && cfg.Metrics.PrometheusEnabled {
		<-ctx.Done()
	}
	return nil
}

func writeResults(results *model.DistributionResults, conns []model.FinalConnection) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"summary.json", func(f *os.File) error { return export.WriteSummaryJSON(f, results) }},
		{"transformers.csv", func(f *os.File) error { return export.WriteTransformersCSV(f, results.Transformers) }},
		{"connections.csv", func(f *os.File) error { return export.WriteConnectionsCSV(f, conns) }},
	}
	for _, w := range writers {
		f, err := os.Create(filepath.Join(outDir, w.name))
		if err != nil {
			return err
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", w.name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
