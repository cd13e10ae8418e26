package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/transitops/rosterd/config"
	"github.com/transitops/rosterd/core/constraint"
	"github.com/transitops/rosterd/core/metrics"
	"github.com/transitops/rosterd/core/model"
	"github.com/transitops/rosterd/core/multiday"
	"github.com/transitops/rosterd/core/rules"
	"github.com/transitops/rosterd/core/runlog"
	"github.com/transitops/rosterd/core/scheduler"
	"github.com/transitops/rosterd/infra/logger"
	// Register the metrics sink factories.
	_ "github.com/transitops/rosterd/infra/metrics"
	"github.com/transitops/rosterd/infra/notify"
	"github.com/transitops/rosterd/internal/eventbus"
)

var (
	genLocation string
	genFrom     string
	genTo       string
	genOut      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one shift generation pass over a date range",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genLocation, "location", "", "location to schedule (required)")
	generateCmd.Flags().StringVar(&genFrom, "from", "", "first date, YYYY-MM-DD (required)")
	generateCmd.Flags().StringVar(&genTo, "to", "", "last date, YYYY-MM-DD (required)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "write the result JSON to this file instead of stdout")
	_ = generateCmd.MarkFlagRequired("location")
	_ = generateCmd.MarkFlagRequired("from")
	_ = generateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start, err := model.ParseDay(genFrom)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	end, err := model.ParseDay(genTo)
	if err != nil {
		return fmt.Errorf("parse --to: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("generate")
	ds, err := config.LoadDataset(cfg.Data, log)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}

	sink, err := metrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}
	store, err := runlog.New(cfg.RunLog)
	if err != nil {
		return fmt.Errorf("run log: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("run log close: %v", err)
		}
	}()
	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}
	defer notifier.Close()

	bus := eventbus.New()
	defer bus.Close()

	sched, err := scheduler.New(
		rules.NewFilter(ds.Rules, genLocation, log),
		constraint.NewValidator(ds.Constraints, genLocation, log),
		multiday.NewResolver(cfg.MultiDay, log, bus),
		sink,
		bus,
		store,
		log,
	)
	if err != nil {
		return err
	}

	res, err := sched.Generate(ctx, scheduler.Request{
		Location:   genLocation,
		Start:      start,
		End:        end,
		Employees:  ds.Employees,
		Businesses: ds.Businesses,
		Skills:     ds.Skills,
		Warnings:   ds.Warnings,
	})
	if err != nil {
		return err
	}

	if notifier != nil {
		_ = notifier.Publish(notify.RunSummary{
			RunID:      res.RunID,
			Location:   genLocation,
			Start:      start.String(),
			End:        end.String(),
			Assigned:   res.Summary.AssignedBusinesses,
			Unassigned: res.Summary.UnassignedBusinesses,
			Warnings:   len(res.Warnings),
			Timestamp:  time.Now(),
		})
	}

	return writeResult(res)
}

func writeResult(res scheduler.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if genOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(genOut, data, 0o644)
}
