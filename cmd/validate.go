package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transitops/rosterd/config"
	"github.com/transitops/rosterd/infra/logger"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and datasets without scheduling",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("validate")
	ds, err := config.LoadDataset(cfg.Data, log)
	if err != nil {
		return fmt.Errorf("load datasets: %w", err)
	}

	fmt.Printf("config %s OK\n", cfgPath)
	fmt.Printf("employees:   %d\n", len(ds.Employees))
	fmt.Printf("businesses:  %d\n", len(ds.Businesses))
	fmt.Printf("skills:      %d employees with entries\n", len(ds.Skills))
	fmt.Printf("constraints: %d\n", len(ds.Constraints))
	fmt.Printf("rules:       %d\n", len(ds.Rules))
	for _, w := range ds.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}
