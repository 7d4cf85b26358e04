package cmd

import (
	"context"
	"fmt"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/upgrade"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [-c config_file] [--dry-run]",
	Short: "Bring the note database schema to the current version",
	Long: `Bring the note database schema to the current version.

The run command does this on startup as well. A schema with no known
upgrade path is dropped and recreated, so existing notes are lost.
Use --dry-run to see which case applies first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		out := cmd.OutOrStdout()

		configPath, err := resolveConfig(configPath)
		if err != nil {
			return err
		}
		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		fmt.Fprintf(out, "config: %s\n", configRealpath)

		lg, err := prepareRuntime(appConfig)
		if err != nil {
			return err
		}
		defer lg.Sync()

		db, err := dao.NewDBEngineWithConfig(appConfig.DaoConfig(), lg)
		if err != nil {
			return errors.Wrap(err, "failed to open database")
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		mgr := upgrade.NewMigrationManager(db, lg)
		plan, err := mgr.Plan(context.Background())
		if err != nil {
			return err
		}
		printPlan(cmd, plan)
		if dryRun {
			return nil
		}

		if err := mgr.Run(context.Background()); err != nil {
			return errors.Wrap(err, "upgrade failed")
		}
		fmt.Fprintf(out, "schema version %d\n", plan.Target)
		return nil
	},
}

func printPlan(cmd *cobra.Command, p upgrade.Plan) {
	out := cmd.OutOrStdout()
	switch {
	case p.Fresh:
		fmt.Fprintf(out, "new database, creating schema version %d\n", p.Target)
	case p.Current == p.Target:
		fmt.Fprintf(out, "schema version %d is current\n", p.Current)
	case p.Destructive:
		fmt.Fprintf(out, "no upgrade path from %d to %d, the notes table will be recreated and all notes lost\n", p.Current, p.Target)
	default:
		for _, step := range p.Steps {
			fmt.Fprintf(out, "migrate %s\n", step)
		}
	}
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	upgradeCmd.Flags().StringP("config", "c", "", "config file path")
	upgradeCmd.Flags().Bool("dry-run", false, "print the upgrade plan without applying it")
}
