package main

import (
	"fmt"
	"os"

	"training-registry/registry"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Batch export of the registry data files. Unlike the interactive session,
// a corrupt record aborts the export: an archive built from a silently
// truncated store is worse than no archive.

var configPath string

func loadRegistry() (*registry.Registry, error) {
	_ = godotenv.Load()
	cfg, err := registry.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	reg, err := registry.Load(cfg)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "registry-export",
		Short: "Export the training registry to other formats",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "training.yaml", "path to the registry config file")

	sqliteCmd := &cobra.Command{
		Use:   "sqlite <path>",
		Short: "Snapshot the registry into a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := registry.ExportSQLite(reg, args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived %d people and %d courses to %s\n",
				len(reg.People()), len(reg.Courses()), args[0])
			return nil
		},
	}

	xlsxCmd := &cobra.Command{
		Use:   "xlsx <path>",
		Short: "Write the weekly planning to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := registry.ExportXLSX(reg, args[0]); err != nil {
				return err
			}
			fmt.Printf("Planning written to %s\n", args[0])
			return nil
		},
	}

	orphansCmd := &cobra.Command{
		Use:   "orphans",
		Short: "List prerequisite ids that resolve to no course",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			orphans := reg.Orphans()
			if len(orphans) == 0 {
				fmt.Println("No dangling prerequisite ids.")
				return nil
			}
			for _, id := range orphans {
				fmt.Println(id)
			}
			return nil
		},
	}

	rootCmd.AddCommand(sqliteCmd, xlsxCmd, orphansCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
