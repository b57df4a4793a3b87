package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Afrawles/jirawrapped/internal/config"
	"github.com/Afrawles/jirawrapped/internal/jira"
	"github.com/Afrawles/jirawrapped/internal/wrapped"
)

var rootCmd = &cobra.Command{
	Use:   "jirawrapped",
	Short: "Generate a year-in-review summary of your JIRA activity",
	Long: `jirawrapped pulls your issues from a JIRA instance and prints a
"wrapped" style summary of your ticket activity over the configured
timeline. All configuration comes from environment variables or a .env
file; see the repository README for the full list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWrapped,
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the custom fields available on the JIRA instance",
	Long:  `Lists every custom field id and name, for picking IMPORTANT_CUSTOM_FIELDS values.`,
	RunE:  runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		var authErr *jira.AuthError
		if errors.As(err, &authErr) {
			fmt.Fprintln(os.Stderr, "Authentication failed. Create a personal access token in your JIRA profile and export it as JIRA_TOKEN.")
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWrapped(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	if cfg.Jira.ListCustomFields {
		if err := cfg.ValidateConnection(); err != nil {
			return err
		}
		app, err := wrapped.New(cfg)
		if err != nil {
			return err
		}
		return app.ListFields(context.Background())
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	app, err := wrapped.New(cfg)
	if err != nil {
		return err
	}

	bar := newSpinner(fmt.Sprintf("Fetching issues for %s", cfg.Jira.Username))
	summary, err := app.Fetch(context.Background())
	finishBar(bar)
	fmt.Println()
	if err != nil {
		return err
	}

	return app.Report(summary)
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.ValidateConnection(); err != nil {
		return err
	}

	app, err := wrapped.New(cfg)
	if err != nil {
		return err
	}
	return app.ListFields(context.Background())
}
