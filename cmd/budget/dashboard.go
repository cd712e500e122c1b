package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-budget-must-balance/internal/tui"
	"github.com/Veraticus/the-budget-must-balance/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Browse the monthly overview, daily spending and history in a full-screen view.
Use h/l to change month, tab to switch views and ? for help.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(), a.store, a.formatter, themes.ByName(a.cfg.Display.Theme))
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin)")
	_ = viper.BindPFlag("display.theme", cmd.Flags().Lookup("theme"))
	return cmd
}
