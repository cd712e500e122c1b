package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	names := make(map[string]*cobra.Command)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = cmd
	}

	for _, want := range []string{
		"add", "edit", "delete", "list", "summary", "daily", "recurring", "currency",
		"export", "restore", "backups", "import-ofx", "clear", "dashboard", "categories", "version",
	} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "env-file", "log-level", "log-format", "storage", "data"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRecurringSubcommands(t *testing.T) {
	cmd := recurringCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "add", "edit", "toggle", "delete"}, names)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		name  string
		flags []string
	}{
		{name: "add", cmd: addCmd(), flags: []string{"note", "date"}},
		{name: "edit", cmd: editCmd(), flags: []string{"type", "amount", "category", "note", "date"}},
		{name: "list", cmd: listCmd(), flags: []string{"month", "type", "search"}},
		{name: "summary", cmd: summaryCmd(), flags: []string{"month"}},
		{name: "restore", cmd: restoreCmd(), flags: []string{"backup"}},
		{name: "clear", cmd: clearCmd(), flags: []string{"yes"}},
		{name: "import-ofx", cmd: importOFXCmd(), flags: []string{"dry-run", "quiet"}},
		{name: "dashboard", cmd: dashboardCmd(), flags: []string{"theme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "missing --%s", flag)
			}
		})
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		cmd     *cobra.Command
		name    string
		args    []string
		wantErr bool
	}{
		{name: "add needs three", cmd: addCmd(), args: []string{"expense", "5"}, wantErr: true},
		{name: "add exact", cmd: addCmd(), args: []string{"expense", "5", "food"}},
		{name: "delete needs one", cmd: deleteCmd(), args: nil, wantErr: true},
		{name: "currency at most one", cmd: currencyCmd(), args: []string{"$", "€"}, wantErr: true},
		{name: "import needs a file", cmd: importOFXCmd(), args: nil, wantErr: true},
		{name: "list takes none", cmd: listCmd(), args: []string{"extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Args(tt.cmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRestoreRequiresSource(t *testing.T) {
	cmd := restoreCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Give either a file or --backup")
}

func TestCategoriesAndVersion(t *testing.T) {
	var out bytes.Buffer
	runCategories(&app{out: &out})
	assert.Contains(t, out.String(), "Groceries")
	assert.Contains(t, out.String(), "subscriptions")

	out.Reset()
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)
	assert.Contains(t, out.String(), "budget version dev")
}
