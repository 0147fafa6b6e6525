package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "chancrawl [flags] <board|thread-url>" {
			t.Errorf("unexpected use %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty short and long descriptions")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has version subcommand", func(t *testing.T) {
		t.Parallel()
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Use == "version" {
				found = true
			}
		}
		if !found {
			t.Error("expected version subcommand")
		}
	})
}

// TestRootCmdFlags checks every flag's shorthand and default.
func TestRootCmdFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "archive", shorthand: "a", defValue: "false"},
		{name: "thread", shorthand: "t", defValue: "false"},
		{name: "directory", shorthand: "d", defValue: "."},
		{name: "small", shorthand: "s", defValue: "false"},
		{name: "exclude", shorthand: "e", defValue: ""},
		{name: "subdirectories", shorthand: "S", defValue: "false"},
		{name: "keep-going", shorthand: "k", defValue: "false"},
		{name: "proxy", defValue: ""},
		{name: "user-agent", defValue: ""},
		{name: "timeout", defValue: "1m0s"},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "yaml", shorthand: "y", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "report-file", shorthand: "o", defValue: ""},
		{name: "metrics-file", defValue: ""},
		{name: "log-file", defValue: ""},
	}

	cmd := NewRootCmd()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestRootCmdUsageDefaults checks that each default is printed once.
func TestRootCmdUsageDefaults(t *testing.T) {
	t.Parallel()

	for _, line := range strings.Split(NewRootCmd().Flags().FlagUsages(), "\n") {
		if n := strings.Count(line, "default"); n > 1 {
			t.Errorf("default repeated in usage line %q", line)
		}
	}

	usage := NewRootCmd().Flags().FlagUsages()
	if !strings.Contains(usage, `Directory to download into (default ".")`) {
		t.Errorf("directory usage missing its default:\n%s", usage)
	}
}

// TestRootCmdArgumentErrors covers failures detected before any request.
func TestRootCmdArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no argument", args: []string{}, wantErr: "accepts 1 arg(s)"},
		{name: "two arguments", args: []string{"g", "v"}, wantErr: "accepts 1 arg(s)"},
		{name: "archive and thread", args: []string{"-a", "-t", "g"}, wantErr: "archive"},
		{name: "json and markdown", args: []string{"-j", "-m", "g"}, wantErr: "json"},
		{name: "invalid thread url", args: []string{"-t", "not-a-url"}, wantErr: "invalid thread URL"},
		{name: "invalid board", args: []string{"g/thread/1"}, wantErr: "invalid board name"},
		{name: "invalid proxy", args: []string{"--proxy", "nope", "g"}, wantErr: "invalid proxy address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			cmd := NewRootCmd()
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
