package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/johann/setlab/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize server configuration",
	Long:  "Interactive wizard to configure the server settings.",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "setlab-server configuration wizard")
	fmt.Fprintln(out, "==================================")
	fmt.Fprintln(out)

	// Load existing config or create default
	cfg, err := config.LoadServer()
	if err != nil {
		cfg = config.DefaultServerConfig()
	}

	configureServer(reader, out, cfg)

	if err := config.SaveServer(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configDir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to locate config directory: %w", err)
	}
	fmt.Fprintln(out, "Configuration saved!")
	fmt.Fprintf(out, "Config file: %s/server.json\n", configDir)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Start the server with:")
	fmt.Fprintln(out, "  setlab-server serve")

	return nil
}

func configureServer(reader *bufio.Reader, out io.Writer, cfg *config.ServerConfig) {
	fmt.Fprintln(out, "Server Configuration")
	fmt.Fprintln(out, "--------------------")

	cfg.ListenAddr = prompt(reader, out, "HTTP Listen Address", cfg.ListenAddr, ":8080")
	cfg.Title = prompt(reader, out, "Web UI Title", cfg.Title, "Set Operations")
	cfg.MaxElements = promptInt(reader, out, "Max Power Set Elements", cfg.MaxElements)

	fmt.Fprintln(out)

	fmt.Fprintln(out, "Rate Limiting")
	fmt.Fprintln(out, "-------------")

	if promptYesNo(reader, out, "Limit requests per client IP?", cfg.RateLimit > 0) {
		rateStr := prompt(reader, out, "Requests per second", formatFloat(cfg.RateLimit), "10")
		if r, err := strconv.ParseFloat(rateStr, 64); err == nil && r > 0 {
			cfg.RateLimit = r
		}
		cfg.RateBurst = promptInt(reader, out, "Burst size", cfg.RateBurst)
	} else {
		cfg.RateLimit = 0
	}

	fmt.Fprintln(out)

	fmt.Fprintln(out, "Observability")
	fmt.Fprintln(out, "-------------")

	if promptYesNo(reader, out, "Enable Prometheus metrics?", cfg.MetricsPort > 0) {
		port := cfg.MetricsPort
		if port == 0 {
			port = 9090
		}
		cfg.MetricsPort = promptInt(reader, out, "Metrics Port", port)
	} else {
		cfg.MetricsPort = 0
	}

	cfg.LogLevel = prompt(reader, out, "Log Level", cfg.LogLevel, "info")
	cfg.LogFormat = prompt(reader, out, "Log Format (json/console)", cfg.LogFormat, "json")

	fmt.Fprintln(out)
}

func prompt(reader *bufio.Reader, out io.Writer, label, current, defaultVal string) string {
	displayDefault := current
	if displayDefault == "" {
		displayDefault = defaultVal
	}

	if displayDefault != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, displayDefault)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		if current != "" {
			return current
		}
		return defaultVal
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	input := prompt(reader, out, label, strconv.Itoa(current), "")
	if n, err := strconv.Atoi(input); err == nil {
		return n
	}
	return current
}

func promptYesNo(reader *bufio.Reader, out io.Writer, label string, defaultVal bool) bool {
	defaultStr := "y/N"
	if defaultVal {
		defaultStr = "Y/n"
	}

	fmt.Fprintf(out, "%s [%s]: ", label, defaultStr)

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))

	if input == "" {
		return defaultVal
	}

	return input == "y" || input == "yes"
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
