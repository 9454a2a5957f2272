// Package cmd provides output formatting utilities for mkunit CLI.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormats = []string{"text", "json", "yaml"}

// PrintOutput formats and writes data according to the specified output format.
func PrintOutput(w io.Writer, format string, data interface{}) error {
	switch strings.ToLower(format) {
	case "json":
		return printJSON(w, data)
	case "yaml", "yml":
		return printYAML(w, data)
	case "text":
		return printText(w, data)
	default:
		return invalidArgf("unsupported output format: %s", format)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer func() {
		_ = encoder.Close()
	}()
	return encoder.Encode(data)
}

// printText is a fallback; callers render their own text output.
func printText(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%+v\n", data)
	return err
}

// validateOutputFormat rejects formats PrintOutput does not know.
func validateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json", "yaml", "yml":
		return nil
	}
	return invalidArgf("unsupported output format: %s (expected one of %s)", format, strings.Join(outputFormats, ", "))
}

// addOutputFlag registers -o/--output as a structured output format flag.
func addOutputFlag(cmd *cobra.Command, target *string, def string) {
	cmd.Flags().StringVarP(target, "output", "o", def, "Output format (text, json, yaml)")
	_ = cmd.RegisterFlagCompletionFunc("output", fixedCompletion(outputFormats))
}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// CheckResultStructured represents a health check result in structured format.
type CheckResultStructured struct {
	Name        string   `json:"name" yaml:"name"`
	Status      string   `json:"status" yaml:"status"`
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// HealthCheckOutput represents the output of the doctor command.
type HealthCheckOutput struct {
	Overall string                  `json:"overall" yaml:"overall"`
	Checks  []CheckResultStructured `json:"checks" yaml:"checks"`
	Summary map[string]int          `json:"summary" yaml:"summary"`
}
