// Package cli implements causalctl, a command-line front end to the
// validation engine.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agenthands/causalgraph/internal/config"
	"github.com/agenthands/causalgraph/internal/core"
	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrRejected is returned after printing a verdict that is not valid, so the
// process exits non-zero.
var ErrRejected = errors.New("verdict rejected")

type options struct {
	output     string
	configPath string
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "causalctl",
		Short: "causalctl: causal graph consistency checks",
		Long: `causalctl runs the causal graph validator locally.

It can normalize historical date strings, search a link file for cycles,
validate a proposed causal link against a snapshot, and report whether an
entity needs human approval before it is committed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (json, yaml)", opts.output)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format (json, yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file for validator settings")

	rootCmd.AddCommand(
		newParseDateCmd(opts),
		newDetectCycleCmd(opts),
		newValidateLinkCmd(opts),
		newRequiresCheckpointCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) write(w io.Writer, v any) error {
	if o.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *options) validator(maxDepth int) (*core.Validator, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if maxDepth > 0 {
		cfg.Validator.MaxCycleDepth = maxDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return core.NewValidatorFromConfig(cfg)
}

// readLinks loads a link snapshot. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON.
func readLinks(path string) ([]model.Link, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read links file '%s': %w", path, err)
	}

	var links []model.Link
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &links)
	default:
		err = json.Unmarshal(data, &links)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse links file '%s': %w", path, err)
	}
	return links, nil
}
