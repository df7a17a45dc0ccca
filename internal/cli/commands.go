package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agenthands/causalgraph/internal/core/cycle"
	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/agenthands/causalgraph/internal/core/temporal"
	"github.com/spf13/cobra"
)

type dateOutput struct {
	Text    string `json:"text" yaml:"text"`
	OK      bool   `json:"ok" yaml:"ok"`
	Year    *int   `json:"year,omitempty" yaml:"year,omitempty"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

type cycleOutput struct {
	Found     bool     `json:"found" yaml:"found"`
	Path      []string `json:"path,omitempty" yaml:"path,omitempty"`
	Truncated bool     `json:"truncated" yaml:"truncated"`
}

type checkpointOutput struct {
	Kind     string `json:"kind" yaml:"kind"`
	Required bool   `json:"required" yaml:"required"`
	Reason   string `json:"reason" yaml:"reason"`
}

func newParseDateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-date TEXT",
		Short: "Normalize a historical date string to a signed year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := dateOutput{Text: args[0]}
			if year, ok := temporal.ParseDateToInt(args[0]); ok {
				out.OK = true
				out.Year = &year
				out.Display = temporal.FormatYear(year)
			}
			return opts.write(cmd.OutOrStdout(), out)
		},
	}
}

func newDetectCycleCmd(opts *options) *cobra.Command {
	var (
		trigger, result, linksPath string
		maxDepth                   int
	)

	cmd := &cobra.Command{
		Use:   "detect-cycle",
		Short: "Check whether adding trigger -> result closes a cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := readLinks(linksPath)
			if err != nil {
				return err
			}
			res := cycle.Detect(trigger, result, links, maxDepth)
			return opts.write(cmd.OutOrStdout(), cycleOutput{Found: res.Found, Path: res.Path, Truncated: res.Truncated})
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", "", "trigger node ID")
	cmd.Flags().StringVar(&result, "result", "", "result node ID")
	cmd.Flags().StringVar(&linksPath, "links", "", "JSON or YAML file of existing links")
	cmd.Flags().IntVar(&maxDepth, "max-depth", cycle.DefaultMaxDepth, "maximum search depth")
	_ = cmd.MarkFlagRequired("trigger")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}

func newValidateLinkCmd(opts *options) *cobra.Command {
	var (
		triggerID, triggerDate string
		resultID, resultDate   string
		linksPath, token       string
		maxDepth               int
	)

	cmd := &cobra.Command{
		Use:   "validate-link",
		Short: "Validate a proposed causal link against a link snapshot",
		Long: `Validate a proposed causal link against a link snapshot.

The verdict is printed in full. The command exits non-zero when the verdict
carries hard errors; a link that only awaits approval exits zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.validator(maxDepth)
			if err != nil {
				return err
			}
			links, err := readLinks(linksPath)
			if err != nil {
				return err
			}

			verdict := v.ValidateNewLink(
				model.NodeRef{ID: triggerID, Date: model.DateInfo{Text: triggerDate}},
				model.NodeRef{ID: resultID, Date: model.DateInfo{Text: resultDate}},
				links, token)
			if err := opts.write(cmd.OutOrStdout(), verdict); err != nil {
				return err
			}
			if !verdict.IsValid {
				return ErrRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&triggerID, "trigger-id", "", "trigger node ID")
	cmd.Flags().StringVar(&triggerDate, "trigger-date", "", "trigger date text")
	cmd.Flags().StringVar(&resultID, "result-id", "", "result node ID")
	cmd.Flags().StringVar(&resultDate, "result-date", "", "result date text")
	cmd.Flags().StringVar(&linksPath, "links", "", "JSON or YAML file of existing links")
	cmd.Flags().StringVar(&token, "token", "", "approval token")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "override the configured cycle search depth")
	_ = cmd.MarkFlagRequired("trigger-id")
	_ = cmd.MarkFlagRequired("result-id")
	return cmd
}

func newRequiresCheckpointCmd(opts *options) *cobra.Command {
	var kind, fieldsJSON string

	cmd := &cobra.Command{
		Use:   "requires-checkpoint",
		Short: "Report whether an entity needs human approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]any{}
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
					return fmt.Errorf("failed to parse --fields: %w", err)
				}
			}
			v, err := opts.validator(0)
			if err != nil {
				return err
			}
			required, reason := v.RequiresCheckpoint(kind, fields)
			return opts.write(cmd.OutOrStdout(), checkpointOutput{Kind: kind, Required: required, Reason: reason})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "entity kind (bio_evolution, human_legacy, causal_link, origin_node)")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", "entity fields as a JSON object")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
