package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/yotei/plugin/nlevent"
	"github.com/hrygo/yotei/server/timezone"
)

var parseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse one phrase and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Parse every example phrase and print a summary",
	Args:  cobra.NoArgs,
	RunE:  runExamples,
}

func init() {
	for _, cmd := range []*cobra.Command{parseCmd, examplesCmd} {
		cmd.Flags().String("reference", "", "reference instant in RFC 3339 (default: now)")
	}
	parseCmd.Flags().StringP("output", "o", "json", "output format: json or yaml")
}

func runParse(cmd *cobra.Command, args []string) error {
	ref, err := referenceFlag(cmd)
	if err != nil {
		return err
	}
	result := nlevent.Parse(args[0], ref)

	output, _ := cmd.Flags().GetString("output")
	if err := writeResult(cmd.OutOrStdout(), result, output); err != nil {
		return err
	}
	if !result.Succeeded() {
		// Exit non-zero without cobra printing usage.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errors.New("parse failed")
	}
	return nil
}

func runExamples(cmd *cobra.Command, _ []string) error {
	ref, err := referenceFlag(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, text := range nlevent.Examples() {
		switch r := nlevent.Parse(text, ref).(type) {
		case *nlevent.Success:
			fmt.Fprintf(out, "%s\n  %s  %s\n", text, timezone.FormatEventTime(r.Event.StartTime, r.Event.EndTime), r.Event.Title)
		case *nlevent.Failure:
			fmt.Fprintf(out, "%s\n  error: %s\n", text, r.Err.Error())
		}
	}
	return nil
}

// referenceFlag resolves --reference and the global timezone into the
// instant relative phrases are anchored to.
func referenceFlag(cmd *cobra.Command) (time.Time, error) {
	loc, err := timezone.ParseTimezone(viper.GetString("timezone"))
	if err != nil {
		return time.Time{}, err
	}
	raw, _ := cmd.Flags().GetString("reference")
	if raw == "" {
		return time.Now().In(loc), nil
	}
	ref, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "invalid --reference")
	}
	return ref.In(loc), nil
}

func writeResult(w io.Writer, result nlevent.ParseResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
