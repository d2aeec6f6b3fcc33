package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/analysis"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/util"
	"github.com/olivier-w/wavescope/internal/waveform"
)

var (
	envelopePoints int
	envelopeJSON   bool
)

var envelopeCmd = &cobra.Command{
	Use:   "envelope FILE",
	Short: "Print the amplitude envelope of FILE",
	Long: `Decode FILE and print its downsampled amplitude envelope together with
format and tag information, as YAML or (with --json) JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnvelope,
}

func init() {
	envelopeCmd.Flags().IntVar(&envelopePoints, "points", 0, "number of envelope points (default: width/smoothing from config)")
	envelopeCmd.Flags().BoolVar(&envelopeJSON, "json", false, "output as JSON")
}

type envelopeReport struct {
	File       string          `json:"file" yaml:"file"`
	Format     string          `json:"format" yaml:"format"`
	SampleRate int             `json:"sample_rate" yaml:"sample_rate"`
	Channels   int             `json:"channels" yaml:"channels"`
	Frames     int             `json:"frames" yaml:"frames"`
	Duration   string          `json:"duration" yaml:"duration"`
	Metadata   player.Metadata `json:"metadata" yaml:"metadata"`
	Peak       float64         `json:"peak" yaml:"peak"`
	Points     []float64       `json:"points" yaml:"points"`
}

func newEnvelopeReport(path string, res *analysis.Result) envelopeReport {
	a := res.Audio
	return envelopeReport{
		File:       path,
		Format:     a.Format,
		SampleRate: a.SampleRate,
		Channels:   a.Channels(),
		Frames:     a.Frames(),
		Duration:   util.FormatDuration(a.Duration),
		Metadata:   player.ReadMetadata(path),
		Peak:       waveform.Peak(res.Envelope),
		Points:     res.Envelope,
	}
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	opts := analysis.Options{DataPoints: cfg.DataPoints(), Height: float64(cfg.Height), Smoothing: cfg.Smoothing}
	if cmd.Flags().Changed("points") {
		opts.DataPoints = envelopePoints
	}
	res, err := analysis.File(args[0], opts)
	if err != nil {
		return err
	}

	report := newEnvelopeReport(args[0], res)
	var out []byte
	if envelopeJSON {
		out, err = json.MarshalIndent(report, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
