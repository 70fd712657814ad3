package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "menu-merge",
		Short: "Merges recorded OCR and AI menu results into an extracted menu",
		Long: `menu-merge reads an OCR result and an AI quick-analysis result (YAML or JSON)
and prints the merged, validated menu as JSON. An optional enhancement result
is applied on top. Exits with status 1 when the menu is still invalid after repair.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, out)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file with merge thresholds")

	defaults := extraction.DefaultOptions()
	cmd.Flags().String("ocr", "", "OCR result file (YAML or JSON)")
	cmd.Flags().String("ai", "", "AI quick-analysis result file (YAML or JSON)")
	cmd.Flags().String("enhancement", "", "optional enhancement result file")
	cmd.Flags().Float64("low-ocr-confidence", defaults.LowOCRConfidence, "OCR confidence below which a warning is emitted")
	cmd.Flags().Float64("low-item-confidence", defaults.LowItemConfidence, "item confidence below which an item counts as low confidence")
	cmd.Flags().Float64("implied-bundle-section-confidence", defaults.ImpliedBundleSectionConfidence, "minimum section confidence for an implied bundle")
	cmd.Flags().Float64("implied-bundle-item-confidence", defaults.ImpliedBundleItemConfidence, "item confidence below which an item is a bundle choice")
	cmd.Flags().String("model", "", "model name recorded in metadata")
	cmd.Flags().Bool("pretty", false, "indent the JSON output")
	cmd.Flags().Bool("verbose", false, "log merge decisions to stderr")
	_ = cmd.MarkFlagRequired("ocr")
	_ = cmd.MarkFlagRequired("ai")

	_ = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("MENU_MERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(v *viper.Viper, out io.Writer) error {
	var ocr extraction.OCRResult
	if err := readInput(v.GetString("ocr"), &ocr); err != nil {
		return err
	}
	var ai extraction.QuickAnalysisResult
	if err := readInput(v.GetString("ai"), &ai); err != nil {
		return err
	}

	logger := zap.NewNop()
	if v.GetBool("verbose") {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		l, err := cfg.Build()
		if err != nil {
			return err
		}
		defer l.Sync()
		logger = l
	}

	opts := extraction.DefaultOptions()
	opts.LowOCRConfidence = v.GetFloat64("low-ocr-confidence")
	opts.LowItemConfidence = v.GetFloat64("low-item-confidence")
	opts.ImpliedBundleSectionConfidence = v.GetFloat64("implied-bundle-section-confidence")
	opts.ImpliedBundleItemConfidence = v.GetFloat64("implied-bundle-item-confidence")
	opts.Model = v.GetString("model")

	menu, mergeErr := extraction.NewMerger(opts, nil, logger).Merge(ocr, ai)

	if path := v.GetString("enhancement"); path != "" && mergeErr == nil {
		var enh extraction.QuickAnalysisResult
		if err := readInput(path, &enh); err != nil {
			return err
		}
		enhanced, n, err := extraction.ApplyEnhancement(menu, enh)
		if err == nil {
			enhanced.Metadata.Warnings = extraction.Warnings(enhanced, ocr, opts)
			logger.Info("enhancement applied", zap.Int("patched", n))
		}
		menu, mergeErr = enhanced, err
	}

	enc := json.NewEncoder(out)
	if v.GetBool("pretty") {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(menu); err != nil {
		return err
	}
	return mergeErr
}

// readInput decodes a .json file as JSON and anything else as YAML.
func readInput(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, dst)
	} else {
		err = yaml.Unmarshal(data, dst)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
