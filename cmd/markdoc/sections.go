package main

import (
	"encoding/json"
	"fmt"

	"github.com/dgallion1/markdoc/internal/chunker"
	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [flags] [file]",
	Short: "Split a document into heading-scoped sections as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSections,
}

func init() {
	d := chunker.DefaultConfig()
	sectionsCmd.Flags().Int("size", d.SectionSize, "target section size in estimated tokens")
	sectionsCmd.Flags().Int("overlap", d.Overlap, "tokens carried into the next part of a split section")
	sectionsCmd.Flags().Int("min", d.MinSize, "drop sections smaller than this")
}

func runSections(cmd *cobra.Command, args []string) error {
	var cfg chunker.Config
	var err error
	if cfg.SectionSize, err = cmd.Flags().GetInt("size"); err != nil {
		return fmt.Errorf("failed to get size flag: %w", err)
	}
	if cfg.Overlap, err = cmd.Flags().GetInt("overlap"); err != nil {
		return fmt.Errorf("failed to get overlap flag: %w", err)
	}
	if cfg.MinSize, err = cmd.Flags().GetInt("min"); err != nil {
		return fmt.Errorf("failed to get min flag: %w", err)
	}

	doc, err := readDocument(cmd, args, newLogger(cmd))
	if err != nil {
		return err
	}

	sections := chunker.Sections(doc, cfg)
	if sections == nil {
		sections = []doctree.Chunk{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sections)
}
