package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dgallion1/markdoc/internal/render"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] [file]",
	Short: "Render a document as html, text, term or json",
	Long:  `Render reads a document from a file or stdin and writes it in the chosen format. The term format uses colors when stdout is a terminal`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "term", "output format (html|text|term|json)")
	renderCmd.Flags().Int("width", 0, "rule width for term output (0=terminal width)")
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if width <= 0 {
		width = min(terminalWidth(os.Stdout), 100)
	}

	renderer, err := render.ForFormat(format, render.Options{Color: color, Width: width})
	if err != nil {
		return err
	}

	doc, err := readDocument(cmd, args, newLogger(cmd))
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	if err := renderer.Render(out, doc); err != nil {
		return err
	}
	return out.Flush()
}
