package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/dgallion1/markdoc/internal/parser"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// readDocument loads the document named by args, or stdin when args is
// empty or "-". Files with a known extension use the matching importer;
// anything else is read as post markup.
func readDocument(cmd *cobra.Command, args []string, log *slog.Logger) (*doctree.Document, error) {
	maxFlag, err := cmd.Root().PersistentFlags().GetString("max-input")
	if err != nil {
		return nil, err
	}
	limit, err := humanize.ParseBytes(maxFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --max-input: %w", err)
	}

	name := "-"
	if len(args) > 0 {
		name = args[0]
	}
	return loadDocument(name, cmd.InOrStdin(), limit, log)
}

func loadDocument(name string, stdin io.Reader, limit uint64, log *slog.Logger) (*doctree.Document, error) {
	if limit >= math.MaxInt64 {
		return nil, fmt.Errorf("input limit %s is too large", humanize.IBytes(limit))
	}

	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if uint64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds %s limit", name, humanize.IBytes(limit))
	}
	log.Debug("read input", "name", name, "size", humanize.IBytes(uint64(len(data))))

	var p parser.Parser = &parser.MarkupParser{}
	if name != "-" && parser.IsSupportedExtension(name) {
		p, err = parser.ForFile(name, parser.Options{PDFFallbackPdftotext: true})
		if err != nil {
			return nil, err
		}
	}
	log.Debug("parsing", "name", name, "parser", fmt.Sprintf("%T", p))

	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	log.Debug("parsed", "name", name, "blocks", len(doc.Blocks))
	return doc, nil
}
