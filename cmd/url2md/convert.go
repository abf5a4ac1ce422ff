// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/internal/convert"
	"github.com/pdiddy/url2md/internal/reader"
)

var convertCmd = &cobra.Command{
	Use:   "convert <url>",
	Short: "Convert one web page to a markdown file",
	Long: `Convert fetches the markdown rendering of a single URL from the
conversion service and saves it as <host-and-path>-<timestamp>.md in the
output directory. Use --stdout to print the markdown instead, or --clipboard
to copy it.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("out-dir", "", "directory for downloaded files (default from output.dir)")
	convertCmd.Flags().Bool("stdout", false, "write the markdown to stdout instead of a file")
	convertCmd.Flags().Bool("clipboard", false, "copy the markdown to the clipboard instead of a file")
	convertCmd.Flags().Bool("json", false, "print a JSON summary of the conversion")
	viper.BindPFlag("output.dir", convertCmd.Flags().Lookup("out-dir"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	toStdout, _ := cmd.Flags().GetBool("stdout")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	asJSON, _ := cmd.Flags().GetBool("json")
	if toStdout && (toClipboard || asJSON) {
		return errors.New("--stdout cannot be combined with --clipboard or --json")
	}

	files := convert.FileSaver{Dir: cfg.Output.Dir}
	var saver convert.Saver = files
	switch {
	case toStdout:
		saver = convert.WriterSaver{W: os.Stdout}
	case toClipboard:
		saver = convert.ClipboardSaver{}
	}

	session := convert.New(
		reader.New(cfg.Reader),
		saver,
		convert.Notifiers{convert.WriterNotifier{W: os.Stderr}, convert.LogNotifier{Logger: zap.L()}},
		convert.WithServiceURL(cfg.Reader.BaseURL),
		convert.WithOnSubmit(func(url string) {
			zap.L().Debug("submitted", zap.String("url", url))
		}),
	)
	session.Open()
	session.SetText(args[0])

	conv, err := session.Submit(cmd.Context())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(conv)
	}
	if !toStdout && !toClipboard {
		fmt.Fprintf(os.Stderr, "saved: %s (%d bytes)\n", files.Path(conv.Filename), conv.Bytes)
	}
	return nil
}
