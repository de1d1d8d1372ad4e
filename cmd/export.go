package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/aiready/internal/report"
	"github.com/abhisek/aiready/internal/store"
)

const formatAll = "all"

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a diagnosis as JSON, CSV, PDF or a radar chart",
	Long: "Export a diagnosis to files named diagnosis-<id>.<format>.\n\n" +
		"Formats: " + strings.Join(report.Formats, ", ") + ", or all.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		formats := []string{format}
		if format == formatAll {
			formats = report.Formats
		} else if report.ContentType(format) == "" {
			return fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = a.cfg.Report.OutputDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		rec, err := a.svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		paths, err := exportAll(a, rec, formats, dir)
		for _, p := range paths {
			if p != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", p)
			}
		}
		return err
	},
}

// exportAll renders formats concurrently and writes each to dir. A failed
// format does not stop the others; paths[i] is empty when formats[i] failed.
func exportAll(a *app, rec *store.Diagnosis, formats []string, dir string) ([]string, error) {
	paths := make([]string, len(formats))
	errs := make([]error, len(formats))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, format := range formats {
		g.Go(func() error {
			errs[i] = func() error {
				data, err := a.exp.Export(format, rec)
				if err != nil {
					return err
				}
				path := filepath.Join(dir, report.Filename(rec, format))
				if err := os.WriteFile(path, data, 0o644); err != nil {
					a.log.Error("write export", zap.String("path", path), zap.Error(err))
					return fmt.Errorf("write %s: %w", path, err)
				}
				paths[i] = path
				return nil
			}()
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		return paths, errors.Join(errs...)
	}
	return paths, nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", report.FormatPDF, "Export format, or \"all\"")
	exportCmd.Flags().StringP("out", "o", "", "Output directory (default from config report.output_dir)")
}
