package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"contactboard/internal/domain"
	"contactboard/internal/storage"
)

func newExportCmd(withApp appRunner) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole dataset as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			data, err := a.repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			return encodeData(out, data, format)
		}),
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the dataset with a JSON or YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			data, err := decodeData(raw, formatFromPath(args[0]))
			if err != nil {
				return err
			}
			if err := a.repo.Replace(cmd.Context(), data); err != nil {
				return err
			}
			stats := data.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d boards and %d contacts\n", stats.Boards, stats.Contacts)
			return nil
		}),
	}
}

func newImportBrowserCmd(withApp appRunner) *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import-browser",
		Short: "Copy the data a browser deployment keeps in localStorage into the configured storage",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			ctx := cmd.Context()
			src, err := storage.OpenBrowserStore(ctx, url, timeout, a.log)
			if err != nil {
				return err
			}
			defer src.Close()

			raw, found, err := src.Get(ctx, a.cfg.Storage.Key)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no data under %q at %s", a.cfg.Storage.Key, url)
			}
			data, err := decodeData(raw, "json")
			if err != nil {
				return err
			}
			if err := a.repo.Replace(ctx, data); err != nil {
				return err
			}
			stats := data.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d boards and %d contacts from %s\n", stats.Boards, stats.Contacts, url)
			return nil
		}),
	}
	cmd.Flags().StringVar(&url, "url", "", "address of the running web app")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the page to load")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newSeedCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset storage to the default sample boards",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.repo.Save(cmd.Context(), domain.SeedData()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Storage reset to the sample boards")
			return nil
		}),
	}
}

func encodeData(w io.Writer, data domain.AppData, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func decodeData(raw []byte, format string) (domain.AppData, error) {
	var data domain.AppData
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(raw, &data)
	default:
		err = json.Unmarshal(raw, &data)
	}
	if err != nil {
		return domain.AppData{}, fmt.Errorf("decoding %s: %w", format, err)
	}
	if data.Boards == nil {
		return domain.AppData{}, errors.New("input has no boards list")
	}
	return data, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
