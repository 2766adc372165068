package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/columna/pkg/formats/arrowconv"
	"github.com/ajitpratap0/columna/pkg/logger"
	"github.com/ajitpratap0/columna/pkg/table"
)

var version = "0.1.0"

func main() {
	initConfig()

	root := &cobra.Command{
		Use:   "columna",
		Short: "Columna - typed, null-aware columnar data tool",
		Long: `Columna loads delimited data into typed, null-aware columns and
computes statistics or converts between CSV, JSON and Arrow IPC.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    viper.GetString("log_level"),
				Encoding: "console",
			})
		},
	}

	root.PersistentFlags().String("log-level", viper.GetString("log_level"), "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(versionCmd(), statsCmd(), convertCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

func initConfig() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("csv.delimiter", ",")
	viper.SetDefault("csv.max_rows", 0)

	viper.SetConfigName("columna")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.columna")
	viper.SetEnvPrefix("COLUMNA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Columna v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func csvConfig() *table.CSVConfig {
	cfg := table.DefaultCSVConfig()
	if d := viper.GetString("csv.delimiter"); d != "" {
		cfg.Delimiter = rune(d[0])
	}
	cfg.MaxRows = viper.GetInt("csv.max_rows")
	return cfg
}

// loadTable reads a CSV or Arrow IPC file into a table, picked by
// file extension.
func loadTable(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ext := filepath.Ext(path); ext == ".arrow" || ext == ".ipc" {
		return arrowconv.ReadIPC(f)
	}
	return table.ReadCSV(f, csvConfig())
}

func statsCmd() *cobra.Command {
	var input string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute per-column statistics over a data file",
		Long: `Load a CSV or Arrow IPC file and print mean, standard deviation,
median, minimum and maximum for every numeric column. Empty cells are
treated as invalid rows and excluded from every statistic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(input)
			if err != nil {
				return err
			}
			logger.Info("loaded table",
				zap.String("file", input),
				zap.Int("rows", tbl.RowCount()),
				zap.Int("columns", tbl.ColumnCount()))
			return printStats(cmd, tbl, asJSON)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file, CSV or Arrow IPC (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit statistics as JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

type columnStats struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Valid   int     `json:"valid"`
	Invalid int     `json:"invalid"`
	Mean    float64 `json:"mean"`
	Stdev   float64 `json:"stdev"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

func printStats(cmd *cobra.Command, tbl *table.Table, asJSON bool) error {
	var all []columnStats
	for _, name := range tbl.Names() {
		c, err := tbl.Column(name)
		if err != nil {
			return err
		}
		if !c.Type().IsNumeric() || c.Type().IsComplex() || c.Type().IsArray() {
			continue
		}
		s := columnStats{
			Name:    name,
			Type:    c.Type().String(),
			Invalid: c.CountInvalid(),
		}
		s.Valid = c.Len() - s.Invalid
		if s.Valid > 0 {
			if s.Mean, err = c.Mean(); err != nil {
				return err
			}
			if s.Stdev, err = c.Stdev(); err != nil {
				return err
			}
			if s.Median, err = c.Median(); err != nil {
				return err
			}
			if s.Min, err = c.Min(); err != nil {
				return err
			}
			if s.Max, err = c.Max(); err != nil {
				return err
			}
		}
		all = append(all, s)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}
	for _, s := range all {
		fmt.Fprintf(out, "%s (%s): %d valid, %d invalid\n", s.Name, s.Type, s.Valid, s.Invalid)
		if s.Valid > 0 {
			fmt.Fprintf(out, "  mean=%g stdev=%g median=%g min=%g max=%g\n",
				s.Mean, s.Stdev, s.Median, s.Min, s.Max)
		}
	}
	return nil
}

func convertCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a data file between CSV, JSON and Arrow IPC",
		Long: `Load a CSV or Arrow IPC file and write it in the format picked by
the output extension: .arrow/.ipc for Arrow IPC, .json for column-wise
JSON. Invalid cells travel as Arrow validity-bitmap nulls or JSON
null.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(input)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			switch ext := filepath.Ext(output); ext {
			case ".arrow", ".ipc":
				err = arrowconv.WriteIPC(f, tbl)
			case ".json":
				enc := json.NewEncoder(f)
				enc.SetIndent("", "  ")
				err = enc.Encode(tbl)
			default:
				err = fmt.Errorf("unsupported output extension %q", ext)
			}
			if err != nil {
				return err
			}
			logger.Info("converted",
				zap.String("input", input),
				zap.String("output", output),
				zap.Int("rows", tbl.RowCount()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file, CSV or Arrow IPC (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file: .arrow, .ipc or .json (required)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
