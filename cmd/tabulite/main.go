// Package main provides the CLI entry point for tabulite.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tabulite/adapters/excel"
	"tabulite/adapters/pdf"
	"tabulite/adapters/sqlite"
	"tabulite/app"
	"tabulite/domain/record"
	"tabulite/internal/logging"
)

var logLevel string

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "tabulite",
		Short: "Convert PDF and spreadsheet documents to SQLite databases",
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log severity")

	rootCmd.AddCommand(
		newConvertCmd(),
		newSheetsCmd(),
		newPreviewCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConvertCmd() *cobra.Command {
	var out string
	var sheets []string
	var workbookOut string

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert a document into a SQLite database, one table per sheet",
		Long: `Convert a spreadsheet (.xlsx, .xlsm, .csv) or a PDF into a SQLite
database. PDF tables are staged as an intermediate workbook first; when a PDF
has no tables its text lines are imported under a single Content column.

Example: tabulite convert report.xlsx --out report.db --sheets "Sales Data"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if _, err := os.Stat(input); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", input)
			}

			logger, err := logging.NewLogger(logging.Config{
				Component: "cli", Level: logLevel, Console: true,
			})
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := context.Background()
			sourcePath := input

			if strings.EqualFold(filepath.Ext(input), ".pdf") {
				staged, err := pdf.NewExtractor(input).PreConvert(ctx)
				if err != nil {
					return err
				}
				if len(staged) == 0 {
					fmt.Println("document produced no tables")
					return nil
				}
				if workbookOut == "" {
					workbookOut = trimExt(input) + ".xlsx"
				}
				if err := excel.WriteWorkbook(workbookOut, staged); err != nil {
					return err
				}
				fmt.Printf("intermediate workbook: %s\n", workbookOut)
				sourcePath = workbookOut
			}

			if out == "" {
				out = trimExt(input) + ".db"
			}

			store, err := sqlite.Open(out)
			if err != nil {
				return err
			}
			defer store.Close()

			service := app.NewConversionService(store, logger)
			report, err := service.ConvertSource(ctx, excel.NewSheetReader(sourcePath), sheets)
			if report != nil {
				printReport(report)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output database path (default: input name with .db)")
	cmd.Flags().StringSliceVar(&sheets, "sheets", nil, "Sheets to convert (default: all)")
	cmd.Flags().StringVar(&workbookOut, "workbook-out", "", "Path for the intermediate workbook on the PDF path")
	return cmd
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [input]",
		Short: "List the sheets of a spreadsheet in source order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := excel.NewSheetReader(args[0]).ListSheets()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newPreviewCmd() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview [database] [table]",
		Short: "Show the first rows of a materialized table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.Open(args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			rs, err := store.Preview(context.Background(), args[1], rows)
			if err != nil {
				return err
			}
			printRecordSet(rs)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 5, "Maximum rows to show")
	return cmd
}

func printReport(report *record.ConversionReport) {
	fmt.Printf("database: %s\n", report.StorePath)
	for _, res := range report.Results {
		fmt.Printf("  %s -> %s (%d rows, columns: %s)\n",
			res.SheetName, res.TableName, res.Rows, strings.Join(res.Columns, ", "))
	}
}

func printRecordSet(rs *record.RecordSet) {
	fmt.Println(strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		cells := make([]string, len(rs.Columns))
		for i, col := range rs.Columns {
			cells[i] = row[col].String()
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
