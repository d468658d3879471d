package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/lunarity-lang/lunarity/pkg/parser"
	"github.com/lunarity-lang/lunarity/pkg/version"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				Version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if len(setting.Value) >= 7 {
						GitCommit = setting.Value[:7]
					}
				case "vcs.time":
					BuildTime = setting.Value
				}
			}
		}
	}
}

var (
	outputFile  string
	withLoc     bool
	withRange   bool
	tolerant    bool
	prettyPrint bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lunarity",
		Short: "lunarity: a parser for the lunarity smart-contract language",
		Long: `lunarity parses lunarity source files and exposes their
arena-resident AST as JSON, or just checks syntax.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	}

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a lunarity file and print its AST as JSON",
		Long: `Parse a lunarity file and output the Abstract Syntax Tree as JSON.
If no file is specified or '-' is given, reads from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().BoolVar(&withLoc, "loc", false, "Passed to the parser; has no effect on the output")
	parseCmd.Flags().BoolVar(&withRange, "range", false, "Passed to the parser; has no effect (nodes always carry byte ranges)")
	parseCmd.Flags().BoolVar(&tolerant, "tolerant", false, "Tolerant mode (collect errors and resynchronize)")
	parseCmd.Flags().BoolVarP(&prettyPrint, "pretty", "p", true, "Pretty print JSON output")

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate lunarity syntax without printing an AST",
		Long: `Validate the syntax of a lunarity file.
Returns exit code 0 if valid, 1 if there are syntax errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}

	versionCmd := &cobra.Command{
		Use:   "version-detect [file]",
		Short: "Detect the lunarity version pragma",
		Long:  `Detect the version constraints from a file's pragma lunarity directive.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runVersionDetect,
	}

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	opts := &parser.Options{
		Tolerant: tolerant,
		Loc:      withLoc,
		Range:    withRange,
	}

	result, err := parser.Parse(input, opts)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	var output []byte
	if prettyPrint {
		output, err = json.MarshalIndent(result.Root, "", "  ")
	} else {
		output, err = json.Marshal(result.Root)
	}
	if err != nil {
		return fmt.Errorf("JSON encoding error: %w", err)
	}

	return writeOutput(output)
}

func runValidate(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	opts := &parser.Options{Tolerant: true}

	_, err = parser.Parse(input, opts)
	if err != nil {
		if parserErr, ok := err.(*parser.ParserError); ok {
			fmt.Fprintf(os.Stderr, "Syntax errors found:\n")
			for _, e := range parserErr.Errors {
				fmt.Fprintf(os.Stderr, "  line %d:%d: %s\n", e.Line, e.Column, e.Message)
			}
			os.Exit(1)
		}
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Println("Syntax OK")
	return nil
}

func runVersionDetect(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	detected, err := version.Detect(input)
	if err != nil {
		return fmt.Errorf("version detection error: %w", err)
	}

	fmt.Printf("Pragma: %s\n", detected.Raw)
	for _, c := range detected.Constraints {
		if c.Comparator == "" {
			fmt.Printf("  = %s\n", c.Version)
		} else {
			fmt.Printf("  %s %s\n", c.Comparator, c.Version)
		}
	}

	return nil
}

func readInput(args []string) (string, error) {
	var reader io.Reader

	if len(args) == 0 || args[0] == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot open file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("cannot read input: %w", err)
	}

	return string(content), nil
}

func writeOutput(data []byte) error {
	var writer io.Writer

	if outputFile == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	if outputFile == "" {
		fmt.Println()
	}

	return nil
}
