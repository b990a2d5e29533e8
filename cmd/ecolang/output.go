package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/viper"

	"github.com/ecolang-io/ecolang"
	"github.com/ecolang-io/ecolang/eco"
)

// printResultText writes program output to stdout and everything else,
// warnings, the error, and the eco summary, to stderr so output stays
// pipeable.
func printResultText(result *ecolang.Result) {
	if text := result.OutputText(); text != "" {
		fmt.Print(text)
		if result.Err != nil {
			fmt.Println()
		}
	}
	for _, warning := range result.Warnings {
		color.New(color.FgYellow).Fprintf(color.Error, "warning: %s\n", warning)
	}
	if result.Err != nil {
		color.New(color.FgRed).Fprint(color.Error, result.Err.FriendlyErrorMessage())
		return
	}
	if result.Eco != nil {
		printEcoSummary(result.Eco)
	}
}

func printResultJSON(result *ecolang.Result) error {
	var data []byte
	var err error
	if viper.GetBool("no-color") {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = prettyjson.Marshal(result)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printEcoSummary(report *eco.Report) {
	color.New(color.FgGreen).Fprintf(color.Error, "eco: %d ops, %s J, %s g CO2\n",
		report.TotalOps, formatReading(report.EnergyJ), formatReading(report.CO2Grams))
	for _, tip := range report.Tips {
		color.New(color.FgCyan).Fprintf(color.Error, "tip: %s\n", tip)
	}
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
