// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"c0c/internal/driver"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: cc <source.c0> <output>")
		os.Exit(driver.ExitLexOrParse)
	}

	sourcePath, outPath := os.Args[1], os.Args[2]

	result := driver.Compile(sourcePath, outPath)
	if result.ExitCode == driver.ExitOK {
		color.Green("compiled %s -> %s", sourcePath, outPath)
	} else {
		color.Red("compilation failed (exit %d)", result.ExitCode)
	}

	os.Exit(result.ExitCode)
}
