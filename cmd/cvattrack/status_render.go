package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func statusMarker(passed, colorize bool) string {
	marker, color := "FAIL", ansiRed
	if passed {
		marker, color = "OK", ansiGreen
	}
	if !colorize {
		return marker
	}
	return color + marker + ansiReset
}
