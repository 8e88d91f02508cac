package main

import (
	"strings"
	"time"
)

// pathTokens pairs strftime tokens with the Go layout that renders them.
var pathTokens = [][2]string{
	{"%Y", "2006"},
	{"%m", "01"},
	{"%d", "02"},
	{"%H", "15"},
	{"%M", "04"},
	{"%S", "05"},
	{"%a", "Mon"},
	{"%b", "Jan"},
}

// expandLogPath replaces strftime tokens in a log file path with values
// from t. Only the tokens are formatted; the rest of the path is copied
// as is, so digits or words in directory names are never taken for Go
// layout elements.
func expandLogPath(path string, t time.Time) string {
	if !strings.Contains(path, "%") {
		return path
	}
	for _, tok := range pathTokens {
		path = strings.ReplaceAll(path, tok[0], t.Format(tok[1]))
	}
	return path
}
