package cli

import (
	"fmt"
	"os"
	"strings"
)

const (
	ResetCode = "\033[0m"
	BoldCode  = "\033[1m"
	DimCode   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// RGB is a TrueColor triple.
type RGB struct {
	R, G, B float64
}

var (
	Saffron  = RGB{244, 162, 36}
	Paprika  = RGB{200, 50, 40}
	Pandan   = RGB{80, 170, 90}
	Charcoal = RGB{51, 65, 85}
)

var disabled = noColor()

func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// Enabled reports whether ANSI styling is emitted.
func Enabled() bool { return !disabled }

// SetEnabled overrides NO_COLOR detection.
func SetEnabled(on bool) { disabled = !on }

func Style(text string, code string) string {
	if disabled {
		return text
	}
	return code + text + ResetCode
}

func Bold(text string) string { return Style(text, BoldCode) }

func ColorizeRGB(text string, c RGB) string {
	if disabled {
		return text
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm%s%s", int(c.R), int(c.G), int(c.B), text, ResetCode)
}

// Gradient colors text with the color at progress (0..1) between start and end.
func Gradient(text string, start, end RGB, progress float64) string {
	return ColorizeRGB(text, RGB{
		R: start.R + (end.R-start.R)*progress,
		G: start.G + (end.G-start.G)*progress,
		B: start.B + (end.B-start.B)*progress,
	})
}

// Banner renders lines with a vertical gradient from start to end.
func Banner(lines []string, start, end RGB) string {
	var b strings.Builder
	for i, line := range lines {
		progress := 0.0
		if len(lines) > 1 {
			progress = float64(i) / float64(len(lines)-1)
		}
		b.WriteString(Gradient(line, start, end, progress))
		b.WriteByte('\n')
	}
	return b.String()
}

func CheckMark() string { return Style("✔", Green) }
func CrossMark() string { return Style("✘", Red) }
func Arrow() string     { return Style("➜", Blue) }
