package format

import (
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
)

func GetPlatformAgnosticNewline() string {
	newline := "\n"
	if runtime.GOOS == "windows" {
		newline = "\r\n"
	}
	return newline
}

// Truncate keeps the first n characters of s. A negative n keeps everything.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// SingleLine strips ANSI escapes and folds newlines so a value fits one log line.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return stripansi.Strip(s)
}
