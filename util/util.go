// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/ruvdl/ruvdl/filesystem"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeFilename replaces every character that is unsafe in a file name with an underscore.
// Spaces and non-ASCII letters are kept, so "Sammi brunavörður X" stays as is.
// The input is NFC-normalised first so composed and decomposed titles map to the same name.
func SanitizeFilename(filename string) string {
	filename = norm.NFC.String(strings.TrimSpace(filename))
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Ellipsize shortens s to fit the terminal width minus margin, or to fallback
// columns when stdout is not a terminal.
func Ellipsize(s string, margin, fallback int) string {
	width, _, err := TerminalSize()
	if err != nil || width <= margin {
		width = fallback + margin
	}
	return ellipsize(s, width-margin)
}

func ellipsize(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), "…")
}

// FileStem extracts the base filename from a path, excluding its extension.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// PrintErasable prints an ephemeral message to the terminal and returns a closure to clear it.
func PrintErasable(msg string) (eraser func()) {
	_, _ = fmt.Fprintf(os.Stdout, "\r%s", msg)
	return func() {
		_, _ = fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", len(msg)))
	}
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}

// Delete recursively removes a file or directory using the virtualized filesystem API.
func Delete(path string) error {
	fs := filesystem.API()
	stat, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}
