// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/ruvdl/ruvdl/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns every supported icons.variant value.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Warn
	Skip
	Download
	Series
)

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "x", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", squares: "🟩"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", squares: "🟦"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", squares: "🟨"},
	Skip:     {emoji: "⏭️", nerd: "", plain: "-", squares: "⬜"},
	Download: {emoji: "📥", nerd: "", plain: "↓", squares: "🟪"},
	Series:   {emoji: "📺", nerd: "", plain: "#", squares: "⬛"},
}

// Get returns the rendered symbol for i, or an empty string for an unknown variant.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.Get()
}
