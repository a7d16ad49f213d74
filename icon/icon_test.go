package icon

import (
	"testing"

	"github.com/ruvdl/ruvdl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Download

		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(target), ShouldNotBeEmpty)
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(target), ShouldBeEmpty)
		})
	})

	Convey("Every icon should define every variant", t, func() {
		for i, def := range icons {
			So(i, ShouldBeGreaterThan, 0)
			So(def.emoji, ShouldNotBeEmpty)
			So(def.nerd, ShouldNotBeEmpty)
			So(def.plain, ShouldNotBeEmpty)
			So(def.squares, ShouldNotBeEmpty)
		}
	})
}
