package target

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRemap(t *testing.T) {
	convey.Convey("Given a five bull target", t, func() {
		d := fiveBullOffset

		convey.Convey("When the shot is nearest the upper right bull", func() {
			x, y := Remap(d+3, d-2, TypeFiveBull)

			convey.Convey("Then it is reported relative to that bull", func() {
				convey.So(x, convey.ShouldAlmostEqual, 3.0, 1e-9)
				convey.So(y, convey.ShouldAlmostEqual, -2.0, 1e-9)
			})
		})

		convey.Convey("When the shot is near the centre bull", func() {
			x, y := Remap(1.5, -4, TypeFiveBull)

			convey.Convey("Then it is unchanged", func() {
				convey.So(x, convey.ShouldEqual, 1.5)
				convey.So(y, convey.ShouldEqual, -4.0)
			})
		})

		convey.Convey("When the shot is equidistant from two bulls", func() {
			x, y := Remap(0, d, TypeFiveBull)

			convey.Convey("Then the first bull in layout order wins", func() {
				convey.So(x, convey.ShouldAlmostEqual, d, 1e-9)
				convey.So(y, convey.ShouldAlmostEqual, 0.0, 1e-9)
			})
		})
	})

	convey.Convey("Given a twelve bull target", t, func() {
		h, v := twelveBullH, twelveBullV

		convey.Convey("When the shot lands near the bottom right bull", func() {
			x, y := Remap(h-1, -(v+v/2)+1, TypeTwelveBull)

			convey.Convey("Then it is reported relative to that bull", func() {
				convey.So(x, convey.ShouldAlmostEqual, -1.0, 1e-9)
				convey.So(y, convey.ShouldAlmostEqual, 1.0, 1e-9)
			})
		})
	})

	convey.Convey("Given an Orion twelve bull target", t, func() {
		convey.Convey("When the shot lands on the second row centre bull", func() {
			x, y := Remap(0.5, orion12V/2, TypeOrion12)

			convey.So(x, convey.ShouldAlmostEqual, 0.5, 1e-9)
			convey.So(y, convey.ShouldAlmostEqual, 0.0, 1e-9)
		})
	})

	convey.Convey("Given targets that are never remapped", t, func() {
		for _, typ := range []int{-1, TypeSingle, TypeSingleDecimal, 2, 3, 99} {
			x, y := Remap(12.5, -7.25, typ)
			convey.So(x, convey.ShouldEqual, 12.5)
			convey.So(y, convey.ShouldEqual, -7.25)
		}
	})

	convey.Convey("Given a shot far outside every layout", t, func() {
		x, y := Remap(200000, 0, TypeFiveBull)

		convey.Convey("Then it is left alone", func() {
			convey.So(x, convey.ShouldEqual, 200000.0)
			convey.So(y, convey.ShouldEqual, 0.0)
		})
	})
}

func TestLayouts(t *testing.T) {
	convey.Convey("Given the layout table", t, func() {
		convey.So(Types(), convey.ShouldResemble, []int{TypeFiveBull, TypeFiveBull79, TypeOrion12, TypeTwelveBull})

		convey.Convey("Then five bull targets have five bulls", func() {
			convey.So(Layouts[TypeFiveBull].Bulls, convey.ShouldHaveLength, 5)
			convey.So(Layouts[TypeFiveBull79].Bulls[1], convey.ShouldResemble, Point{39, 39})
		})

		convey.Convey("Then twelve bull targets have twelve bulls, top row first", func() {
			bulls := Layouts[TypeTwelveBull].Bulls
			convey.So(bulls, convey.ShouldHaveLength, 12)
			convey.So(bulls[0], convey.ShouldResemble, Point{-95.5, 97.5})
			convey.So(bulls[11], convey.ShouldResemble, Point{95.5, -97.5})
		})
	})
}
