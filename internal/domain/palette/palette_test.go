package palette

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSeason(t *testing.T) {
	Convey("Given season labels", t, func() {
		Convey("When the label is known", func() {
			So(ParseSeason("spring"), ShouldEqual, Spring)
			So(ParseSeason(" Summer "), ShouldEqual, Summer)
			So(ParseSeason("AUTUMN"), ShouldEqual, Autumn)
			So(ParseSeason("winter"), ShouldEqual, Winter)
			So(Known("Autumn"), ShouldBeTrue)
		})

		Convey("When the label is unknown", func() {
			Convey("Then winter is used", func() {
				So(ParseSeason(""), ShouldEqual, Winter)
				So(ParseSeason("monsoon"), ShouldEqual, Winter)
				So(Known("monsoon"), ShouldBeFalse)
			})
		})
	})
}

func TestTables(t *testing.T) {
	Convey("Given the season tables", t, func() {
		Convey("Then every season has complete lists", func() {
			for _, s := range Seasons() {
				So(len(Recommended(s)), ShouldEqual, 8)
				So(len(Avoid(s)), ShouldEqual, 5)
				So(len(InterviewSafe(s)), ShouldEqual, 5)
				So(len(SeasonColors(s)), ShouldEqual, 6)
				So(InterviewSafe(s)[0], ShouldEqual, "Navy")
			}
		})

		Convey("Then known entries match the style guide", func() {
			So(InterviewSafe(Autumn), ShouldResemble, []string{"Navy", "Warm Brown", "Olive Green", "Cream", "Deep Teal"})
			So(Avoid(Winter), ShouldResemble, []string{"Beige", "Orange", "Yellow", "Brown", "Peach"})
			So(SeasonColors(Summer), ShouldResemble, []string{"Powder Blue", "Soft Pink", "Lavender", "Grey", "Navy", "White"})
		})

		Convey("When an unknown season is requested", func() {
			Convey("Then the winter tables are returned", func() {
				So(Recommended("monsoon"), ShouldResemble, Recommended(Winter))
				So(Lookup("monsoon"), ShouldResemble, Lookup(Winter))
			})
		})

		Convey("When a returned slice is modified", func() {
			colors := InterviewSafe(Spring)
			colors[0] = "Magenta"

			Convey("Then the table is unchanged", func() {
				So(InterviewSafe(Spring)[0], ShouldEqual, "Navy")
			})
		})
	})
}

func TestAliases(t *testing.T) {
	Convey("Given the alias table", t, func() {
		So(Aliases("Navy"), ShouldResemble, []string{"Navy", "Navy Blue", "Blue"})
		So(Aliases("Brown"), ShouldResemble, []string{"Brown", "Tan", "Beige", "Sand"})

		Convey("When a color has no alias entry", func() {
			Convey("Then it expands to itself", func() {
				So(Aliases("Deep Teal"), ShouldResemble, []string{"Deep Teal"})
				So(Aliases("navy"), ShouldResemble, []string{"navy"})
			})
		})

		Convey("When an expansion is modified", func() {
			a := Aliases("Grey")
			a[0] = "Silver"
			So(Aliases("Grey")[0], ShouldEqual, "Grey")
		})
	})
}
