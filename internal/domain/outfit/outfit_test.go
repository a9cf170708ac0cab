package outfit

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/drape/internal/domain/catalog"
)

func product(id, gender, category, color, price string) catalog.Item {
	return catalog.Item{
		ProductID: id,
		Name:      category + " " + id,
		Gender:    gender,
		Category:  category,
		Color:     color,
		Price:     price,
		ImageURL:  "https://img.example.com/" + id + ".jpg",
	}
}

func categories(o Outfit) []string {
	out := make([]string, len(o.Items))
	for i, it := range o.Items {
		out[i] = it.Category
	}
	return out
}

func set(colors ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		m[c] = struct{}{}
	}
	return m
}

func TestCompatible(t *testing.T) {
	Convey("Given the color compatibility rule", t, func() {
		Convey("When the outfit has no colors yet", func() {
			Convey("Then any color is accepted, even outside every set", func() {
				So(Compatible("teal", set()), ShouldBeTrue)
			})
		})

		Convey("When the color is neutral", func() {
			So(Compatible("beige", set("red")), ShouldBeTrue)
			So(Compatible("navy", set("orange")), ShouldBeTrue)
		})

		Convey("When the color shares a complementary set", func() {
			So(Compatible("tan", set("brown")), ShouldBeTrue)
			So(Compatible("blue", set("grey")), ShouldBeTrue)
			So(Compatible("green", set("beige")), ShouldBeTrue)
		})

		Convey("When the color fits nothing", func() {
			So(Compatible("red", set("navy")), ShouldBeFalse)
			So(Compatible("blue", set("brown")), ShouldBeFalse)
		})

		Convey("When the color is a compound name", func() {
			Convey("Then matching stays exact", func() {
				So(Compatible("navy blue", set("red")), ShouldBeFalse)
			})
		})
	})
}

func TestTotalPrice(t *testing.T) {
	Convey("Given item prices in mixed formats", t, func() {
		items := []catalog.Item{
			{Price: "$19.99"},
			{Price: "USD 5.01"},
			{Price: "call us"},
			{Price: "1.2.3"},
		}

		Convey("Then unparsable prices add zero and the total is rounded to cents", func() {
			So(TotalPrice(items), ShouldEqual, 25.0)
			So(TotalPrice(nil), ShouldEqual, 0)
		})
	})
}

func TestTemplate(t *testing.T) {
	Convey("Given the slot templates", t, func() {
		So(Template("Women"), ShouldResemble, [][]string{{"Shirt", "Blouse", "Top"}, {"Trousers", "Suit Trousers"}, {"Shoes"}})
		So(len(Template("Men")), ShouldEqual, 4)
		So(Template("Unisex"), ShouldResemble, Template("Men"))

		Convey("When a returned template is modified", func() {
			tpl := Template("Men")
			tpl[0][0] = "Hat"
			So(Template("Men")[0][0], ShouldEqual, "Shirt")
		})
	})
}

func TestComposeExact(t *testing.T) {
	Convey("Given one item per category", t, func() {
		c := NewComposer(WithSeed(1))

		Convey("When composing for men with every category", func() {
			items := []catalog.Item{
				product("s", "Men", "Shirt", "White", "$30"),
				product("b", "Men", "Blazer", "Navy", "$150.50"),
				product("t", "Men", "Trousers", "Grey", "$60"),
				product("f", "Men", "Formal Trousers", "Black", "$70"),
				product("h", "Men", "Shoes", "Black", "$90"),
				product("a", "Men", "Accessories", "Brown", "$20"),
			}
			outfits := c.Compose(items, "Men", 2)

			Convey("Then each outfit fills the four slots in order", func() {
				So(len(outfits), ShouldEqual, 2)
				for _, o := range outfits {
					So(categories(o), ShouldResemble, []string{"Shirt", "Blazer", "Trousers", "Shoes"})
					So(o.TotalPrice, ShouldEqual, 330.5)
					So(o.PrimaryColors, ShouldResemble, []string{"white", "navy", "grey", "black"})
					So(o.ID, ShouldNotBeEmpty)
				}
				So(outfits[0].ID, ShouldNotEqual, outfits[1].ID)
			})
		})

		Convey("When shoes are missing", func() {
			items := []catalog.Item{
				product("s", "Men", "Shirt", "White", "$30"),
				product("a", "Men", "Accessories", "Red", "$20"),
			}
			outfits := c.Compose(items, "Men", 1)

			Convey("Then accessories fill the last slot without a color check", func() {
				So(categories(outfits[0]), ShouldResemble, []string{"Shirt", "Accessories"})
			})
		})

		Convey("When a women outfit lacks shoes", func() {
			base := []catalog.Item{
				product("t", "Women", "Top", "Navy", "$40"),
				product("p", "Women", "Trousers", "Grey", "$50"),
			}

			Convey("Then an incompatible accessory is rejected", func() {
				items := append(base, product("a", "Women", "Accessories", "Red", "$10"))
				So(categories(c.Compose(items, "Women", 1)[0]), ShouldResemble, []string{"Top", "Trousers"})
			})

			Convey("Then a neutral accessory is added", func() {
				items := append(base, product("a", "Women", "Accessories", "Black", "$10"))
				o := c.Compose(items, "Women", 1)[0]
				So(categories(o), ShouldResemble, []string{"Top", "Trousers", "Accessories"})
				So(o.TotalPrice, ShouldEqual, 100)
			})
		})

		Convey("When only one usable item exists", func() {
			items := []catalog.Item{
				product("s", "Men", "Shirt", "White", "$30"),
				product("x", "Men", "Blazer", "Navy", "$99"),
			}
			items[1].ImageURL = "data:image/gif;base64,R0lGODlh"

			Convey("Then single-item outfits are valid", func() {
				outfits := c.Compose(items, "Men", 3)
				So(len(outfits), ShouldEqual, 3)
				So(categories(outfits[0]), ShouldResemble, []string{"Shirt"})
			})
		})

		Convey("When nothing is usable", func() {
			So(c.Compose(nil, "Men", 3), ShouldBeEmpty)
			So(c.Compose([]catalog.Item{product("d", "Men", "Dress", "Red", "$1")}, "Men", 3), ShouldBeEmpty)
			So(c.Compose([]catalog.Item{product("s", "Men", "Shirt", "Red", "$1")}, "Men", 0), ShouldBeEmpty)
		})
	})
}

func TestComposeProperties(t *testing.T) {
	Convey("Given a varied catalog", t, func() {
		var items []catalog.Item
		colors := []string{"Navy", "Black", "White", "Grey", "Brown", "Teal", "Red", "Beige"}
		cats := []string{"Shirt", "Blouse", "Top", "Blazer", "Trousers", "Suit Trousers", "Formal Trousers", "Shoes", "Accessories"}
		for _, g := range []string{"Men", "Women"} {
			for i, cat := range cats {
				for j := range 5 {
					id := fmt.Sprintf("%s-%d-%d", g, i, j)
					items = append(items, product(id, g, cat, colors[(i+j)%len(colors)], fmt.Sprintf("$%d.%02d", 10+i*j, j*7)))
				}
			}
		}

		for _, gender := range []string{"Men", "Women"} {
			Convey("When composing for "+gender, func() {
				outfits := NewComposer(WithRand(func() *rand.Rand { return rand.New(rand.NewSource(42)) })).Compose(items, gender, 5)

				Convey("Then every outfit respects slot uniqueness, gender and price", func() {
					So(len(outfits), ShouldEqual, 5)
					for _, o := range outfits {
						seen := map[string]bool{}
						var sum float64
						for _, it := range o.Items {
							So(seen[it.Category], ShouldBeFalse)
							seen[it.Category] = true
							So(it.Gender, ShouldEqual, gender)
							sum += it.PriceValue()
						}
						So(len(o.Items), ShouldBeBetweenOrEqual, 1, 4)
						So(o.TotalPrice, ShouldEqual, math.Round(sum*100)/100)
					}
				})
			})
		}

		Convey("When the same seed is used twice", func() {
			a := NewComposer(WithSeed(7)).Compose(items, "Men", 4)
			b := NewComposer(WithSeed(7)).Compose(items, "Men", 4)

			Convey("Then the outfits are identical, ids included", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the item cap is lowered", func() {
			outfits := NewComposer(WithSeed(3), WithMaxItems(2)).Compose(items, "Women", 3)

			Convey("Then no complementary item is added past the cap", func() {
				for _, o := range outfits {
					So(len(o.Items), ShouldEqual, 3)
				}
			})
		})
	})
}
