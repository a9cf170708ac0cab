package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	. "github.com/smartystreets/goconvey/convey"
)

func item(id, gender, category, color string) Item {
	return Item{
		ProductID: id,
		Name:      category + " " + id,
		Gender:    gender,
		Category:  category,
		Color:     color,
		Price:     "$49.99",
		Brand:     "Acme",
		ImageURL:  "https://img.example.com/" + id + ".jpg",
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ProductID
	}
	return out
}

func TestFilter(t *testing.T) {
	Convey("Given a mixed catalog", t, func() {
		idx := NewIndex([]Item{
			item("m1", "Men", "Shirt", "Navy Blue"),
			item("m2", "Men", "Blazer", "Charcoal"),
			item("m3", "Men", "Trousers", "Black"),
			item("m4", "Men", "Shoes", "Tan"),
			item("m5", "Men", "Shirt", "Blue"),
			item("w1", "Women", "Top", "Red"),
			item("w2", "Women", "Trousers", ""),
			item("w3", "Women", "Shoes", "Navy"),
		})

		Convey("When women ask for navy", func() {
			got := idx.Filter("Women", []string{"Navy"})

			Convey("Then the whole gender slice is returned unfiltered", func() {
				So(ids(got), ShouldResemble, []string{"w1", "w2", "w3"})
			})
		})

		Convey("When the gender casing differs", func() {
			Convey("Then the match is exact and nothing is returned", func() {
				So(idx.Filter("men", []string{"Navy"}), ShouldBeEmpty)
			})
		})

		Convey("When men ask for navy", func() {
			got := idx.Filter("Men", []string{"Navy"})

			Convey("Then aliases expand the match and results are unique in discovery order", func() {
				// Navy -> Navy, Navy Blue, Blue: m1 matches "navy", m5 matches "blue".
				So(ids(got), ShouldResemble, []string{"m1", "m5"})
			})
		})

		Convey("When men ask for several colors", func() {
			got := idx.Filter("Men", []string{"Grey", "Brown", "Navy"})
			So(ids(got), ShouldResemble, []string{"m2", "m4", "m1", "m5"})
		})

		Convey("When no color list is given", func() {
			got := idx.Filter("Men", nil)

			Convey("Then safe colors match exactly", func() {
				So(ids(got), ShouldResemble, []string{"m3", "m5"})
			})
		})

		Convey("When no color matches", func() {
			got := idx.Filter("Men", []string{"Lavender"})

			Convey("Then the gender slice is returned", func() {
				So(ids(got), ShouldResemble, []string{"m1", "m2", "m3", "m4", "m5"})
			})
		})

		Convey("When the gender is unknown", func() {
			So(idx.Filter("Kids", []string{"Navy"}), ShouldBeEmpty)
		})
	})

	Convey("Given a large gender slice without color matches", t, func() {
		var items []Item
		for i := range 80 {
			items = append(items, item(fmt.Sprintf("p%02d", i), "Men", "Shirt", "Ochre"))
		}
		idx := NewIndex(items)

		Convey("Then the fallback is capped at the first 50 items", func() {
			got := idx.Filter("Men", []string{"Navy"})
			So(len(got), ShouldEqual, 50)
			So(got[0].ProductID, ShouldEqual, "p00")
			So(got[49].ProductID, ShouldEqual, "p49")
		})
	})
}

func TestIndexIdentity(t *testing.T) {
	Convey("Given rows without product ids", t, func() {
		a := Item{Name: "Oxford", Gender: "Men", Category: "Shirt", Color: "White"}
		b := a
		c := Item{Name: "Oxford", Gender: "Men", Category: "Shirt", Color: "Navy"}
		idx := NewIndex([]Item{a, b, c})

		Convey("Then identical rows collapse onto one fingerprinted item", func() {
			items := idx.Items()
			So(len(items), ShouldEqual, 2)
			So(items[0].ProductID, ShouldEqual, a.Fingerprint())
			So(items[1].ProductID, ShouldEqual, c.Fingerprint())
			So(items[0].ProductID, ShouldNotEqual, items[1].ProductID)
		})

		Convey("Then filtering sees each product once", func() {
			So(len(idx.Filter("Men", []string{"White", "Navy"})), ShouldEqual, 2)
		})
	})

	Convey("Given rows sharing a product id", t, func() {
		first := item("p1", "Men", "Shirt", "Navy")
		second := item("p1", "Men", "Shirt", "Grey")
		idx := NewIndex([]Item{first, second, item("p2", "Women", "Top", "Red")})

		Convey("Then the first row wins", func() {
			So(idx.Len(), ShouldEqual, 2)
			So(idx.ByGender("Men"), ShouldResemble, []Item{first})
		})

		Convey("Then genders are listed once in sorted order", func() {
			So(idx.Genders(), ShouldResemble, []string{"Men", "Women"})
		})
	})
}

func TestItem(t *testing.T) {
	Convey("Given item prices", t, func() {
		So(Item{Price: "$1,299.50"}.PriceValue(), ShouldEqual, 1299.5)
		So(Item{Price: "Rs. 899"}.PriceValue(), ShouldEqual, 899)
		So(Item{Price: "free"}.PriceValue(), ShouldEqual, 0)
		So(Item{Price: "1.2.3"}.PriceValue(), ShouldEqual, 0)
		So(Item{Price: ""}.PriceValue(), ShouldEqual, 0)
	})

	Convey("Given item images", t, func() {
		So(Item{ImageURL: "https://x/y.jpg"}.Available(), ShouldBeTrue)
		So(Item{ImageURL: ""}.Available(), ShouldBeFalse)
		So(Item{ImageURL: "nan"}.Available(), ShouldBeFalse)
		So(Item{ImageURL: "data:image/gif;base64,R0lGOD"}.Available(), ShouldBeFalse)
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a searchable catalog", t, func() {
		idx := NewIndex([]Item{
			{ProductID: "1", Gender: "Men", Category: "Formal Trousers", Color: "Grey", Brand: "Tailor & Co", Price: "$80"},
			{ProductID: "2", Gender: "Men", Category: "Trousers", Color: "Navy", Brand: "Acme", Price: "$120"},
			{ProductID: "3", Gender: "Men", Category: "Shirt", Color: "White", Brand: "Acme", Price: "ask"},
			{ProductID: "4", Gender: "Women", Category: "Trousers", Color: "Grey", Brand: "Acme", Price: "$60"},
		})

		Convey("When searching by category substring", func() {
			So(ids(idx.Search(SearchQuery{Gender: "Men", Category: "trousers"})), ShouldResemble, []string{"1", "2"})
		})

		Convey("When capping the price", func() {
			So(ids(idx.Search(SearchQuery{Gender: "Men", MaxPrice: 100})), ShouldResemble, []string{"1"})
		})

		Convey("When filtering by brand and color", func() {
			So(ids(idx.Search(SearchQuery{Gender: "Men", Brand: "acme", Color: "whi"})), ShouldResemble, []string{"3"})
		})

		Convey("When many items match", func() {
			var items []Item
			for i := range 25 {
				items = append(items, Item{ProductID: fmt.Sprint(i), Gender: "Men", Category: "Shirt"})
			}
			So(len(NewIndex(items).Search(SearchQuery{Gender: "Men"})), ShouldEqual, 10)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		s := NewSnapshot(nil)
		So(s.Current(), ShouldNotBeNil)
		So(s.Current().Len(), ShouldEqual, 0)

		Convey("When a new index is swapped in", func() {
			held := s.Current()
			prev := s.Swap(NewIndex([]Item{item("a", "Men", "Shirt", "Navy")}))

			Convey("Then readers holding the old index are unaffected", func() {
				So(prev, ShouldEqual, held)
				So(held.Len(), ShouldEqual, 0)
				So(s.Current().Len(), ShouldEqual, 1)
			})
		})
	})
}

const sampleCSV = `product_name,gender,product_category,color,price,brand,image_url,product_page_url,source_page
Slim Shirt,Men,Shirt,Navy,$39.99,Acme,https://img/1.jpg,https://shop/1,shop
Wool Blazer,Men,Blazer,NaN,$199,Acme,nan,https://shop/2,shop
"Pleated, Trousers",Women,Trousers,Grey,,Loom,https://img/3.jpg,https://shop/3,shop
`

func TestReadCSV(t *testing.T) {
	Convey("Given a CSV catalog", t, func() {
		items, err := ReadCSV(strings.NewReader(sampleCSV))

		Convey("Then rows are parsed and NA markers blanked", func() {
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 3)
			So(items[0].Name, ShouldEqual, "Slim Shirt")
			So(items[0].ProductURL, ShouldEqual, "https://shop/1")
			So(items[1].Color, ShouldEqual, "")
			So(items[1].ImageURL, ShouldEqual, "")
			So(items[2].Name, ShouldEqual, "Pleated, Trousers")
			So(items[2].Price, ShouldEqual, "")
		})

		Convey("When a required column is missing", func() {
			_, err := ReadCSV(strings.NewReader("gender,color\nMen,Navy\n"))
			So(err, ShouldWrap, ErrMissingColumn)
		})
	})
}

func TestLoader(t *testing.T) {
	Convey("Given catalog files on disk", t, func() {
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "a.csv")
		So(os.WriteFile(csvPath, []byte(sampleCSV), 0o600), ShouldBeNil)

		parquetPath := filepath.Join(dir, "b.parquet")
		f, err := os.Create(parquetPath)
		So(err, ShouldBeNil)
		w := parquet.NewGenericWriter[parquetRow](f)
		_, err = w.Write([]parquetRow{
			{ProductID: "pq-1", Name: "Derby", Gender: "Men", Category: "Shoes", Color: "Black", Price: "$90", ImageURL: "https://img/4.jpg"},
			{ProductID: "pq-2", Name: "Belt", Gender: "Men", Category: "Accessories", Color: "None", Price: "$20", ImageURL: "https://img/5.jpg"},
		})
		So(err, ShouldBeNil)
		So(w.Close(), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		Convey("When both are loaded", func() {
			idx, err := NewLoader(WithLoadConcurrency(2)).Load(context.Background(), csvPath, parquetPath)

			Convey("Then rows are indexed in path order", func() {
				So(err, ShouldBeNil)
				So(idx.Len(), ShouldEqual, 5)
				items := idx.Items()
				So(items[0].Name, ShouldEqual, "Slim Shirt")
				So(items[3].ProductID, ShouldEqual, "pq-1")
				So(items[4].Color, ShouldEqual, "")
				So(len(idx.ByGender("Men")), ShouldEqual, 4)
			})
		})

		Convey("When the same file is listed twice", func() {
			idx, err := NewLoader().Load(context.Background(), csvPath, csvPath)

			Convey("Then the repeated rows are dropped", func() {
				So(err, ShouldBeNil)
				So(idx.Len(), ShouldEqual, 3)
			})
		})

		Convey("When a file has an unknown extension", func() {
			_, err := NewLoader().Load(context.Background(), csvPath, filepath.Join(dir, "c.xlsx"))
			So(err, ShouldWrap, ErrUnsupportedFormat)
		})

		Convey("When a file is missing", func() {
			_, err := NewLoader().Load(context.Background(), filepath.Join(dir, "missing.csv"))
			So(err, ShouldWrap, ErrLoadCatalog)
		})
	})
}
