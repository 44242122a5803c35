package model

// Location identifies one of the fixed storage areas. The set is closed:
// three refrigerators and one cupboard, matching the persisted document keys.
type Location string

const (
	Refrigerator1 Location = "refrigerator_1"
	Refrigerator2 Location = "refrigerator_2"
	Refrigerator3 Location = "refrigerator_3"
	Cupboard      Location = "cupboard"
)

// Locations returns every storage location in its fixed traversal order.
func Locations() []Location {
	return []Location{Refrigerator1, Refrigerator2, Refrigerator3, Cupboard}
}

// Refrigerators returns the refrigeration locations in their fixed order.
func Refrigerators() []Location {
	return []Location{Refrigerator1, Refrigerator2, Refrigerator3}
}

func (l Location) Valid() bool {
	switch l {
	case Refrigerator1, Refrigerator2, Refrigerator3, Cupboard:
		return true
	}
	return false
}

// Title returns the operator-facing name shown on keyboards and in reports.
func (l Location) Title() string {
	switch l {
	case Refrigerator1:
		return "Refrigerator 1"
	case Refrigerator2:
		return "Refrigerator 2"
	case Refrigerator3:
		return "Refrigerator 3"
	case Cupboard:
		return "Cupboard"
	}
	return string(l)
}

// LocationFromTitle maps an operator-facing keyboard label back to its
// location. The second return is false for anything off the keyboard.
func LocationFromTitle(title string) (Location, bool) {
	for _, loc := range Locations() {
		if loc.Title() == title {
			return loc, true
		}
	}
	return "", false
}

// Item is a single stock record held under a location. Category is a
// free-text label and may be absent (persisted as null).
type Item struct {
	Quantity int     `json:"quantity"`
	Category *string `json:"category"`
}

// Document is the full inventory state: location -> item name -> record.
// It is also the shape of the persisted JSON document.
type Document map[Location]map[string]Item

// NewDocument returns a document with every location present and empty.
func NewDocument() Document {
	doc := make(Document, len(Locations()))
	for _, loc := range Locations() {
		doc[loc] = map[string]Item{}
	}
	return doc
}

// Clone returns a deep copy so callers can never alias the store's maps.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for loc, items := range d {
		out[loc] = CloneItems(items)
	}
	return out
}

func CloneItems(items map[string]Item) map[string]Item {
	out := make(map[string]Item, len(items))
	for name, it := range items {
		out[name] = it
	}
	return out
}

// ReorderAdvice is the advisory output of the stock check: how much of an
// item is left in the cupboard and how much to reorder.
type ReorderAdvice struct {
	Current     int
	Recommended int
}
