package domain

// CatalogKind names one of the lookup tables referenced by cards and publications.
type CatalogKind string

const (
	CatalogCategories        CatalogKind = "categories"
	CatalogCardTypes         CatalogKind = "card-types"
	CatalogColors            CatalogKind = "colors"
	CatalogProductStates     CatalogKind = "product-states"
	CatalogPublicationStates CatalogKind = "publication-states"
)

var catalogTables = map[CatalogKind]string{
	CatalogCategories:        "categories",
	CatalogCardTypes:         "card_types",
	CatalogColors:            "colors",
	CatalogProductStates:     "product_states",
	CatalogPublicationStates: "publication_states",
}

// CatalogKinds lists every supported kind.
func CatalogKinds() []CatalogKind {
	return []CatalogKind{
		CatalogCategories,
		CatalogCardTypes,
		CatalogColors,
		CatalogProductStates,
		CatalogPublicationStates,
	}
}

// Table returns the backing table name and whether the kind is known.
func (k CatalogKind) Table() (string, bool) {
	t, ok := catalogTables[k]
	return t, ok
}

// CatalogEntry is a row of any lookup table.
type CatalogEntry struct {
	ID          uint   `json:"id"          gorm:"primaryKey"`
	Name        string `json:"name"        gorm:"size:128;not null"`
	Description string `json:"description"`
}
