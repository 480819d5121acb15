package models

// Fabric is a material sold on its own, separate from Product.
type Fabric struct {
	ID               int64  `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	Origin           string `json:"origin" db:"origin"`
	PriceCents       int64  `json:"priceCents" db:"price_cents"`
	Size             string `json:"size" db:"size"`
	Description      string `json:"description" db:"description"`
	ImageFilename    string `json:"imageFilename" db:"image_filename"`
	RefImageFilename string `json:"refImageFilename" db:"ref_image_filename"` // legacy single reference image
	IsClearance      bool   `json:"isClearance" db:"is_clearance"`

	// nil means "no clearance price", which is different from 0.
	ClearancePriceCents *int64 `json:"clearancePriceCents,omitempty" db:"clearance_price_cents"`

	RefImages []FabricRef `json:"refImages,omitempty" db:"-"`
}

func (f Fabric) PriceDisplay() string {
	return FormatCents(f.PriceCents)
}

// ClearancePriceDisplay returns nil when no clearance price is set.
func (f Fabric) ClearancePriceDisplay() *string {
	if f.ClearancePriceCents == nil {
		return nil
	}
	s := FormatCents(*f.ClearancePriceCents)
	return &s
}

// ImageFilenames lists every upload owned by the fabric.
func (f Fabric) ImageFilenames() []string {
	var names []string
	for _, n := range []string{f.ImageFilename, f.RefImageFilename} {
		if n != "" {
			names = append(names, n)
		}
	}
	for _, r := range f.RefImages {
		if r.Filename != "" {
			names = append(names, r.Filename)
		}
	}
	return names
}

// FabricRef is one reference/sample photo of a Fabric.
type FabricRef struct {
	ID       int64  `json:"id" db:"id"`
	FabricID int64  `json:"fabricId" db:"fabric_id"`
	Filename string `json:"filename" db:"filename"`
}
