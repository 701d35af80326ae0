package models

import (
	"strings"

	"gorm.io/datatypes"
)

// ListingPatch holds the seller-editable fields of a listing. Nil fields are
// left untouched; optional numerics named in Clear are set to NULL. Status, verification, ownership and counters are not part
// of it, so they cannot change through an edit.
type ListingPatch struct {
	Title                 *string
	Type                  *string
	Category              *string
	Description           *string
	ShortDescription      *string
	AskingPrice           *float64
	MinimumInvestment     *float64
	Location              *string
	District              *string
	Images                *[]string
	Documents             *[]ListingDocument
	RDBRegistrationNumber *string
	RRATIN                *string
	LandTitleNumber       *string
	ProjectedROI          *float64
	YearEstablished       *int
	Employees             *int
	AnnualRevenue         *float64
	Highlights            *[]string
	// Clear names optional numeric columns to reset to NULL. Entries outside
	// ClearableListingColumns are ignored.
	Clear []string
}

// ClearableListingColumns are the optional numeric columns a patch may null.
var ClearableListingColumns = []string{
	"minimum_investment",
	"projected_roi",
	"year_established",
	"employees",
	"annual_revenue",
}

func clearable(col string) bool {
	for _, c := range ClearableListingColumns {
		if c == col {
			return true
		}
	}
	return false
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Columns returns the column/value pairs to write.
func (p ListingPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	setStr := func(col string, v *string) {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}
	setStr("title", p.Title)
	setStr("type", p.Type)
	setStr("category", p.Category)
	setStr("description", p.Description)
	setStr("short_description", p.ShortDescription)
	setStr("location", p.Location)
	setStr("district", p.District)
	setStr("rdb_registration_number", p.RDBRegistrationNumber)
	setStr("rra_tin", p.RRATIN)
	setStr("land_title_number", p.LandTitleNumber)
	if p.AskingPrice != nil {
		cols["asking_price"] = *p.AskingPrice
	}
	if p.MinimumInvestment != nil {
		cols["minimum_investment"] = *p.MinimumInvestment
	}
	if p.ProjectedROI != nil {
		cols["projected_roi"] = *p.ProjectedROI
	}
	if p.YearEstablished != nil {
		cols["year_established"] = *p.YearEstablished
	}
	if p.Employees != nil {
		cols["employees"] = *p.Employees
	}
	if p.AnnualRevenue != nil {
		cols["annual_revenue"] = *p.AnnualRevenue
	}
	if p.Images != nil {
		cols["images"] = datatypes.JSONSlice[string](*p.Images)
	}
	if p.Documents != nil {
		cols["documents"] = datatypes.JSONSlice[ListingDocument](*p.Documents)
	}
	if p.Highlights != nil {
		cols["highlights"] = datatypes.JSONSlice[string](*p.Highlights)
	}
	for _, col := range p.Clear {
		if clearable(col) {
			cols[col] = nil
		}
	}
	return cols
}

// Apply writes the patch onto l in memory.
func (p ListingPatch) Apply(l *Listing) {
	str := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	str(&l.Title, p.Title)
	str(&l.Type, p.Type)
	str(&l.Category, p.Category)
	str(&l.Description, p.Description)
	str(&l.ShortDescription, p.ShortDescription)
	str(&l.Location, p.Location)
	str(&l.District, p.District)
	str(&l.RDBRegistrationNumber, p.RDBRegistrationNumber)
	str(&l.RRATIN, p.RRATIN)
	str(&l.LandTitleNumber, p.LandTitleNumber)
	if p.AskingPrice != nil {
		l.AskingPrice = *p.AskingPrice
	}
	if p.MinimumInvestment != nil {
		v := *p.MinimumInvestment
		l.MinimumInvestment = &v
	}
	if p.ProjectedROI != nil {
		v := *p.ProjectedROI
		l.ProjectedROI = &v
	}
	if p.YearEstablished != nil {
		v := *p.YearEstablished
		l.YearEstablished = &v
	}
	if p.Employees != nil {
		v := *p.Employees
		l.Employees = &v
	}
	if p.AnnualRevenue != nil {
		v := *p.AnnualRevenue
		l.AnnualRevenue = &v
	}
	if p.Images != nil {
		l.Images = append(datatypes.JSONSlice[string]{}, *p.Images...)
	}
	if p.Documents != nil {
		l.Documents = append(datatypes.JSONSlice[ListingDocument]{}, *p.Documents...)
	}
	if p.Highlights != nil {
		l.Highlights = append(datatypes.JSONSlice[string]{}, *p.Highlights...)
	}
	for _, col := range p.Clear {
		switch col {
		case "minimum_investment":
			l.MinimumInvestment = nil
		case "projected_roi":
			l.ProjectedROI = nil
		case "year_established":
			l.YearEstablished = nil
		case "employees":
			l.Employees = nil
		case "annual_revenue":
			l.AnnualRevenue = nil
		}
	}
}
