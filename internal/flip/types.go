package flip

import "fmt"

// Required CSV column names, in reporting order.
const (
	ColBrandName   = "brand_name"
	ColCompanyName = "companyName"
	ColContactName = "mainContactName"
	ColVendorEmail = "vendorMainContactEmail"
)

// Defaults substituted for absent optional fields.
const (
	DefaultDescription = "description"
	DefaultFoundedYear = 2024
	DefaultCountry     = "United States"
	DefaultInstagram   = "instagram.com"
	DefaultWebsite     = "website.com"
	DefaultSales       = "from1To5mln"
)

// BrandRecord is one parsed CSV row. All values arrive trimmed; Row is the
// 1-based position of the record in the file.
type BrandRecord struct {
	Row int

	BrandName       string
	CompanyName     string
	MainContactName string
	VendorEmail     string

	Description string
	FoundedYear string
	Country     string
	Instagram   string
	Website     string
	Phone       string
}

// Label identifies the record in results: the brand name, or a positional
// placeholder when the name itself is missing.
func (r BrandRecord) Label() string {
	if r.BrandName != "" {
		return r.BrandName
	}
	return fmt.Sprintf("Row %d", r.Row)
}

// MissingRequired returns the names of required columns that are empty,
// in reporting order.
func (r BrandRecord) MissingRequired() []string {
	var missing []string
	if r.BrandName == "" {
		missing = append(missing, ColBrandName)
	}
	if r.CompanyName == "" {
		missing = append(missing, ColCompanyName)
	}
	if r.MainContactName == "" {
		missing = append(missing, ColContactName)
	}
	if r.VendorEmail == "" {
		missing = append(missing, ColVendorEmail)
	}
	return missing
}

// BrandPayload is the onboarding request body sent to Flip.
type BrandPayload struct {
	Name                   string   `json:"name"`
	CompanyName            string   `json:"companyName"`
	Description            string   `json:"description"`
	CategoryList           []string `json:"categoryList"`
	FoundedInYear          int      `json:"foundedInYear"`
	CountryOfOrigin        string   `json:"countryOfOrigin"`
	InstagramURL           string   `json:"instagramUrl"`
	WebsiteURL             string   `json:"websiteUrl"`
	VendorMainContactEmail string   `json:"vendorMainContactEmail"`
	MainContactName        string   `json:"mainContactName"`
	Sales                  string   `json:"sales"`
	MainContactPhone       string   `json:"mainContactPhone"`
	Genders                []string `json:"genders"`
	BrandGoalsOnFlip       []string `json:"brandGoalsOnFlip"`
}

// RowResult is the per-row outcome returned to the uploader. Exactly one of
// Result or Error is set.
type RowResult struct {
	Brand  string `json:"brand"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
