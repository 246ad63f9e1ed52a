package domain

// Profile is the scraped view of a LinkedIn member. Absent fields are nil
// and serialize as JSON null.
type Profile struct {
	Name        *string      `json:"name"`
	Title       *string      `json:"title"`
	Company     *string      `json:"company"`
	Location    *string      `json:"location"`
	LinkedInURL *string      `json:"linkedinUrl"`
	Email       *string      `json:"email"`
	Experiences []Experience `json:"experiences,omitempty"`
	Educations  []Education  `json:"educations,omitempty"`
	Interests   []string     `json:"interests,omitempty"`
}

// Experience is one position listed on a profile.
type Experience struct {
	Title       *string `json:"title"`
	Institution string  `json:"institution"`
	Dates       *string `json:"dates"`
}

// Education is one school listed on a profile.
type Education struct {
	Institution string  `json:"institution"`
	Degree      *string `json:"degree"`
}

// Company is the scraped view of a LinkedIn company page.
type Company struct {
	Name        *string `json:"name"`
	Industry    *string `json:"industry"`
	Phone       *string `json:"phone"`
	Website     *string `json:"website"`
	LinkedInURL *string `json:"linkedinUrl"`
}

// BoardCard is the detective-board payload returned by one-shot scrapes.
type BoardCard struct {
	Notes     []string `json:"notes"`
	People    []string `json:"people"`
	Companies []string `json:"companies"`
	Images    []string `json:"images"`
}

// NewBoardCard returns a card with empty, non-nil lists.
func NewBoardCard() BoardCard {
	return BoardCard{
		Notes:     []string{},
		People:    []string{},
		Companies: []string{},
		Images:    []string{},
	}
}

// ProfileCard places a profile's institutions under companies and its
// interests, location and URL under notes.
func ProfileCard(p *Profile) BoardCard {
	card := NewBoardCard()
	if p == nil {
		return card
	}
	for _, e := range p.Experiences {
		card.Companies = appendNonEmpty(card.Companies, e.Institution)
	}
	for _, e := range p.Educations {
		card.Companies = appendNonEmpty(card.Companies, e.Institution)
	}
	for _, i := range p.Interests {
		card.Notes = appendNonEmpty(card.Notes, i)
	}
	card.Notes = appendOpt(card.Notes, p.Location)
	card.Notes = appendOpt(card.Notes, p.LinkedInURL)
	return card
}

// CompanyCard lists phone, industry and URL as notes.
func CompanyCard(c *Company) BoardCard {
	card := NewBoardCard()
	if c == nil {
		return card
	}
	card.Notes = appendOpt(card.Notes, c.Phone)
	card.Notes = appendOpt(card.Notes, c.Industry)
	card.Notes = appendOpt(card.Notes, c.LinkedInURL)
	return card
}

// Str returns a pointer to s, or nil when s is empty.
func Str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *s or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func appendOpt(list []string, s *string) []string {
	if s == nil {
		return list
	}
	return appendNonEmpty(list, *s)
}

func appendNonEmpty(list []string, s string) []string {
	if s == "" {
		return list
	}
	return append(list, s)
}
