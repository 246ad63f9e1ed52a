package linkedin

import (
	"strings"

	"sleuth/internal/core/domain"
)

type profileResult struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	Location    *string `json:"location"`
	Company     *string `json:"company"`
	Experiences []struct {
		Title       *string `json:"title"`
		Institution string  `json:"institution"`
		Dates       *string `json:"dates"`
	} `json:"experiences"`
	Educations []struct {
		Institution string  `json:"institution"`
		Degree      *string `json:"degree"`
	} `json:"educations"`
	Interests []string `json:"interests"`
}

func (r profileResult) empty() bool {
	return r.Name == nil && r.Title == nil && len(r.Experiences) == 0 && len(r.Educations) == 0
}

func (r profileResult) toDomain(pageURL string) *domain.Profile {
	p := &domain.Profile{
		Name:        trimmed(r.Name),
		Title:       trimmed(r.Title),
		Company:     trimmed(r.Company),
		Location:    trimmed(r.Location),
		LinkedInURL: domain.Str(pageURL),
	}
	for _, e := range r.Experiences {
		if e.Institution == "" && e.Title == nil {
			continue
		}
		p.Experiences = append(p.Experiences, domain.Experience{
			Title:       trimmed(e.Title),
			Institution: strings.TrimSpace(e.Institution),
			Dates:       trimmed(e.Dates),
		})
	}
	for _, e := range r.Educations {
		if e.Institution == "" {
			continue
		}
		p.Educations = append(p.Educations, domain.Education{
			Institution: strings.TrimSpace(e.Institution),
			Degree:      trimmed(e.Degree),
		})
	}
	for _, i := range r.Interests {
		if i = strings.TrimSpace(i); i != "" {
			p.Interests = append(p.Interests, i)
		}
	}
	return p
}

type companyResult struct {
	Name     *string `json:"name"`
	Industry *string `json:"industry"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
}

func (r companyResult) empty() bool {
	return r.Name == nil && r.Industry == nil && r.Phone == nil && r.Website == nil
}

func (r companyResult) toDomain(pageURL string) *domain.Company {
	return &domain.Company{
		Name:        trimmed(r.Name),
		Industry:    trimmed(r.Industry),
		Phone:       trimmed(r.Phone),
		Website:     trimmed(r.Website),
		LinkedInURL: domain.Str(pageURL),
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.Str(strings.TrimSpace(*s))
}
