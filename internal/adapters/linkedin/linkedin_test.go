package linkedin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

const sessionJSON = `{
  "cookies": [
    {"name": "li_at", "value": "tok", "domain": ".www.linkedin.com", "path": "/",
     "expires": 4102444800, "httpOnly": true, "secure": true, "sameSite": "None"},
    {"name": "lang", "value": "v=2&lang=en-us", "domain": ".linkedin.com", "path": "/",
     "expires": -1, "httpOnly": false, "secure": true, "sameSite": "Lax"},
    {"name": "stale", "value": "x", "domain": ".linkedin.com", "path": "/",
     "expires": 1000, "httpOnly": false, "secure": false, "sameSite": "Strict"}
  ],
  "origins": []
}`

func writeSession(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkedin_session.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSession(t *testing.T) {
	cookies, err := LoadSession(writeSession(t, sessionJSON), time.Now())
	require.NoError(t, err)
	require.Len(t, cookies, 2, "expired cookie dropped")

	assert.Equal(t, "li_at", cookies[0].Name)
	assert.Equal(t, network.CookieSameSiteNone, cookies[0].SameSite)
	assert.True(t, cookies[0].HTTPOnly)
	require.NotNil(t, cookies[0].Expires)

	assert.Equal(t, "lang", cookies[1].Name)
	assert.Equal(t, network.CookieSameSiteLax, cookies[1].SameSite)
	assert.Nil(t, cookies[1].Expires, "session cookie has no expiry")
}

func TestLoadSession_Errors(t *testing.T) {
	_, err := LoadSession(filepath.Join(t.TempDir(), "missing.json"), time.Now())
	assert.True(t, errors.IsNotConfigured(err))

	_, err = LoadSession(writeSession(t, "{"), time.Now())
	assert.True(t, errors.IsInvalidInput(err))

	_, err = LoadSession(writeSession(t, `{"cookies":[{"name":"lang","value":"x"}]}`), time.Now())
	assert.True(t, errors.IsUnauthorized(err))
}

func TestNew_MissingSession(t *testing.T) {
	_, err := New(Config{}, logx.NewSilent())
	assert.True(t, errors.IsNotConfigured(err))

	_, err = New(Config{SessionPath: filepath.Join(t.TempDir(), "nope.json")}, logx.NewSilent())
	assert.True(t, errors.IsNotConfigured(err))
}

func TestNew_Close(t *testing.T) {
	s, err := New(Config{SessionPath: writeSession(t, sessionJSON), Headless: true}, logx.NewSilent())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, s.cfg.PageTimeout)
	assert.NoError(t, s.Close())
}

func TestCheckLocation(t *testing.T) {
	tests := []struct {
		location string
		check    func(error) bool
	}{
		{"https://www.linkedin.com/in/jdoe/", func(err error) bool { return err == nil }},
		{"https://www.linkedin.com/login?session_redirect=x", errors.IsUnauthorized},
		{"https://www.linkedin.com/authwall?trk=x", errors.IsUnauthorized},
		{"https://www.linkedin.com/checkpoint/lg/login", errors.IsUnauthorized},
		{"https://www.linkedin.com/404/", errors.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.True(t, tt.check(CheckLocation(tt.location)))
		})
	}
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/in/jdoe/", ProfileURL("jdoe"))
	assert.Equal(t, "https://www.linkedin.com/company/rogers-communications/", CompanyURL("rogers-communications"))
}

func TestProfileResult_ToDomain(t *testing.T) {
	raw := `{
		"name": " Jane Doe ",
		"title": "Engineer",
		"location": "Toronto, Ontario",
		"company": "Acme",
		"experiences": [
			{"title": "Engineer", "institution": "Acme", "dates": "2020 - Present"},
			{"title": null, "institution": "", "dates": null}
		],
		"educations": [{"institution": "UofT", "degree": null}, {"institution": "", "degree": "x"}],
		"interests": ["Go", " "]
	}`
	var res profileResult
	require.NoError(t, json.Unmarshal([]byte(raw), &res))
	require.False(t, res.empty())

	p := res.toDomain(ProfileURL("jdoe"))
	assert.Equal(t, "Jane Doe", domain.Deref(p.Name))
	assert.Nil(t, p.Email)
	require.Len(t, p.Experiences, 1)
	assert.Equal(t, "Acme", p.Experiences[0].Institution)
	require.Len(t, p.Educations, 1)
	assert.Nil(t, p.Educations[0].Degree)
	assert.Equal(t, []string{"Go"}, p.Interests)

	card := domain.ProfileCard(p)
	assert.Equal(t, []string{"Acme", "UofT"}, card.Companies)
	assert.Equal(t, []string{"Go", "Toronto, Ontario", "https://www.linkedin.com/in/jdoe/"}, card.Notes)
}

func TestProfileResult_Empty(t *testing.T) {
	var res profileResult
	require.NoError(t, json.Unmarshal([]byte(`{"name":null,"experiences":[],"educations":[],"interests":[]}`), &res))
	assert.True(t, res.empty())
}

func TestCompanyResult_ToDomain(t *testing.T) {
	var res companyResult
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Rogers","industry":"Telecommunications","phone":null}`), &res))

	c := res.toDomain(CompanyURL("rogers"))
	assert.Nil(t, c.Phone)
	assert.Nil(t, c.Website)
	assert.Equal(t, "Telecommunications", domain.Deref(c.Industry))

	card := domain.CompanyCard(c)
	assert.Equal(t, []string{"Telecommunications", "https://www.linkedin.com/company/rogers/"}, card.Notes)
}
