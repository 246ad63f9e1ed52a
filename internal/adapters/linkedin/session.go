package linkedin

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"

	"sleuth/internal/platform/errors"
)

// storageState is the session file written by Playwright's
// context.storage_state(). Only cookies are replayed.
type storageState struct {
	Cookies []struct {
		Name     string  `json:"name"`
		Value    string  `json:"value"`
		Domain   string  `json:"domain"`
		Path     string  `json:"path"`
		Expires  float64 `json:"expires"`
		HTTPOnly bool    `json:"httpOnly"`
		Secure   bool    `json:"secure"`
		SameSite string  `json:"sameSite"`
	} `json:"cookies"`
}

// LoadSession reads a storageState file into CDP cookie params. Expired
// cookies are dropped; a session with no live li_at cookie is rejected.
func LoadSession(path string, now time.Time) ([]*network.CookieParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotConfigured, "linkedin session %s not found", path)
		}
		return nil, fmt.Errorf("failed to read linkedin session: %w", err)
	}

	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse linkedin session: %v", err)
	}

	var (
		cookies []*network.CookieParam
		authed  bool
	)
	for _, c := range state.Cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: sameSite(c.SameSite),
		}
		// Playwright writes -1 for session cookies.
		if c.Expires > 0 {
			exp := time.Unix(int64(c.Expires), 0)
			if exp.Before(now) {
				continue
			}
			ts := cdp.TimeSinceEpoch(exp)
			p.Expires = &ts
		}
		if c.Name == "li_at" && c.Value != "" {
			authed = true
		}
		cookies = append(cookies, p)
	}

	if !authed {
		return nil, errors.Wrap(errors.ErrUnauthorized, "linkedin session has no valid li_at cookie")
	}
	return cookies, nil
}

func sameSite(s string) network.CookieSameSite {
	switch strings.ToLower(s) {
	case "strict":
		return network.CookieSameSiteStrict
	case "lax":
		return network.CookieSameSiteLax
	case "none":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}
