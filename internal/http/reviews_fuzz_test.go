package httpserver

import (
	"net/url"
	"testing"
)

func FuzzParsePage(f *testing.F) {
	seeds := []string{
		"page=1&limit=10",
		"page=abc",
		"limit=-5",
		"page=999999999999999999999",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		page := parsePage(values)
		if page.Number < 1 || page.Limit < 1 {
			t.Errorf("parsePage(%q) produced invalid page %+v", raw, page)
		}
	})
}
