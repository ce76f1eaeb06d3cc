// Package country defines the country records served by the backend and the
// client-side catalogue built from them.
package country

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a country. The backend may send it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s, err := decodeText(b)
	if err != nil {
		return fmt.Errorf("country id: %w", err)
	}
	*id = ID(s)
	return nil
}

// Text is a string field that may also arrive as a JSON number.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	s, err := decodeText(b)
	if err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

func decodeText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if b[0] == '"' {
		var s string
		err := json.Unmarshal(b, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// StringList decodes from either a JSON array of strings or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = nil
		return nil
	case b[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(StringList, 0, len(raw))
		for _, r := range raw {
			s, err := decodeText(r)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*l = out
		return nil
	default:
		s, err := decodeText(b)
		if err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
}

// Summary is a row in the country list.
type Summary struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Alpha2Code string `json:"alpha2_code"`
	Alpha3Code string `json:"alpha3_code"`
	Flag       string `json:"flag"`
	Capital    string `json:"capital,omitempty"`
}

// Detail is the full record for one country.
type Detail struct {
	Summary
	OfficialName string     `json:"official_name,omitempty"`
	Population   *float64   `json:"population"`
	Area         *float64   `json:"area"`
	Region       string     `json:"region,omitempty"`
	Subregion    string     `json:"subregion,omitempty"`
	CallingCode  Text       `json:"calling_code,omitempty"`
	Currencies   StringList `json:"currencies,omitempty"`
	Languages    StringList `json:"languages,omitempty"`
	// Language is the older name of Languages.
	Language  StringList `json:"language,omitempty"`
	TimeZones StringList `json:"time_zones,omitempty"`
}

// DisplayName prefers the official name.
func (d *Detail) DisplayName() string {
	if d.OfficialName != "" {
		return d.OfficialName
	}
	return d.Name
}

// LanguageList returns Languages, or Language when only the older key was sent.
func (d *Detail) LanguageList() StringList {
	if len(d.Languages) > 0 {
		return d.Languages
	}
	return d.Language
}

// HasAdditional reports whether any of currencies, languages or time zones is set.
func (d *Detail) HasAdditional() bool {
	return len(d.Currencies) > 0 || len(d.LanguageList()) > 0 || len(d.TimeZones) > 0
}

// Pagination is the page cursor of a list response.
type Pagination struct {
	Page int `json:"page"`
	Last int `json:"last"`
}

// HasMore reports whether pages remain after this one.
func (p Pagination) HasMore() bool {
	return p.Page < p.Last
}

// Page is one list response.
type Page struct {
	Data       []Summary  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// String renders the pagination as "page/last".
func (p Pagination) String() string {
	return strconv.Itoa(p.Page) + "/" + strconv.Itoa(p.Last)
}
