package country

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/dbmrq/globe/internal/errors"
)

func makePage(page, last, n int) *Page {
	p := &Page{Pagination: Pagination{Page: page, Last: last}}
	for i := 0; i < n; i++ {
		id := (page-1)*n + i + 1
		p.Data = append(p.Data, Summary{
			ID:         ID(fmt.Sprint(id)),
			Name:       fmt.Sprintf("Country %d", id),
			Alpha2Code: fmt.Sprintf("C%d", id),
			Alpha3Code: fmt.Sprintf("CC%d", id),
		})
	}
	return p
}

func TestCatalogue_AppendPreservesOrder(t *testing.T) {
	var c Catalogue
	c.Reset(makePage(1, 3, 20))
	c.Append(makePage(2, 3, 20))

	items := c.Items()
	require.Len(t, items, 40)
	for i, it := range items {
		assert.Equal(t, ID(fmt.Sprint(i+1)), it.ID, "item %d out of order", i)
	}
	assert.Equal(t, 2, c.Page())
	assert.True(t, c.HasMore())
	assert.Equal(t, 3, c.NextPage())
}

func TestCatalogue_NoDeduplication(t *testing.T) {
	var c Catalogue
	c.Reset(makePage(1, 2, 5))
	c.Append(makePage(1, 2, 5))

	assert.Equal(t, 10, c.Len(), "overlapping pages are kept as-is")
}

func TestCatalogue_HasMore(t *testing.T) {
	var c Catalogue
	assert.False(t, c.HasMore(), "empty catalogue has no cursor")
	assert.Equal(t, 1, c.NextPage())

	c.Reset(makePage(3, 3, 1))
	assert.False(t, c.HasMore())
	assert.Equal(t, 3, c.Last())
}

func TestCatalogue_ItemsIsCopy(t *testing.T) {
	var c Catalogue
	c.Reset(makePage(1, 1, 2))
	items := c.Items()
	items[0].Name = "changed"
	assert.NotEqual(t, "changed", c.Items()[0].Name)
}

func TestFilter(t *testing.T) {
	items := []Summary{
		{ID: "1", Name: "Brazil", Alpha2Code: "BR", Alpha3Code: "BRA"},
		{ID: "2", Name: "Germany", Alpha2Code: "DE", Alpha3Code: "DEU"},
		{ID: "3", Name: "France", Alpha2Code: "FR", Alpha3Code: "FRA"},
	}

	tests := []struct {
		term string
		want []ID
	}{
		{"", []ID{"1", "2", "3"}},
		{"de", []ID{"2"}},
		{"DE", []ID{"2"}},
		{"ra", []ID{"1", "3"}},
		{"deu", []ID{"2"}},
		{"zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []ID
			for _, s := range Filter(items, tt.term) {
				got = append(got, s.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestDetail_Decode(t *testing.T) {
	body := `{
		"id": 76,
		"name": "Brazil",
		"official_name": "Federative Republic of Brazil",
		"alpha2_code": "BR",
		"alpha3_code": "BRA",
		"flag": "https://flags.example/br.svg",
		"population": 203062512,
		"area": null,
		"calling_code": 55,
		"currencies": "BRL",
		"language": ["Portuguese"],
		"time_zones": ["UTC-02:00", "UTC-03:00"]
	}`

	var d Detail
	require.NoError(t, json.Unmarshal([]byte(body), &d))

	assert.Equal(t, ID("76"), d.ID)
	assert.Equal(t, "Federative Republic of Brazil", d.DisplayName())
	require.NotNil(t, d.Population)
	assert.Equal(t, float64(203062512), *d.Population)
	assert.Nil(t, d.Area)
	assert.Equal(t, Text("55"), d.CallingCode)
	assert.Equal(t, StringList{"BRL"}, d.Currencies)
	assert.Equal(t, StringList{"Portuguese"}, d.LanguageList())
	assert.Equal(t, StringList{"UTC-02:00", "UTC-03:00"}, d.TimeZones)
	assert.True(t, d.HasAdditional())
}

func TestStringList_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want StringList
	}{
		{`null`, nil},
		{`""`, nil},
		{`"EUR"`, StringList{"EUR"}},
		{`["EUR","USD"]`, StringList{"EUR", "USD"}},
		{`[]`, StringList{}},
	}
	for _, tt := range tests {
		var got StringList
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDetail_DisplayNameFallback(t *testing.T) {
	d := Detail{Summary: Summary{Name: "Chad"}}
	assert.Equal(t, "Chad", d.DisplayName())
	assert.False(t, d.HasAdditional())
}

type fakeLister struct {
	mu    sync.Mutex
	last  int
	fail  int
	calls []int
}

func (f *fakeLister) ListCountries(ctx context.Context, page int) (*Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	f.mu.Unlock()
	if page == f.fail {
		return nil, errors.New("boom")
	}
	return makePage(page, f.last, 3), nil
}

func TestFetchAll_Order(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := &fakeLister{last: 5}
	all, err := FetchAll(context.Background(), l, 2)
	require.NoError(t, err)
	require.Len(t, all, 15)
	for i, s := range all {
		assert.Equal(t, ID(fmt.Sprint(i+1)), s.ID)
	}
	assert.Len(t, l.calls, 5)
	assert.Equal(t, 1, l.calls[0], "page 1 must be fetched first")
}

func TestFetchAll_SinglePage(t *testing.T) {
	l := &fakeLister{last: 1}
	all, err := FetchAll(context.Background(), l, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{1}, l.calls)
}

func TestFetchAll_Error(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := &fakeLister{last: 4, fail: 3}
	_, err := FetchAll(context.Background(), l, 4)
	assert.EqualError(t, err, "boom")
}

func TestFetchAll_RejectsImplausibleLastPage(t *testing.T) {
	for _, last := range []int{MaxPages + 1, 1 << 62} {
		l := &fakeLister{last: last}
		all, err := FetchAll(context.Background(), l, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrParse)
		assert.Nil(t, all)
		assert.Equal(t, []int{1}, l.calls, "no further pages are requested")
	}
}
