package api

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected Page
	}{
		{name: "Defaults", url: "/v1/sale", expected: Page{Offset: 0, Limit: 10}},
		{name: "Custom values", url: "/v1/sale?offset=5&limit=20", expected: Page{Offset: 5, Limit: 20}},
		{name: "Negative offset is ignored", url: "/v1/sale?offset=-10", expected: Page{Offset: 0, Limit: 10}},
		{name: "Limit clamped to max", url: "/v1/sale?limit=200", expected: Page{Offset: 0, Limit: 100}},
		{name: "Limit clamped to min", url: "/v1/sale?limit=0", expected: Page{Offset: 0, Limit: 1}},
		{name: "Invalid values are ignored", url: "/v1/sale?offset=abc&limit=xyz", expected: Page{Offset: 0, Limit: 10}},
		{name: "Huge offset is capped", url: "/v1/sale?offset=9223372036854775807", expected: Page{Offset: MaxOffset, Limit: 10}},
		{name: "Offset beyond int range is ignored", url: "/v1/sale?offset=9223372036854775808", expected: Page{Offset: 0, Limit: 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)
			assert.Equal(t, tc.expected, ParsePage(req))
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	testCases := []struct {
		name             string
		url              string
		total            int64
		expectedNext     string
		expectedPrevious string
	}{
		{
			name:  "Single page has no links",
			url:   "/v1/article",
			total: 3,
		},
		{
			name:         "First page links to the next one",
			url:          "/v1/article?limit=2",
			total:        5,
			expectedNext: "http://example.com/v1/article?limit=2&offset=2",
		},
		{
			name:             "Middle page links both ways",
			url:              "/v1/article?limit=2&offset=2",
			total:            5,
			expectedNext:     "http://example.com/v1/article?limit=2&offset=4",
			expectedPrevious: "http://example.com/v1/article?limit=2",
		},
		{
			name:             "Last page links back",
			url:              "/v1/article?limit=2&offset=4",
			total:            5,
			expectedPrevious: "http://example.com/v1/article?limit=2&offset=2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, nil)
			resp := NewPageResponse(req, ParsePage(req), tc.total, []string{"a"})

			assert.Equal(t, tc.total, resp.Count)
			if tc.expectedNext == "" {
				assert.Nil(t, resp.Next)
			} else {
				require.NotNil(t, resp.Next)
				assert.Equal(t, tc.expectedNext, *resp.Next)
			}
			if tc.expectedPrevious == "" {
				assert.Nil(t, resp.Previous)
			} else {
				require.NotNil(t, resp.Previous)
				assert.Equal(t, tc.expectedPrevious, *resp.Previous)
			}
		})
	}
}

func TestNewPageResponseNeverReturnsNullResults(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/sale", nil)
	resp := NewPageResponse[int](req, ParsePage(req), 0, nil)
	assert.NotNil(t, resp.Results)
	assert.Len(t, resp.Results, 0)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Slice(items, Page{Offset: 0, Limit: 2}))
	assert.Equal(t, []int{5}, Slice(items, Page{Offset: 4, Limit: 2}))
	assert.Empty(t, Slice(items, Page{Offset: 10, Limit: 2}))
	assert.Empty(t, Slice(items, Page{Offset: math.MaxInt, Limit: MaxLimit}))
	assert.Equal(t, []int{4, 5}, Slice(items, Page{Offset: 3, Limit: math.MaxInt}))
}

func TestNewPageResponseWithHugeOffset(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/article", nil)
	resp := NewPageResponse(req, Page{Offset: math.MaxInt - 5, Limit: MaxLimit}, 5, []string{})

	assert.Nil(t, resp.Next)
	require.NotNil(t, resp.Previous)
	assert.Contains(t, *resp.Previous, "limit=100")
}
