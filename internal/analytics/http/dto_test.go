package dashboardhttp

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetsales/jetsales/internal/analytics"
)

func TestParseCustomerQueryDefaults(t *testing.T) {
	query, err := parseCustomerQuery(httptest.NewRequest("GET", "/api/customers", nil))
	require.NoError(t, err)
	assert.Equal(t, "name", query.Sort)
	assert.Equal(t, "asc", query.Dir)
	assert.Nil(t, query.AgeMin)
	assert.Nil(t, query.AgeMax)
	assert.Empty(t, query.Columns)
}

func TestParseCustomerQueryBounds(t *testing.T) {
	query, err := parseCustomerQuery(httptest.NewRequest("GET", "/api/customers?age_min=20&age_max=40&search=andi", nil))
	require.NoError(t, err)
	require.NotNil(t, query.AgeMin)
	require.NotNil(t, query.AgeMax)
	assert.Equal(t, 20, *query.AgeMin)
	assert.Equal(t, 40, *query.AgeMax)
	assert.Equal(t, "andi", query.Search)

	_, err = parseCustomerQuery(httptest.NewRequest("GET", "/api/customers?age_min=50&age_max=20", nil))
	assert.Error(t, err)

	_, err = parseCustomerQuery(httptest.NewRequest("GET", "/api/customers?age_min=-3", nil))
	assert.Error(t, err)

	_, err = parseCustomerQuery(httptest.NewRequest("GET", "/api/customers?dir=sideways", nil))
	assert.Error(t, err)
}

func TestParseCustomerQueryColumns(t *testing.T) {
	query, err := parseCustomerQuery(httptest.NewRequest("GET", "/api/customers?columns=name,%20email,", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email"}, query.Columns)
}

func TestParseProductQueryDefaults(t *testing.T) {
	query, err := parseProductQuery(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	assert.Equal(t, "total_sold", query.Sort)
	assert.Equal(t, "desc", query.Dir)
	assert.Equal(t, 10, query.Top)
}

func TestParseProductQueryTopRange(t *testing.T) {
	query, err := parseProductQuery(httptest.NewRequest("GET", "/api/products?top=25", nil))
	require.NoError(t, err)
	assert.Equal(t, 25, query.Top)

	_, err = parseProductQuery(httptest.NewRequest("GET", "/api/products?top=0", nil))
	assert.Error(t, err)

	_, err = parseProductQuery(httptest.NewRequest("GET", "/api/products?top=999", nil))
	assert.Error(t, err)
}

func TestParseSalesQueryDefaults(t *testing.T) {
	query, err := parseSalesQuery(httptest.NewRequest("GET", "/api/sales", nil))
	require.NoError(t, err)
	assert.Equal(t, analytics.MatchAll, query.Customer)
	assert.Equal(t, analytics.MatchAll, query.Product)
	assert.Equal(t, analytics.GranularityDaily, query.Granularity)
	assert.Equal(t, "order_date", query.Sort)
	assert.Equal(t, "desc", query.Dir)
	assert.True(t, query.From.IsZero())
}

func TestParseSalesQueryDates(t *testing.T) {
	query, err := parseSalesQuery(httptest.NewRequest("GET", "/api/sales?from=2024-03-01&to=2024-03-31", nil))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), query.From)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), query.To)

	_, err = parseSalesQuery(httptest.NewRequest("GET", "/api/sales?from=03/01/2024", nil))
	assert.Error(t, err)

	_, err = parseSalesQuery(httptest.NewRequest("GET", "/api/sales?from=2024-04-01&to=2024-03-01", nil))
	assert.Error(t, err)
}

func TestParseSalesQueryGranularity(t *testing.T) {
	for _, g := range []string{"daily", "weekly", "monthly"} {
		query, err := parseSalesQuery(httptest.NewRequest("GET", "/api/sales?granularity="+g, nil))
		require.NoError(t, err)
		assert.Equal(t, analytics.Granularity(g), query.Granularity)
	}
	_, err := parseSalesQuery(httptest.NewRequest("GET", "/api/sales?granularity=hourly", nil))
	assert.Error(t, err)
}
