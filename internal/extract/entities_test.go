package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRegions = []string{
	"Northeast", "Southeast", "Midwest", "West", "Southwest", "Northwest",
	"North", "South", "East", "Central", "Pacific", "Atlantic",
	"USA", "US", "Europe", "Asia", "APAC", "EMEA", "LATAM",
}

func TestExtractEntities_Campaigns(t *testing.T) {
	e := ExtractEntities(`We launched campaign: "Summer Splash" and the 'Holiday Promo' performed well`, testRegions)
	assert.Contains(t, e["campaigns"], "Summer Splash")
	assert.Contains(t, e["campaigns"], "Holiday Promo")
}

func TestExtractEntities_Regions(t *testing.T) {
	e := ExtractEntities("Strong growth in the Midwest and across EMEA markets", testRegions)
	assert.Equal(t, []string{"Midwest", "EMEA"}, e["regions"])
}

func TestExtractEntities_RegionWholeWordOnly(t *testing.T) {
	e := ExtractEntities("The westward expansion", testRegions)
	assert.Empty(t, e["regions"])
}

func TestExtractEntities_Dates(t *testing.T) {
	e := ExtractEntities("Between 01/15/2024 and 2024-02-01, see also Mar 3, 2024", testRegions)
	assert.Contains(t, e["dates"], "01/15/2024")
	assert.Contains(t, e["dates"], "2024-02-01")
	assert.Contains(t, e["dates"], "Mar 3, 2024")
}

func TestExtractEntities_AllCategoriesPresent(t *testing.T) {
	e := ExtractEntities("nothing here", testRegions)
	for _, key := range []string{"campaigns", "regions", "products", "dates", "companies"} {
		_, ok := e[key]
		assert.True(t, ok, key)
	}
}

func TestExtractEntities_Dedup(t *testing.T) {
	e := ExtractEntities("US sales up. US growth strong. The US market leads.", testRegions)
	assert.Equal(t, []string{"US"}, e["regions"])
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, dedupe([]string{"b", "a", "b", "c", "a"}))
}
