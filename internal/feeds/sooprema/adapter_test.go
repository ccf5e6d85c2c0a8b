package sooprema_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costafeed/internal/domain"
	"costafeed/internal/feeds"
	"costafeed/internal/feeds/sooprema"
)

const nestedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<sooprema>
  <properties>
    <property>
      <reference>BG-550</reference>
      <title>
        <en>Modern villa in Ciudad Quesada</en>
        <es>Villa moderna en Ciudad Quesada</es>
      </title>
      <description>
        <en>Brand new villa with private pool.</en>
        <es>Villa de obra nueva con piscina privada.</es>
        <de>Neubauvilla mit privatem Pool.</de>
      </description>
      <type><en>Villa</en><es>Chalet</es></type>
      <bedrooms>3</bedrooms>
      <bathrooms>2</bathrooms>
      <built>120</built>
      <plot>400</plot>
      <price>425000</price>
      <currency>EUR</currency>
      <town>Ciudad Quesada</town>
      <province>Alicante</province>
      <zone>La Marquesa Golf</zone>
      <location>
        <latitude>38.0514</latitude>
        <longitude>-0.7367</longitude>
      </location>
      <pool>1</pool>
      <saleType>1</saleType>
      <development>Quesada Hills</development>
      <developer>GUEMAR</developer>
      <completion_date>2027-03</completion_date>
      <status>Under construction</status>
      <images>
        <image><url>https://img.example/v1.jpg</url></image>
        <image>https://img.example/v2.jpg</image>
      </images>
      <features>
        <feature><en>Private Pool</en></feature>
        <feature>Solarium</feature>
      </features>
    </property>
    <property>
      <reference>BG-551</reference>
      <type>Apartment</type>
      <price>150000</price>
      <town>Torrevieja</town>
      <saleType>2</saleType>
      <latitude>37.97</latitude>
      <longitude>-0.68</longitude>
      <description>South facing resale apartment.</description>
    </property>
    <property>
      <type>Villa</type>
      <price>1</price>
      <saleType>1</saleType>
    </property>
  </properties>
</sooprema>`

func serveXML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAdapter(url string, newBuildsOnly bool) *sooprema.Adapter {
	return sooprema.New(
		sooprema.Config{URL: url, NewBuildsOnly: newBuildsOnly},
		feeds.NewClient(5*time.Second, 100),
		zerolog.Nop(),
	)
}

func TestFetch_NestedShape(t *testing.T) {
	srv := serveXML(t, nestedFeed)
	a := newAdapter(srv.URL, false)

	recs := a.Fetch(context.Background())

	// the referenceless third listing is dropped
	require.Len(t, recs, 2)

	r := recs[0]
	assert.Equal(t, domain.SourceSooprema, r.Source)
	assert.Equal(t, "BG-550", r.Reference)
	assert.Equal(t, "Modern villa in Ciudad Quesada", r.Title)
	assert.Equal(t, "Villa", r.RawType)
	assert.Equal(t, "425000", r.RawPrice)
	assert.Equal(t, "38.0514", r.RawLatitude)
	assert.Equal(t, "1", r.RawNewBuild, "saleType doubles as the new-build flag")
	assert.Equal(t, "La Marquesa Golf", r.Zone)
	assert.Equal(t, "Quesada Hills", r.Development)
	assert.Equal(t, "2027-03", r.DeliveryDate)
	assert.Equal(t, map[string]string{
		"en": "Brand new villa with private pool.",
		"es": "Villa de obra nueva con piscina privada.",
		"de": "Neubauvilla mit privatem Pool.",
	}, r.Descriptions)
	// one image in <url>, one inlined as element text
	assert.Equal(t, []string{"https://img.example/v1.jpg", "https://img.example/v2.jpg"}, r.Images)
	assert.Equal(t, []string{"Private Pool", "Solarium"}, r.Features)
}

func TestFetch_PlainTextVariants(t *testing.T) {
	srv := serveXML(t, nestedFeed)
	a := newAdapter(srv.URL, false)

	recs := a.Fetch(context.Background())
	require.Len(t, recs, 2)

	r := recs[1]
	assert.Equal(t, "Apartment", r.RawType, "chardata type with no language children")
	assert.Equal(t, "37.97", r.RawLatitude, "flat coordinates without a location envelope")
	assert.Equal(t, map[string]string{"en": "South facing resale apartment."}, r.Descriptions,
		"a plain-text description counts as English")
}

func TestFetch_SaleTypeFilter(t *testing.T) {
	srv := serveXML(t, nestedFeed)
	a := newAdapter(srv.URL, true)

	recs := a.Fetch(context.Background())

	require.Len(t, recs, 1)
	assert.Equal(t, "BG-550", recs[0].Reference)
}

func TestFetch_AlternateRoots(t *testing.T) {
	cases := map[string]string{
		"properties": `<properties><property><reference>P1</reference><type>Villa</type></property></properties>`,
		"root":       `<root><property><reference>P1</reference><type>Villa</type></property></root>`,
		"listings":   `<listings><listing><reference>P1</reference><type>Villa</type></listing></listings>`,
	}
	for shape, body := range cases {
		srv := serveXML(t, body)
		a := newAdapter(srv.URL, false)

		recs := a.Fetch(context.Background())
		require.Len(t, recs, 1, "shape %s", shape)
		assert.Equal(t, "P1", recs[0].Reference)
	}
}

func TestFetch_FailuresAreEmptyNotFatal(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(notFound.Close)
	assert.Empty(t, newAdapter(notFound.URL, false).Fetch(context.Background()))

	garbage := serveXML(t, `{"not":"xml"}`)
	assert.Empty(t, newAdapter(garbage.URL, false).Fetch(context.Background()))
}
