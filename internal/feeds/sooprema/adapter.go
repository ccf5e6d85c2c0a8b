// Package sooprema reads the secondary Background Properties feed (Sooprema
// XML export). Its schema differs from the Kyero feed in root naming, in
// putting language variants on title/description/type, and in flagging new
// builds through a saleType code.
package sooprema

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"costafeed/internal/adapters/observability"
	"costafeed/internal/domain"
	"costafeed/internal/feeds"
)

var languages = []string{"en", "es", "de", "fr", "nl"}

// saleType code the export uses for new-build stock.
const saleTypeNewBuild = "1"

type Config struct {
	URL           string
	NewBuildsOnly bool
}

type Adapter struct {
	cfg    Config
	client *feeds.Client
	log    zerolog.Logger
}

func New(cfg Config, client *feeds.Client, log zerolog.Logger) *Adapter {
	return &Adapter{cfg: cfg, client: client, log: log.With().Str("component", "sooprema").Logger()}
}

func (a *Adapter) Source() domain.Source { return domain.SourceSooprema }

func (a *Adapter) Fetch(ctx context.Context) []feeds.Record {
	start := time.Now()
	body, err := a.client.GetBody(ctx, a.cfg.URL)
	if err != nil {
		observability.ObserveFeedFetch("sooprema", "error", time.Since(start))
		a.log.Warn().Err(err).Str("url", a.cfg.URL).Msg("feed fetch failed")
		return nil
	}
	observability.ObserveFeedFetch("sooprema", "ok", time.Since(start))

	props, shape, err := decode(body)
	if err != nil {
		a.log.Warn().Err(err).Msg("feed parse failed")
		return nil
	}
	if len(props) == 0 {
		a.log.Warn().Msg("no properties found in feed")
		return nil
	}

	recs := make([]feeds.Record, 0, len(props))
	for _, p := range props {
		if a.cfg.NewBuildsOnly && strings.TrimSpace(p.SaleType) != saleTypeNewBuild {
			continue
		}
		rec := p.record()
		if rec.Reference == "" {
			continue
		}
		recs = append(recs, rec)
	}

	observability.SetFeedRecords("sooprema", len(recs))
	a.log.Info().Int("total", len(props)).Int("kept", len(recs)).Str("shape", shape).Msg("feed parsed")
	return recs
}

/********** XML shapes **********/

type soopremaRoot struct {
	XMLName    xml.Name `xml:"sooprema"`
	Properties struct {
		Property []xmlProperty `xml:"property"`
	} `xml:"properties"`
}

type propertiesRoot struct {
	XMLName    xml.Name      `xml:"properties"`
	Properties []xmlProperty `xml:"property"`
}

type rootRoot struct {
	XMLName    xml.Name      `xml:"root"`
	Properties []xmlProperty `xml:"property"`
}

type listingsRoot struct {
	XMLName    xml.Name      `xml:"listings"`
	Properties []xmlProperty `xml:"listing"`
}

func decode(body []byte) ([]xmlProperty, string, error) {
	var s soopremaRoot
	if err := xml.Unmarshal(body, &s); err == nil && len(s.Properties.Property) > 0 {
		return s.Properties.Property, "sooprema", nil
	}
	var p propertiesRoot
	if err := xml.Unmarshal(body, &p); err == nil && len(p.Properties) > 0 {
		return p.Properties, "properties", nil
	}
	var r rootRoot
	if err := xml.Unmarshal(body, &r); err == nil && len(r.Properties) > 0 {
		return r.Properties, "root", nil
	}
	var l listingsRoot
	err := xml.Unmarshal(body, &l)
	if err != nil {
		return nil, "", err
	}
	return l.Properties, "listings", nil
}

// langText is a localized element: either plain chardata or per-language
// children.
type langText struct {
	Text string `xml:",chardata"`
	En   string `xml:"en"`
	Es   string `xml:"es"`
	De   string `xml:"de"`
	Fr   string `xml:"fr"`
	Nl   string `xml:"nl"`
}

// preferred returns the English variant, then Spanish, then the raw chardata.
func (t langText) preferred() string {
	for _, s := range []string{t.En, t.Es, t.Text} {
		if v := strings.TrimSpace(s); v != "" {
			return v
		}
	}
	return ""
}

func (t langText) byLanguage() map[string]string {
	all := map[string]string{"en": t.En, "es": t.Es, "de": t.De, "fr": t.Fr, "nl": t.Nl}
	out := map[string]string{}
	for _, lang := range languages {
		if v := strings.TrimSpace(all[lang]); v != "" {
			out[lang] = v
		}
	}
	// Plain-text exports put the single description straight in the element.
	if len(out) == 0 {
		if v := strings.TrimSpace(t.Text); v != "" {
			out["en"] = v
		}
	}
	return out
}

type xmlProperty struct {
	Reference   string   `xml:"reference"`
	Title       langText `xml:"title"`
	Description langText `xml:"description"`
	Type        langText `xml:"type"`

	Bedrooms  string `xml:"bedrooms"`
	Bathrooms string `xml:"bathrooms"`
	Built     string `xml:"built"`
	Plot      string `xml:"plot"`
	Terrace   string `xml:"terrace"`
	Price     string `xml:"price"`
	Currency  string `xml:"currency"`

	Town     string `xml:"town"`
	Province string `xml:"province"`
	Zone     string `xml:"zone"`

	Location struct {
		Latitude  string `xml:"latitude"`
		Longitude string `xml:"longitude"`
	} `xml:"location"`
	Latitude  string `xml:"latitude"`
	Longitude string `xml:"longitude"`

	Pool         string `xml:"pool"`
	SaleType     string `xml:"saleType"`
	EnergyRating string `xml:"energy_rating"`

	Development    string `xml:"development"`
	Developer      string `xml:"developer"`
	CompletionDate string `xml:"completion_date"`
	Status         string `xml:"status"`

	Images struct {
		Image []struct {
			URL  string `xml:"url"`
			Text string `xml:",chardata"`
		} `xml:"image"`
	} `xml:"images"`

	Features struct {
		Feature []langText `xml:"feature"`
	} `xml:"features"`
}

func (p xmlProperty) record() feeds.Record {
	var images []string
	for _, img := range p.Images.Image {
		u := strings.TrimSpace(img.URL)
		if u == "" {
			// Some exports inline the URL as element text.
			if t := strings.TrimSpace(img.Text); strings.HasPrefix(t, "http") {
				u = t
			}
		}
		if u != "" {
			images = append(images, u)
		}
	}

	var features []string
	for _, f := range p.Features.Feature {
		if v := f.preferred(); v != "" {
			features = append(features, v)
		}
	}

	lat := strings.TrimSpace(p.Location.Latitude)
	lon := strings.TrimSpace(p.Location.Longitude)
	if lat == "" && lon == "" {
		lat, lon = strings.TrimSpace(p.Latitude), strings.TrimSpace(p.Longitude)
	}

	return feeds.Record{
		Source:    domain.SourceSooprema,
		Reference: strings.TrimSpace(p.Reference),
		Title:     p.Title.preferred(),

		RawType:  p.Type.preferred(),
		RawPrice: p.Price,
		Currency: p.Currency,

		Town:         strings.TrimSpace(p.Town),
		Province:     strings.TrimSpace(p.Province),
		Zone:         strings.TrimSpace(p.Zone),
		RawLatitude:  lat,
		RawLongitude: lon,

		RawBeds:    p.Bedrooms,
		RawBaths:   p.Bathrooms,
		RawBuilt:   p.Built,
		RawPlot:    p.Plot,
		RawTerrace: p.Terrace,

		RawNewBuild: p.SaleType, // saleType 1 == new build
		RawPool:     p.Pool,
		RawStatus:   p.Status,

		Development:  strings.TrimSpace(p.Development),
		Developer:    strings.TrimSpace(p.Developer),
		DeliveryDate: strings.TrimSpace(p.CompletionDate),

		Descriptions: p.Description.byLanguage(),
		Features:     features,
		Images:       images,

		EnergyConsumption: strings.TrimSpace(p.EnergyRating),
	}
}
