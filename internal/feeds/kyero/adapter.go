// Package kyero reads the primary REDSP feed (Kyero XML format, up to eleven
// description languages per listing).
package kyero

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

// Languages the feed is known to carry. Only languages actually present on a
// listing end up in the record.
var languages = []string{"en", "es", "de", "sv", "nl", "da", "fi", "fr", "no", "pl", "ru"}

type Config struct {
	URL           string
	TrialURL      string
	UseTrial      bool
	NewBuildsOnly bool
}

type Adapter struct {
	cfg    Config
	client *feeds.Client
	log    zerolog.Logger
}

func New(cfg Config, client *feeds.Client, log zerolog.Logger) *Adapter {
	return &Adapter{cfg: cfg, client: client, log: log.With().Str("component", "kyero").Logger()}
}

func (a *Adapter) Source() domain.Source { return domain.SourceKyero }

// Fetch downloads and parses the feed. Every failure mode degrades to an
// empty slice: the other feed keeps the site alive.
func (a *Adapter) Fetch(ctx context.Context) []feeds.Record {
	url := a.cfg.URL
	if a.cfg.UseTrial && a.cfg.TrialURL != "" {
		url = a.cfg.TrialURL
	}

	start := time.Now()
	body, err := a.client.GetBody(ctx, url)
	if err != nil {
		observability.ObserveFeedFetch("kyero", "error", time.Since(start))
		a.log.Warn().Err(err).Str("url", url).Msg("feed fetch failed")
		return nil
	}
	observability.ObserveFeedFetch("kyero", "ok", time.Since(start))

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
		if a.cfg.NewBuildsOnly && strings.TrimSpace(p.NewBuild) != "1" {
			continue
		}
		rec := p.record()
		if rec.Reference == "" {
			continue
		}
		recs = append(recs, rec)
	}

	observability.SetFeedRecords("kyero", len(recs))
	a.log.Info().Int("total", len(props)).Int("kept", len(recs)).Str("shape", shape).Msg("feed parsed")
	return recs
}

/********** XML shapes **********/

// The feed has drifted between root elements over time; try each known
// envelope in order before giving up.
type kyeroRoot struct {
	XMLName    xml.Name      `xml:"kyero"`
	Properties []xmlProperty `xml:"property"`
}

type rootRoot struct {
	XMLName    xml.Name      `xml:"root"`
	Properties []xmlProperty `xml:"property"`
}

type propertiesRoot struct {
	XMLName    xml.Name      `xml:"properties"`
	Properties []xmlProperty `xml:"property"`
}

func decode(body []byte) ([]xmlProperty, string, error) {
	var k kyeroRoot
	if err := xml.Unmarshal(body, &k); err == nil && len(k.Properties) > 0 {
		return k.Properties, "kyero", nil
	}
	var r rootRoot
	if err := xml.Unmarshal(body, &r); err == nil && len(r.Properties) > 0 {
		return r.Properties, "root", nil
	}
	var p propertiesRoot
	err := xml.Unmarshal(body, &p)
	if err != nil {
		return nil, "", err
	}
	return p.Properties, "properties", nil
}

type xmlProperty struct {
	ID       string `xml:"id"`
	Ref      string `xml:"ref"`
	Title    string `xml:"title"`
	Price    string `xml:"price"`
	Currency string `xml:"currency"`
	Type     string `xml:"type"`

	Town           string `xml:"town"`
	LocationDetail string `xml:"location_detail"`
	Province       string `xml:"province"`
	Zone           string `xml:"zone"`

	NewBuild string `xml:"new_build"`
	Beds     string `xml:"beds"`
	Baths    string `xml:"baths"`
	Pool     string `xml:"pool"`

	Surface struct {
		Built   string `xml:"built"`
		Plot    string `xml:"plot"`
		Terrace string `xml:"terrace"`
	} `xml:"surface_area"`

	Location struct {
		Latitude  string `xml:"latitude"`
		Longitude string `xml:"longitude"`
	} `xml:"location"`

	Desc xmlDesc `xml:"desc"`

	Features struct {
		Feature []string `xml:"feature"`
	} `xml:"features"`

	Images struct {
		Image []struct {
			URL string `xml:"url"`
			Tag string `xml:"tag"`
		} `xml:"image"`
	} `xml:"images"`

	Energy struct {
		Consumption string `xml:"consumption"`
		Emissions   string `xml:"emissions"`
	} `xml:"energy_rating"`

	Development    string `xml:"development"`
	Developer      string `xml:"developer"`
	Status         string `xml:"status"`
	CompletionDate string `xml:"completion_date"`
	URL            string `xml:"url"`
}

type xmlDesc struct {
	En string `xml:"en"`
	Es string `xml:"es"`
	De string `xml:"de"`
	Sv string `xml:"sv"`
	Nl string `xml:"nl"`
	Da string `xml:"da"`
	Fi string `xml:"fi"`
	Fr string `xml:"fr"`
	No string `xml:"no"`
	Pl string `xml:"pl"`
	Ru string `xml:"ru"`
}

func (d xmlDesc) byLanguage() map[string]string {
	all := map[string]string{
		"en": d.En, "es": d.Es, "de": d.De, "sv": d.Sv, "nl": d.Nl,
		"da": d.Da, "fi": d.Fi, "fr": d.Fr, "no": d.No, "pl": d.Pl, "ru": d.Ru,
	}
	out := map[string]string{}
	for _, lang := range languages {
		if t := strings.TrimSpace(all[lang]); t != "" {
			out[lang] = t
		}
	}
	return out
}

func (p xmlProperty) record() feeds.Record {
	ref := strings.TrimSpace(p.ID)
	if ref == "" {
		ref = strings.TrimSpace(p.Ref)
	}

	var images []string
	for _, img := range p.Images.Image {
		if u := strings.TrimSpace(img.URL); u != "" {
			images = append(images, u)
		}
	}

	var features []string
	for _, f := range p.Features.Feature {
		if t := strings.TrimSpace(f); t != "" {
			features = append(features, t)
		}
	}

	return feeds.Record{
		Source:    domain.SourceKyero,
		Reference: ref,
		Title:     strings.TrimSpace(p.Title),

		RawType:  p.Type,
		RawPrice: p.Price,
		Currency: p.Currency,

		Town:           strings.TrimSpace(p.Town),
		LocationDetail: strings.TrimSpace(p.LocationDetail),
		Province:       strings.TrimSpace(p.Province),
		Zone:           strings.TrimSpace(p.Zone),
		RawLatitude:    p.Location.Latitude,
		RawLongitude:   p.Location.Longitude,

		RawBeds:    p.Beds,
		RawBaths:   p.Baths,
		RawBuilt:   p.Surface.Built,
		RawPlot:    p.Surface.Plot,
		RawTerrace: p.Surface.Terrace,

		RawNewBuild: p.NewBuild,
		RawPool:     p.Pool,
		RawStatus:   p.Status,

		Development:  strings.TrimSpace(p.Development),
		Developer:    strings.TrimSpace(p.Developer),
		DeliveryDate: strings.TrimSpace(p.CompletionDate),

		Descriptions: p.Desc.byLanguage(),
		Features:     features,
		Images:       images,

		EnergyConsumption: strings.TrimSpace(p.Energy.Consumption),
		EnergyEmissions:   strings.TrimSpace(p.Energy.Emissions),
		ExternalURL:       strings.TrimSpace(p.URL),
	}
}
