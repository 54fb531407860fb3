// Package anchors resolves the Home and Work locations a commute is measured
// between.
package anchors

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/trip-tracker/internal/model"
)

// Entry is one anchor as supplied by the user: an address to geocode, or a
// pre-resolved coordinate that skips geocoding.
type Entry struct {
	Address string   `yaml:"address"`
	Label   string   `yaml:"label"`
	Lat     *float64 `yaml:"lat"`
	Lng     *float64 `yaml:"lng"`
}

// FromAddress builds an Entry for an address typed on the command line.
func FromAddress(addr string) Entry {
	return Entry{Address: strings.TrimSpace(addr)}
}

// Resolved returns the anchor point for an entry that carries coordinates.
func (e Entry) Resolved() (model.AnchorPoint, bool) {
	if e.Lat == nil || e.Lng == nil {
		return model.AnchorPoint{}, false
	}
	label := e.Label
	if label == "" {
		label = e.Address
	}
	return model.AnchorPoint{
		Label:     label,
		Query:     e.Address,
		Latitude:  *e.Lat,
		Longitude: *e.Lng,
	}, true
}

func (e Entry) validate(what string) error {
	if (e.Lat == nil) != (e.Lng == nil) {
		return eris.Errorf("anchors: %s needs both lat and lng", what)
	}
	if e.Lat != nil {
		if *e.Lat < -90 || *e.Lat > 90 || *e.Lng < -180 || *e.Lng > 180 {
			return eris.Errorf("anchors: %s coordinate out of range", what)
		}
		return nil
	}
	if strings.TrimSpace(e.Address) == "" {
		return eris.Errorf("anchors: %s has neither an address nor coordinates", what)
	}
	return nil
}

// File is the anchors YAML document.
//
//	home:
//	  address: 1 Main St, Springfield
//	work:
//	  - address: 100 Office Park
//	  - label: Warehouse
//	    lat: 43.65
//	    lng: -79.38
type File struct {
	Home Entry   `yaml:"home"`
	Work []Entry `yaml:"work"`
}

// LoadFile reads and validates an anchors file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "anchors: read %s", path)
	}
	return ParseFile(data)
}

// ParseFile decodes and validates an anchors document.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "anchors: decode yaml")
	}
	if err := f.Home.validate("home"); err != nil {
		return nil, err
	}
	if len(f.Work) == 0 {
		return nil, ErrNoWorkAnchors
	}
	for i, w := range f.Work {
		if err := w.validate(fmt.Sprintf("work[%d]", i)); err != nil {
			return nil, err
		}
	}
	return &f, nil
}
