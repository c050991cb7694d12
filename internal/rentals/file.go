package rentals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileSource reads rentals from a fixture file on every call. Files ending in
// .json use the API format; anything else is read as YAML.
type FileSource struct {
	Path string
}

var _ Source = (*FileSource)(nil)

// fixture is the YAML layout of a FileSource file.
type fixture struct {
	Rentals []fixtureRental `yaml:"rentals"`
}

type fixtureRental struct {
	ID        string `yaml:"id"`
	Equipment string `yaml:"equipment"`
	Customer  string `yaml:"customer"`
	Status    string `yaml:"status"`
	CheckIn   string `yaml:"check_in"`
	// CheckInAgo is relative to the file modification time so that a
	// fixture keeps counting down without being rewritten.
	CheckInAgo      string `yaml:"check_in_ago"`
	DurationMinutes *int   `yaml:"duration_minutes"`
}

// ListActive reads the fixture and returns its active rentals.
func (f *FileSource) ListActive(ctx context.Context) ([]ActiveRental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("stat fixture: %w", err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	if strings.EqualFold(filepath.Ext(f.Path), ".json") {
		list, err := parseRentalsJSON(data)
		if err != nil {
			return nil, err
		}
		return FilterActive(list), nil
	}

	list, err := parseFixtureYAML(data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", f.Path, err)
	}
	return FilterActive(list), nil
}

func parseFixtureYAML(data []byte, modTime time.Time) ([]ActiveRental, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, err
	}

	list := make([]ActiveRental, 0, len(fx.Rentals))
	for i, fr := range fx.Rentals {
		r := ActiveRental{
			ID:                      fr.ID,
			EquipmentLabel:          fr.Equipment,
			CustomerName:            fr.Customer,
			Status:                  NormalizeStatus(fr.Status),
			ExpectedDurationMinutes: fr.DurationMinutes,
		}
		if fr.Status == "" {
			r.Status = StatusActive
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("fixture-%d", i+1)
		}

		switch {
		case fr.CheckIn != "":
			if t, ok := parseTimestamp(fr.CheckIn); ok {
				r.CheckInTime = &t
			}
		case fr.CheckInAgo != "":
			ago, err := time.ParseDuration(fr.CheckInAgo)
			if err != nil {
				return nil, fmt.Errorf("rental %s: invalid check_in_ago %q: %w", r.ID, fr.CheckInAgo, err)
			}
			t := modTime.Add(-ago)
			r.CheckInTime = &t
		}
		list = append(list, r)
	}
	return list, nil
}
