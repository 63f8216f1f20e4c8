// Package views assembles the fixed-shape domain views from gateway rows.
//
// Every view is rebuilt from storage on each call. A section whose query fails
// keeps its zero values and is named in the view's Unavailable list; building
// itself never fails.
package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Builder implements ports.ViewFetcher.
type Builder struct {
	Gateway ports.Gateway
	Config  domain.Config
	Logger  ports.Logger
	Now     func() time.Time
}

// NewBuilder wires a builder with the wall clock.
func NewBuilder(gateway ports.Gateway, cfg domain.Config, log ports.Logger) *Builder {
	return &Builder{Gateway: gateway, Config: cfg, Logger: log, Now: time.Now}
}

// sectionReader runs queries for one view and remembers which sections failed.
type sectionReader struct {
	b           *Builder
	view        domain.ViewKind
	unavailable []string
}

func (b *Builder) reader(view domain.ViewKind) *sectionReader {
	return &sectionReader{b: b, view: view}
}

func (r *sectionReader) rows(ctx context.Context, section, query string, args ...interface{}) []domain.Row {
	rows, err := r.b.Gateway.Execute(ctx, query, args...)
	if err != nil {
		r.markUnavailable(section)
		if r.b.Logger != nil {
			r.b.Logger.Warn("view section unavailable", map[string]interface{}{
				"view":    string(r.view),
				"section": section,
				"kind":    string(domain.KindOf(err)),
				"error":   err.Error(),
			})
		}
		return nil
	}
	return rows
}

// single returns the first row, or an empty row when there is none.
func (r *sectionReader) single(ctx context.Context, section, query string, args ...interface{}) domain.Row {
	rows := r.rows(ctx, section, query, args...)
	if len(rows) == 0 {
		return domain.Row{}
	}
	return rows[0]
}

func (r *sectionReader) markUnavailable(section string) {
	for _, s := range r.unavailable {
		if s == section {
			return
		}
	}
	r.unavailable = append(r.unavailable, section)
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func fullName(row domain.Row) string {
	return strings.TrimSpace(row.String("first_name") + " " + row.String("last_name"))
}

// genderLabel maps the Sahana Eden gender codes.
func genderLabel(row domain.Row) string {
	raw := strings.TrimSpace(row.String("gender"))
	if raw == "" {
		return "Unknown"
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	switch code {
	case 2:
		return "Female"
	case 3:
		return "Male"
	case 4:
		return "Other"
	default:
		return "Unknown"
	}
}

func formatID(prefix string, width int, id int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, id)
}

var _ ports.ViewFetcher = (*Builder)(nil)
