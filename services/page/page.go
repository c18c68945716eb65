// Package page models the anchors of the dashboard page: chart canvases and
// text counters, addressed by element id. A page may carry only a subset of
// the dashboard anchors, depending on which screen is active.
package page

import (
	"sort"

	"student_dashboard_go/models"
)

// Page is a set of anchors addressed by id
type Page struct {
	canvases map[string]*Canvas
	counters map[string]*Counter
}

// New builds a page holding the given anchors. Counter anchors become text
// counters, every other id becomes a chart canvas.
func New(anchors ...string) *Page {
	p := &Page{
		canvases: make(map[string]*Canvas),
		counters: make(map[string]*Counter),
	}
	for _, id := range anchors {
		if format, ok := counterFormats[id]; ok {
			p.counters[id] = NewCounter(id, format)
			continue
		}
		p.canvases[id] = &Canvas{id: id}
	}
	return p
}

// Dashboard builds the full admin dashboard page
func Dashboard() *Page {
	return New(models.AllAnchors()...)
}

// Canvas returns the canvas with the given id, or nil if the page lacks it
func (p *Page) Canvas(id string) *Canvas {
	return p.canvases[id]
}

// Counter returns the counter with the given id, or nil if the page lacks it
func (p *Page) Counter(id string) *Counter {
	return p.counters[id]
}

// Anchors returns every anchor id on the page, sorted
func (p *Page) Anchors() []string {
	ids := make([]string, 0, len(p.canvases)+len(p.counters))
	for id := range p.canvases {
		ids = append(ids, id)
	}
	for id := range p.counters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var counterFormats = map[string]Format{
	models.AnchorTotalStudents:  IntegerFormat,
	models.AnchorTotalSubjects:  IntegerFormat,
	models.AnchorAttendanceRate: PercentFormat,
	models.AnchorAverageGPA:     DecimalFormat,
}
