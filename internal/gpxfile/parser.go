package gpxfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	xsdvalidate "github.com/terminalstatic/go-xsd-validate"
	"github.com/tkrajina/gpxgo/gpx"
)

const unnamedPrefix = "Unnamed route "

var unnamedPattern = regexp.MustCompile(`^Unnamed route [0-9]+$`)

var xsdInit sync.Once

// Parser is the GPX implementation of the parsing adapter. All methods take a
// path to a document on disk and hold no state between calls.
type Parser struct{}

func NewParser() *Parser {
	xsdInit.Do(func() {
		xsdvalidate.Init()
	})
	return &Parser{}
}

// Shutdown releases libxml2 state; call once on process exit.
func Shutdown() {
	xsdvalidate.Cleanup()
}

// IsUnnamed reports whether name is the placeholder given to routes the file
// left unnamed.
func (p *Parser) IsUnnamed(name string) bool {
	return unnamedPattern.MatchString(name)
}

// Validate checks path against the XSD at schemaPath. Any failure, including
// an unreadable schema, is reported as false.
func (p *Parser) Validate(ctx context.Context, path, schemaPath string) bool {
	if ctx.Err() != nil || schemaPath == "" {
		return false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("file", path).Debug("validate: read failed")
		return false
	}

	handler, err := xsdvalidate.NewXsdHandlerUrl(schemaPath, xsdvalidate.ParsErrDefault)
	if err != nil {
		logrus.WithError(err).WithField("schema", schemaPath).Warn("validate: schema unusable")
		return false
	}
	defer handler.Free()

	if err := handler.ValidateMem(raw, xsdvalidate.ValidErrDefault); err != nil {
		logrus.WithError(err).WithField("file", path).Debug("validate: document rejected")
		return false
	}

	// the schema accepts some documents we still cannot decode
	_, err = p.open(path)
	return err == nil
}

func (p *Parser) DecodeHeader(ctx context.Context, path string) (Header, error) {
	if err := ctx.Err(); err != nil {
		return Header{}, err
	}
	doc, err := p.open(path)
	if err != nil {
		return Header{}, err
	}
	return header(path, doc)
}

// DecodeRoutes lists the routes of a document in file order. Routes without a
// name get "Unnamed route N", counting unnamed routes from 1.
func (p *Parser) DecodeRoutes(ctx context.Context, path string) ([]RouteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.open(path)
	if err != nil {
		return nil, err
	}

	names := routeNames(doc)
	routes := make([]RouteSummary, 0, len(doc.Routes))
	for i, rte := range doc.Routes {
		routes = append(routes, RouteSummary{
			Name:   names[i],
			Length: roundLength(pathLength(routePoints(rte.Points))),
		})
	}
	return routes, nil
}

// DecodeWaypoints returns the points of the first route named routeName.
// Unnamed routes are matched by their placeholder name. An unknown name gives
// an empty list.
func (p *Parser) DecodeWaypoints(ctx context.Context, path, routeName string) ([]Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.open(path)
	if err != nil {
		return nil, err
	}

	names := routeNames(doc)
	for i, rte := range doc.Routes {
		if names[i] != routeName {
			continue
		}
		points := make([]Point, 0, len(rte.Points))
		for _, pt := range rte.Points {
			points = append(points, Point{
				Latitude:  decimal.NewFromFloat(pt.Latitude).Round(7),
				Longitude: decimal.NewFromFloat(pt.Longitude).Round(7),
				Name:      optional(pt.Name),
			})
		}
		return points, nil
	}
	return []Point{}, nil
}

func (p *Parser) Summary(ctx context.Context, path string) (FileSummary, error) {
	if err := ctx.Err(); err != nil {
		return FileSummary{}, err
	}
	doc, err := p.open(path)
	if err != nil {
		return FileSummary{}, err
	}
	h, err := header(path, doc)
	if err != nil {
		return FileSummary{}, err
	}
	return FileSummary{
		Name:         h.Name,
		Version:      h.Version,
		Creator:      h.Creator,
		NumWaypoints: len(doc.Waypoints),
		NumRoutes:    len(doc.Routes),
		NumTracks:    len(doc.Tracks),
	}, nil
}

// Components lists every route then every track, numbered from 1 within
// their kind.
func (p *Parser) Components(ctx context.Context, path string) ([]Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.open(path)
	if err != nil {
		return nil, err
	}

	comps := make([]Component, 0, len(doc.Routes)+len(doc.Tracks))
	for i, rte := range doc.Routes {
		pts := routePoints(rte.Points)
		comps = append(comps, Component{
			Component: fmt.Sprintf("Route %d", i+1),
			Name:      displayName(rte.Name),
			NumPoints: len(pts),
			Length:    roundLength(pathLength(pts)),
			Loop:      isLoop(pts),
		})
	}
	for i, trk := range doc.Tracks {
		pts := trackPoints(trk)
		comps = append(comps, Component{
			Component: fmt.Sprintf("Track %d", i+1),
			Name:      displayName(trk.Name),
			NumPoints: len(pts),
			Length:    roundLength(pathLength(pts)),
			Loop:      isLoop(pts),
		})
	}
	return comps, nil
}

// OtherData returns the descriptive elements of the route, or failing that
// the track, called componentName.
func (p *Parser) OtherData(ctx context.Context, path, componentName string) ([]OtherData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.open(path)
	if err != nil {
		return nil, err
	}

	for _, rte := range doc.Routes {
		if rte.Name == componentName {
			return otherData(rte.Comment, rte.Description, rte.Source, rte.Type, rte.Number), nil
		}
	}
	for _, trk := range doc.Tracks {
		if trk.Name == componentName {
			return otherData(trk.Comment, trk.Description, trk.Source, trk.Type, trk.Number), nil
		}
	}
	return []OtherData{}, nil
}

// Rename changes the name of the first route, else the first track, called
// oldName and rewrites the document in place. It returns false if no
// component had that name.
func (p *Parser) Rename(ctx context.Context, path, oldName, newName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := p.open(path)
	if err != nil {
		return false, err
	}

	if !renameComponent(doc, oldName, newName) {
		return false, nil
	}

	out, err := doc.ToXml(gpx.ToXmlParams{Version: doc.Version, Indent: true})
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := writeFileAtomic(path, out); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Parser) open(path string) (*gpx.GPX, error) {
	doc, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}
	return doc, nil
}

func header(path string, doc *gpx.GPX) (Header, error) {
	name := filepath.Base(path)
	if doc.Creator == "" {
		return Header{}, fmt.Errorf("%w: %s: missing creator", ErrDecode, name)
	}
	version, err := decimal.NewFromString(strings.TrimSpace(doc.Version))
	if err != nil {
		return Header{}, fmt.Errorf("%w: %s: bad version %q", ErrDecode, name, doc.Version)
	}
	return Header{Name: name, Version: version.Round(1), Creator: doc.Creator}, nil
}

func renameComponent(doc *gpx.GPX, oldName, newName string) bool {
	for i := range doc.Routes {
		if doc.Routes[i].Name == oldName {
			doc.Routes[i].Name = newName
			return true
		}
	}
	for i := range doc.Tracks {
		if doc.Tracks[i].Name == oldName {
			doc.Tracks[i].Name = newName
			return true
		}
	}
	return false
}

func routeNames(doc *gpx.GPX) []string {
	names := make([]string, len(doc.Routes))
	unnamed := 1
	for i, rte := range doc.Routes {
		if rte.Name == "" {
			names[i] = unnamedPrefix + strconv.Itoa(unnamed)
			unnamed++
			continue
		}
		names[i] = rte.Name
	}
	return names
}

func routePoints(pts []gpx.GPXPoint) []latLon {
	out := make([]latLon, 0, len(pts))
	for _, pt := range pts {
		out = append(out, latLon{lat: pt.Latitude, lon: pt.Longitude})
	}
	return out
}

func trackPoints(trk gpx.GPXTrack) []latLon {
	var out []latLon
	for _, seg := range trk.Segments {
		out = append(out, routePoints(seg.Points)...)
	}
	return out
}

func otherData(cmt, desc, src, typ string, number gpx.NullableInt) []OtherData {
	out := []OtherData{}
	add := func(name, value string) {
		if value != "" {
			out = append(out, OtherData{Name: name, Value: value})
		}
	}
	add("cmt", cmt)
	add("desc", desc)
	add("src", src)
	if number.NotNull() {
		add("number", strconv.Itoa(number.Value()))
	}
	add("type", typ)
	return out
}

func displayName(name string) string {
	if name == "" {
		return "None"
	}
	return name
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rename-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
