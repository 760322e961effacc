// Package vtk reads legacy ASCII VTK files, the format CFD solvers commonly
// write one file per time step. Only the subset needed for viewing is
// supported: UNSTRUCTURED_GRID and POLYDATA geometry with SCALARS, VECTORS
// and FIELD attribute arrays attached to cells or points. Binary payloads
// and the XML formats (.vtu, .vtp) are out of scope.
package vtk

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Attachment says which mesh element a data array describes.
type Attachment int

const (
	CellAttachment Attachment = iota
	PointAttachment
)

// DataArray is one named attribute layer, one value per cell or point.
// Multi-component source arrays (VECTORS, FIELD with width > 1) are reduced
// to their Euclidean magnitude so every layer can drive a colormap.
type DataArray struct {
	Name   string
	Attach Attachment
	Values []float64
}

// Mesh is the parsed contents of one VTK file.
type Mesh struct {
	Title     string
	Points    [][3]float64
	Cells     [][]int // point indices, already validated against len(Points)
	CellData  []DataArray
	PointData []DataArray
}

// Layers lists attribute array names, cell data first, in file order.
func (m *Mesh) Layers() []string {
	names := make([]string, 0, len(m.CellData)+len(m.PointData))
	for _, a := range m.CellData {
		names = append(names, a.Name)
	}
	for _, a := range m.PointData {
		names = append(names, a.Name)
	}
	return names
}

// Layer looks an attribute array up by name, preferring cell data when a
// name appears on both attachments.
func (m *Mesh) Layer(name string) (*DataArray, bool) {
	for i := range m.CellData {
		if m.CellData[i].Name == name {
			return &m.CellData[i], true
		}
	}
	for i := range m.PointData {
		if m.PointData[i].Name == name {
			return &m.PointData[i], true
		}
	}
	return nil, false
}

// Bounds returns the axis-aligned bounding box of the points.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if len(m.Points) == 0 {
		return
	}
	min, max = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}
	return
}

// ReadFile parses one legacy VTK file from disk.
func ReadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses one legacy VTK file.
func Read(r io.Reader) (*Mesh, error) {
	p := &parser{sc: bufio.NewScanner(r)}
	p.sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if err := p.header(); err != nil {
		return nil, err
	}
	m := &Mesh{Title: p.title}
	attach := CellAttachment
	attachCount := -1 // set by CELL_DATA / POINT_DATA

	for {
		kw, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch kw {
		case "POINTS":
			if err := p.points(m); err != nil {
				return nil, err
			}
		case "CELLS", "POLYGONS", "LINES":
			if err := p.cells(m); err != nil {
				return nil, err
			}
		case "CELL_TYPES":
			// Cell connectivity already carries everything the renderer
			// needs; type codes are read and dropped.
			n, err := p.intTok()
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if _, err := p.intTok(); err != nil {
					return nil, err
				}
			}
		case "CELL_DATA":
			n, err := p.intTok()
			if err != nil {
				return nil, err
			}
			attach, attachCount = CellAttachment, n
		case "POINT_DATA":
			n, err := p.intTok()
			if err != nil {
				return nil, err
			}
			attach, attachCount = PointAttachment, n
		case "SCALARS":
			if err := p.scalars(m, attach, attachCount); err != nil {
				return nil, err
			}
		case "VECTORS", "NORMALS":
			if err := p.vectors(m, attach, attachCount); err != nil {
				return nil, err
			}
		case "FIELD":
			if err := p.field(m, attach, attachCount); err != nil {
				return nil, err
			}
		default:
			return nil, p.errf("unsupported section %q", kw)
		}
	}

	for ci, cell := range m.Cells {
		for _, idx := range cell {
			if idx < 0 || idx >= len(m.Points) {
				return nil, fmt.Errorf("cell %d references point %d of %d", ci, idx, len(m.Points))
			}
		}
	}
	return m, nil
}

// parser hands out whitespace-separated tokens while tracking the current
// line for error messages.
type parser struct {
	sc    *bufio.Scanner
	line  int
	toks  []string
	title string
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.line, fmt.Sprintf(format, args...))
}

// nextLine advances to the next raw line. Returns io.EOF when exhausted.
func (p *parser) nextLine() (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	p.line++
	return p.sc.Text(), nil
}

// next returns the next token, skipping blank lines.
func (p *parser) next() (string, error) {
	for len(p.toks) == 0 {
		line, err := p.nextLine()
		if err != nil {
			return "", err
		}
		p.toks = strings.Fields(line)
	}
	tok := p.toks[0]
	p.toks = p.toks[1:]
	return tok, nil
}

func (p *parser) need() (string, error) {
	tok, err := p.next()
	if err == io.EOF {
		return "", p.errf("unexpected end of file")
	}
	return tok, err
}

func (p *parser) intTok() (int, error) {
	tok, err := p.need()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errf("expected integer, got %q", tok)
	}
	return n, nil
}

func (p *parser) floatTok() (float64, error) {
	tok, err := p.need()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, p.errf("expected number, got %q", tok)
	}
	return v, nil
}

// header consumes the fixed four-line preamble: version comment, title,
// ASCII marker and DATASET declaration.
func (p *parser) header() error {
	version, err := p.nextLine()
	if err != nil {
		return fmt.Errorf("reading VTK header: %w", err)
	}
	if !strings.HasPrefix(version, "# vtk DataFile") {
		return p.errf("not a legacy VTK file (header %q)", version)
	}
	if p.title, err = p.nextLine(); err != nil {
		return fmt.Errorf("reading VTK title: %w", err)
	}
	format, err := p.need()
	if err != nil {
		return err
	}
	switch format {
	case "ASCII":
	case "BINARY":
		return p.errf("binary VTK files are not supported")
	default:
		return p.errf("unknown data format %q", format)
	}
	if kw, err := p.need(); err != nil {
		return err
	} else if kw != "DATASET" {
		return p.errf("expected DATASET, got %q", kw)
	}
	kind, err := p.need()
	if err != nil {
		return err
	}
	switch kind {
	case "UNSTRUCTURED_GRID", "POLYDATA":
		return nil
	default:
		return p.errf("unsupported dataset type %q", kind)
	}
}

func (p *parser) points(m *Mesh) error {
	n, err := p.intTok()
	if err != nil {
		return err
	}
	if _, err := p.need(); err != nil { // data type, e.g. float or double
		return err
	}
	m.Points = make([][3]float64, n)
	for i := 0; i < n; i++ {
		for c := 0; c < 3; c++ {
			if m.Points[i][c], err = p.floatTok(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) cells(m *Mesh) error {
	n, err := p.intTok()
	if err != nil {
		return err
	}
	size, err := p.intTok()
	if err != nil {
		return err
	}
	read := 0
	m.Cells = slices.Grow(m.Cells, n)
	for i := 0; i < n; i++ {
		count, err := p.intTok()
		if err != nil {
			return err
		}
		if count < 1 {
			return p.errf("cell %d has %d points", i, count)
		}
		cell := make([]int, count)
		for j := range cell {
			if cell[j], err = p.intTok(); err != nil {
				return err
			}
		}
		read += count + 1
		m.Cells = append(m.Cells, cell)
	}
	if read != size {
		return p.errf("cell section declared %d values, found %d", size, read)
	}
	return nil
}

func (p *parser) appendArray(m *Mesh, a DataArray) {
	if a.Attach == CellAttachment {
		m.CellData = append(m.CellData, a)
	} else {
		m.PointData = append(m.PointData, a)
	}
}

func (p *parser) scalars(m *Mesh, attach Attachment, n int) error {
	if n < 0 {
		return p.errf("SCALARS before CELL_DATA/POINT_DATA")
	}
	name, err := p.need()
	if err != nil {
		return err
	}
	if _, err := p.need(); err != nil { // data type
		return err
	}
	// The optional component count sits on the SCALARS line itself, which
	// is what tells it apart from the first data value.
	comp := 1
	if len(p.toks) > 0 {
		tok := p.toks[0]
		p.toks = p.toks[1:]
		if comp, err = strconv.Atoi(tok); err != nil || comp < 1 {
			return p.errf("invalid component count %q", tok)
		}
	}
	// The LOOKUP_TABLE line is optional; with it absent the data follows
	// directly.
	tok, err := p.need()
	if err != nil {
		return err
	}
	if tok == "LOOKUP_TABLE" {
		if _, err := p.need(); err != nil { // table name
			return err
		}
	} else {
		p.toks = append([]string{tok}, p.toks...)
	}
	values, err := p.tuples(n, comp)
	if err != nil {
		return err
	}
	p.appendArray(m, DataArray{Name: name, Attach: attach, Values: values})
	return nil
}

func (p *parser) vectors(m *Mesh, attach Attachment, n int) error {
	if n < 0 {
		return p.errf("VECTORS before CELL_DATA/POINT_DATA")
	}
	name, err := p.need()
	if err != nil {
		return err
	}
	if _, err := p.need(); err != nil { // data type
		return err
	}
	values, err := p.tuples(n, 3)
	if err != nil {
		return err
	}
	p.appendArray(m, DataArray{Name: name, Attach: attach, Values: values})
	return nil
}

func (p *parser) field(m *Mesh, attach Attachment, n int) error {
	if n < 0 {
		return p.errf("FIELD before CELL_DATA/POINT_DATA")
	}
	if _, err := p.need(); err != nil { // field collection name
		return err
	}
	arrays, err := p.intTok()
	if err != nil {
		return err
	}
	for i := 0; i < arrays; i++ {
		name, err := p.need()
		if err != nil {
			return err
		}
		comp, err := p.intTok()
		if err != nil {
			return err
		}
		tuplesN, err := p.intTok()
		if err != nil {
			return err
		}
		if tuplesN != n {
			return p.errf("field array %q has %d tuples, expected %d", name, tuplesN, n)
		}
		if _, err := p.need(); err != nil { // data type
			return err
		}
		values, err := p.tuples(tuplesN, comp)
		if err != nil {
			return err
		}
		p.appendArray(m, DataArray{Name: name, Attach: attach, Values: values})
	}
	return nil
}

// tuples reads n tuples of comp values each, reduced to one value per tuple
// (identity for comp == 1, magnitude otherwise).
func (p *parser) tuples(n, comp int) ([]float64, error) {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		if comp == 1 {
			v, err := p.floatTok()
			if err != nil {
				return nil, err
			}
			values[i] = v
			continue
		}
		sum := 0.0
		for c := 0; c < comp; c++ {
			v, err := p.floatTok()
			if err != nil {
				return nil, err
			}
			sum += v * v
		}
		values[i] = math.Sqrt(sum)
	}
	return values, nil
}
