package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gearbox/pkg/canvas"
	"github.com/matzehuels/gearbox/pkg/errors"
	"github.com/matzehuels/gearbox/pkg/geom"
	"github.com/matzehuels/gearbox/pkg/part"
	"github.com/matzehuels/gearbox/pkg/session"
)

// Terminal cells are mapped onto device pixels at a fixed size so the
// controller sees the same coordinates a pixel surface would report.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
	wheelStep  = 100.0 // device delta of one wheel notch

	headerRows = 2
	footerRows = 2
)

// Canvas styles
var (
	canvasItemStyle     = lipgloss.NewStyle().Foreground(colorGray)
	canvasShaftStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	canvasGearStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	canvasHousingStyle  = lipgloss.NewStyle().Foreground(colorDim)
	canvasSelectedStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	canvasGuideStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	paletteActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// glyphs maps each type to the rune its footprint is filled with.
var glyphs = map[part.Type]rune{
	part.Spur:     '▒',
	part.Helical:  '▓',
	part.Bevel:    '░',
	part.Worm:     '≈',
	part.Shaft:    '═',
	part.Bearing:  'O',
	part.Housing:  '·',
	part.Coupling: '#',
	part.Spacer:   '-',
	part.Circlip:  ')',
}

// paletteKeys maps number keys to palette positions.
var paletteKeys = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 3, "5": 4,
	"6": 5, "7": 6, "8": 7, "9": 8, "0": 9,
}

// =============================================================================
// CanvasModel - Interactive plan view
// =============================================================================

// CanvasModel is the bubbletea model for the interactive plan view. Mouse
// events are forwarded to the controller; the frame it produces is drawn
// as terminal cells.
type CanvasModel struct {
	Controller *canvas.Controller
	Width      int
	Height     int
	Palette    int        // index into part.Types for the next drop
	Pointer    geom.Point // last device position seen over the canvas
	Status     string
}

// NewCanvasModel creates a model driving c.
func NewCanvasModel(c *canvas.Controller) CanvasModel {
	return CanvasModel{
		Controller: c,
		Width:      100,
		Height:     30,
		Pointer:    geom.Pt(50*cellWidth, 13*cellHeight),
	}
}

func (m CanvasModel) Init() tea.Cmd {
	return nil
}

func (m CanvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))
	}
	return m, nil
}

func (m CanvasModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.Controller
	key := msg.String()
	if i, ok := paletteKeys[key]; ok && i < len(part.Types) {
		m.Palette = i
		m.drop()
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		c.PointerLeave()
		return m, tea.Quit
	case "tab":
		m.Palette = (m.Palette + 1) % len(part.Types)
	case "shift+tab":
		m.Palette = (m.Palette + len(part.Types) - 1) % len(part.Types)
	case "enter":
		m.drop()
	case "s":
		c.SetSnapEnabled(!c.SnapEnabled())
		m.Status = "snapping " + onOff(c.SnapEnabled())
	case "+", "=":
		c.ZoomIn()
	case "-", "_":
		c.ZoomOut()
	case "r":
		c.ResetView()
	case "o":
		m.rotate()
	case "x", "delete", "backspace":
		if id := c.Selected(); id != "" && c.Delete(id) {
			m.Status = "deleted " + id
		}
	}
	return m, nil
}

func (m *CanvasModel) drop() {
	t := part.Types[m.Palette]
	it, err := m.Controller.Drop(t, m.Pointer)
	if err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.Status = fmt.Sprintf("added %s %s at %s, %s", t.Label(), it.ID, formatCoord(it.Pos.X), formatCoord(it.Pos.Y))
}

func (m *CanvasModel) rotate() {
	c := m.Controller
	id := c.Selected()
	if id == "" {
		return
	}
	it, ok := c.Store().Get(id)
	if !ok {
		return
	}
	r := (it.Rotation + 90) % 360
	if err := c.Update(id, part.Patch{Rotation: &r}); err != nil {
		m.Status = errors.UserMessage(err)
	}
}

func (m *CanvasModel) handleMouse(ev tea.MouseEvent) {
	c := m.Controller
	device, inside := m.toDevice(ev.X, ev.Y)
	mods := modifiersOf(ev)

	if ev.IsWheel() {
		var dx, dy float64
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			dy = -wheelStep
		case tea.MouseButtonWheelDown:
			dy = wheelStep
		case tea.MouseButtonWheelLeft:
			dx = -wheelStep
		case tea.MouseButtonWheelRight:
			dx = wheelStep
		}
		c.Wheel(dx, dy, mods)
		return
	}

	switch ev.Action {
	case tea.MouseActionPress:
		if !inside {
			return
		}
		button, ok := buttonOf(ev.Button)
		if !ok {
			return
		}
		id, _ := c.HitTest(device)
		c.PointerDown(device, button, mods, id)
	case tea.MouseActionMotion:
		if !inside {
			c.PointerLeave()
			return
		}
		c.PointerMove(device)
	case tea.MouseActionRelease:
		c.PointerUp()
	}
	if inside {
		m.Pointer = device
	}
}

// toDevice returns the device point at the centre of a terminal cell and
// whether the cell lies on the canvas area.
func (m CanvasModel) toDevice(col, row int) (geom.Point, bool) {
	r := row - headerRows
	inside := r >= 0 && r < m.canvasRows() && col >= 0 && col < m.Width
	return geom.Pt((float64(col)+0.5)*cellWidth, (float64(r)+0.5)*cellHeight), inside
}

func (m CanvasModel) canvasRows() int {
	return max(m.Height-headerRows-footerRows, 1)
}

func buttonOf(b tea.MouseButton) (session.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return session.ButtonPrimary, true
	case tea.MouseButtonMiddle:
		return session.ButtonMiddle, true
	case tea.MouseButtonRight:
		return session.ButtonSecondary, true
	default:
		return 0, false
	}
}

func modifiersOf(ev tea.MouseEvent) session.Modifiers {
	var mods session.Modifiers
	if ev.Shift {
		mods |= session.ModShift
	}
	if ev.Ctrl {
		mods |= session.ModCtrl
	}
	if ev.Alt {
		mods |= session.ModAlt
	}
	return mods
}

// =============================================================================
// Drawing
// =============================================================================

// cell is one terminal character and the style it is drawn with.
type cell struct {
	r     rune
	style *lipgloss.Style
}

func (m CanvasModel) View() string {
	f := m.Controller.Frame()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(m.paletteLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", max(m.Width, 1))))
	b.WriteString("\n")

	grid := m.draw(f)
	for _, row := range grid {
		b.WriteString(renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine(f))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag: move  1-0: add  tab: palette  o: rotate  x: delete  s: snap  +/-: zoom  r: reset  q: quit"))
	return b.String()
}

// draw rasterizes f into a grid of canvas cells.
func (m CanvasModel) draw(f canvas.Frame) [][]cell {
	cols, rows := max(m.Width, 1), m.canvasRows()
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' ', style: &StyleDim}
		}
	}

	vp := f.Viewport
	for _, it := range f.Items {
		style := itemStyle(it.Type)
		if it.ID == f.Selected {
			style = &canvasSelectedStyle
		}
		bounds := it.Bounds()
		c0, r0 := toCell(vp.ToDevice(bounds.Min))
		c1, r1 := toCell(vp.ToDevice(bounds.Max))
		c0, r0 = max(c0, 0), max(r0, 0)
		c1, r1 = min(max(c1, c0), cols-1), min(max(r1, r0), rows-1)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				grid[r][c] = cell{r: glyphs[it.Type], style: style}
			}
		}
		if r0 <= r1 && c0 <= c1 {
			writeText(grid[(r0+r1)/2], c0, c1, it.ID, style)
		}
	}

	if a := f.Guides.Align; a != nil {
		m.drawGuide(grid, vp.ToDevice(geom.Pt(0, *a)).Y, "")
	}
	if g := f.Guides.Mesh; g != nil {
		m.drawGuide(grid, vp.ToDevice(geom.Pt(0, g.Y)).Y, g.Label)
	}
	return grid
}

// drawGuide draws a horizontal guide at device height y over empty cells.
func (m CanvasModel) drawGuide(grid [][]cell, y float64, label string) {
	r := int(math.Floor(y / cellHeight))
	if r < 0 || r >= len(grid) {
		return
	}
	for c := range grid[r] {
		if grid[r][c].r == ' ' {
			grid[r][c] = cell{r: '┄', style: &canvasGuideStyle}
		}
	}
	if label != "" {
		writeText(grid[r], 1, len(grid[r])-1, " "+label+" ", &canvasGuideStyle)
	}
}

func toCell(device geom.Point) (int, int) {
	return int(math.Floor(device.X / cellWidth)), int(math.Floor(device.Y / cellHeight))
}

// writeText writes s into row between columns lo and hi, truncating it to fit.
func writeText(row []cell, lo, hi int, s string, style *lipgloss.Style) {
	c := lo
	for _, r := range s {
		if c > hi || c >= len(row) {
			return
		}
		if c >= 0 {
			row[c] = cell{r: r, style: style}
		}
		c++
	}
}

// renderRow renders a row, grouping runs of equal style.
func renderRow(row []cell) string {
	var b strings.Builder
	var run []rune
	var style *lipgloss.Style
	flush := func() {
		if len(run) > 0 {
			b.WriteString(style.Render(string(run)))
			run = run[:0]
		}
	}
	for _, c := range row {
		if c.style != style {
			flush()
			style = c.style
		}
		run = append(run, c.r)
	}
	flush()
	return b.String()
}

func itemStyle(t part.Type) *lipgloss.Style {
	switch t.Family() {
	case part.FamilyGear, part.FamilyWorm:
		return &canvasGearStyle
	case part.FamilyShaft:
		return &canvasShaftStyle
	case part.FamilyHousing:
		return &canvasHousingStyle
	default:
		return &canvasItemStyle
	}
}

func (m CanvasModel) paletteLine() string {
	parts := make([]string, len(part.Types))
	for i, t := range part.Types {
		label := fmt.Sprintf("%d %s", (i+1)%10, t.Label())
		if i == m.Palette {
			parts[i] = paletteActiveStyle.Render("[" + label + "]")
		} else {
			parts[i] = StyleDim.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (m CanvasModel) statusLine(f canvas.Frame) string {
	w := f.Viewport.ToWorld(m.Pointer)
	fields := []string{
		fmt.Sprintf("zoom %d%%", f.ZoomPercent),
		"snap " + onOff(f.SnapEnabled),
		f.State,
		fmt.Sprintf("%s, %s", formatCoord(math.Round(w.X)), formatCoord(math.Round(w.Y))),
	}
	if f.Selected != "" {
		fields = append(fields, "selected "+f.Selected)
	}
	line := StyleNumber.Render(strings.Join(fields, " · "))
	if m.Status != "" {
		line += "  " + StyleWarning.Render(m.Status)
	}
	return line
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
