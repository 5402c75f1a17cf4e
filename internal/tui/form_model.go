package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/tables"
)

// FormRow identifies one input row of the form.
type FormRow int

// Input rows in display order.
const (
	RowShape FormRow = iota
	RowMemberDepth
	RowFlangeWidth
	RowGauge
	RowOutsideDiameter
	RowCWTPrice
	rowCount
)

// Editable reports whether the row takes typed input rather than cycling
// through fixed options.
func (r FormRow) Editable() bool {
	switch r {
	case RowMemberDepth, RowOutsideDiameter, RowCWTPrice:
		return true
	default:
		return false
	}
}

// fieldRows maps engine.Input.Fields() positions to form rows. The inside
// diameter line is fixed and has no row.
//
//nolint:gochecknoglobals // Lookup table.
var fieldRows = []FormRow{RowShape, RowMemberDepth, RowFlangeWidth, RowGauge, RowOutsideDiameter, -1, RowCWTPrice}

const (
	editorCharLimit = 16
	editorWidth     = 12
	defaultWidth    = 80
)

// FormModel is the Bubble Tea model for the two-column calculator form.
// Every committed change recomputes the full result.
type FormModel struct {
	tables *tables.Tables
	input  engine.Input
	result engine.Result
	err    error

	focused FormRow
	editing bool
	editor  textinput.Model

	flanges []float64
	gauges  []tables.Gauge

	keys     KeyMap
	help     help.Model
	width    int
	quitting bool
}

// NewFormModel creates a form over t, starting from in, and computes the
// initial result.
func NewFormModel(t *tables.Tables, in engine.Input) *FormModel {
	editor := textinput.New()
	editor.CharLimit = editorCharLimit
	editor.Width = editorWidth
	editor.Prompt = ""

	m := &FormModel{
		tables:  t,
		input:   in,
		editor:  editor,
		flanges: t.FlangeWidths(),
		gauges:  t.Gauges(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		width:   defaultWidth,
	}
	m.recompute()
	return m
}

// Input returns the current selections.
func (m *FormModel) Input() engine.Input { return m.input }

// Result returns the last successful computation.
func (m *FormModel) Result() engine.Result { return m.result }

// Err returns the message shown on the error line, if any.
func (m *FormModel) Err() error { return m.err }

// Focused returns the focused row.
func (m *FormModel) Focused() FormRow { return m.focused }

// Editing reports whether a numeric edit is in progress.
func (m *FormModel) Editing() bool { return m.editing }

// Init initializes the model.
func (m *FormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.focused > 0 {
			m.focused--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focused < rowCount-1 {
			m.focused++
		}
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Edit):
		if m.focused.Editable() {
			return m, m.startEdit()
		}
		m.cycle(1)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

//nolint:exhaustive // Only enter, esc and ctrl+c leave the editor.
func (m *FormModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.commitEdit()
		return m, nil
	case tea.KeyEsc:
		m.stopEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *FormModel) startEdit() tea.Cmd {
	m.editing = true
	m.editor.SetValue(m.rowValue(m.focused))
	m.editor.CursorEnd()
	return m.editor.Focus()
}

func (m *FormModel) stopEdit() {
	m.editing = false
	m.editor.Blur()
	m.editor.SetValue("")
}

// commitEdit applies the editor's value to the focused row. An invalid
// value leaves the input unchanged and sets the error line.
func (m *FormModel) commitEdit() {
	text := m.editor.Value()
	m.stopEdit()

	next := m.input
	var err error
	switch m.focused {
	case RowMemberDepth:
		next.MemberDepth, err = tables.ParseInches(text)
	case RowOutsideDiameter:
		next.OutsideDiameter, err = tables.ParseInches(text)
	case RowCWTPrice:
		next.CWTPrice, err = parsePrice(text)
	default:
		return
	}
	if err == nil {
		err = next.Validate()
	}
	if err != nil {
		m.err = fmt.Errorf("%s: %w", rowLabel(m.focused), err)
		return
	}
	m.input = next
	m.recompute()
}

// cycle moves the focused selection row dir steps through its options,
// wrapping at either end.
func (m *FormModel) cycle(dir int) {
	switch m.focused {
	case RowShape:
		shapes := engine.Shapes()
		i := indexOf(shapes, m.input.Shape)
		m.input.Shape = shapes[wrap(i, dir, len(shapes))]
	case RowFlangeWidth:
		if len(m.flanges) == 0 {
			return
		}
		i := indexOf(m.flanges, m.input.FlangeWidth)
		m.input.FlangeWidth = m.flanges[wrap(i, dir, len(m.flanges))]
	case RowGauge:
		if len(m.gauges) == 0 {
			return
		}
		i := indexOf(m.gauges, m.input.Gauge)
		m.input.Gauge = m.gauges[wrap(i, dir, len(m.gauges))]
	default:
		return
	}
	m.recompute()
}

func (m *FormModel) recompute() {
	res, err := engine.Compute(m.input, m.tables)
	if err != nil {
		m.err = err
		return
	}
	m.result = res
	m.err = nil
}

func (m *FormModel) rowValue(r FormRow) string {
	switch r {
	case RowMemberDepth:
		return strconv.FormatFloat(m.input.MemberDepth, 'f', -1, 64)
	case RowOutsideDiameter:
		return strconv.FormatFloat(m.input.OutsideDiameter, 'f', -1, 64)
	case RowCWTPrice:
		return strconv.FormatFloat(m.input.CWTPrice, 'f', -1, 64)
	default:
		return ""
	}
}

// View renders the form.
func (m *FormModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Steel Coil Calculator"))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		ColumnStyle.Render(m.renderInputs()),
		" ",
		ColumnStyle.Render(RenderOutputs(m.result)),
	))
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m *FormModel) renderInputs() string {
	var sb strings.Builder
	sb.WriteString(ColumnTitleStyle.Render("Inputs"))
	sb.WriteString("\n")
	for i, f := range m.input.Fields() {
		row := fieldRows[i]
		cursor := "  "
		value := ValueStyle.Render(f.Value)
		switch {
		case row < 0:
			value = MutedStyle.Render(f.Value)
		case row == m.focused && m.editing:
			cursor = IconCursor + " "
			value = m.editor.View()
		case row == m.focused:
			cursor = IconCursor + " "
			value = FocusedStyle.Render(f.Value)
			if !row.Editable() {
				value = FocusedStyle.Render("‹ " + f.Value + " ›")
			}
		}
		sb.WriteString(cursor)
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, f.Label)))
		sb.WriteString(value)
		if i < len(fieldRows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderOutputs renders the ten result fields at display precision.
func RenderOutputs(r engine.Result) string {
	var sb strings.Builder
	sb.WriteString(ColumnTitleStyle.Render("Outputs"))
	for _, f := range r.Fields() {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, f.Label)))
		sb.WriteString(ValueStyle.Render(f.DisplayWithUnit()))
	}
	return sb.String()
}

func rowLabel(r FormRow) string {
	for i, row := range fieldRows {
		if row == r {
			return engine.Input{}.Fields()[i].Label
		}
	}
	return fmt.Sprintf("row %d", int(r))
}

func parsePrice(s string) (float64, error) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if text == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

// wrap steps i by dir within [0, n). A missing index (-1) lands on the
// first or last item.
func wrap(i, dir, n int) int {
	if i < 0 {
		if dir < 0 {
			return n - 1
		}
		return 0
	}
	return ((i+dir)%n + n) % n
}
