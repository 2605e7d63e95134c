package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a project in the terminal",
		Long: `Open a project in an interactive terminal editor. The file is created when
it does not exist and saved on quit when it changed.

Keys:
  1-5        add an input, process, decision, data or output node
  ↑/↓ j/k    select the previous or next node
  t e        edit the selected node's title or description
  n p        edit the project name or description
  c          connect: press on the source, then again on the target
  d          delete the selected node (and its connections)
  x          export with the configured formats and sink
  s          save
  esc        clear selection or cancel input
  q          quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd, args[0])
		},
	}
}

func (c *CLI) runEdit(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := loadProject(path)
	if errors.Is(err, fs.ErrNotExist) {
		p, err = workflow.NewProject(""), nil
	}
	if err != nil {
		return err
	}

	cfg := c.config
	if cfg.Sink.Kind == sinkStdout {
		cfg.Sink.Kind = sinkDir
	}
	formats, err := cfg.formats()
	if err != nil {
		return err
	}
	dst, closeSink, err := openSink(ctx, cfg, "")
	if err != nil {
		return err
	}
	defer closeSink()

	box := &noticeBox{}
	ed := workflow.NewEditor(workflow.WithProject(p), workflow.WithNotifier(box))
	m := newEditorModel(ctx, ed, box, path, export.NewExporter(dst), formats)

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(editorModel); ok && fm.dirty {
		if err := saveProject(path, ed.Snapshot()); err != nil {
			return err
		}
		logger.Info("Saved", "file", path, "nodes", ed.NodeCount())
	}
	return nil
}

// =============================================================================
// editorModel - Interactive workflow editor
// =============================================================================

type editMode int

const (
	modeNormal editMode = iota
	modeTitle
	modeDescription
	modeName
	modeProjectDescription
)

func (m editMode) prompt() string {
	switch m {
	case modeTitle:
		return "Title"
	case modeDescription:
		return "Description"
	case modeName:
		return "Project name"
	case modeProjectDescription:
		return "Project description"
	}
	return ""
}

// noticeBox keeps the latest editor notice for the status bar.
type noticeBox struct {
	last  workflow.Notice
	count int
}

func (b *noticeBox) Notify(n workflow.Notice) {
	b.last = n
	b.count++
}

type exportDoneMsg struct {
	notices []string
	err     error
}

type savedMsg struct {
	path string
	err  error
}

// Canvas slots for new nodes: six columns by six rows, then wrap.
const (
	slotCols = 6
	slotRows = 6
)

func nextSlot(i int) (x, y float64) {
	col := i % slotCols
	row := (i / slotCols) % slotRows
	return float64(40 + col*190), float64(100 + row*110)
}

// editorModel is the bubbletea model of `skillflow edit`. All project
// mutations happen in Update, which makes it the editor's only writer.
type editorModel struct {
	ctx      context.Context
	ed       *workflow.Editor
	notices  *noticeBox
	exporter *export.Exporter
	formats  []export.Format
	path     string

	mode      editMode
	input     []rune
	linkFrom  string
	status    string
	failed    bool
	dirty     bool
	exporting bool
	seen      int
}

func newEditorModel(ctx context.Context, ed *workflow.Editor, box *noticeBox, path string, ex *export.Exporter, formats []export.Format) editorModel {
	return editorModel{
		ctx:      ctx,
		ed:       ed,
		notices:  box,
		exporter: ex,
		formats:  formats,
		path:     path,
		seen:     box.count,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updateInput(msg), nil
		}
		return m.updateNormal(msg)
	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(strings.Join(msg.notices, " · "))
		}
	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.dirty = false
			m.setStatus("Saved " + msg.path)
		}
	}
	return m, nil
}

func (m editorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		kind := workflow.Kinds()[key[0]-'1']
		x, y := nextSlot(m.ed.NodeCount())
		n, err := m.ed.AddNode(kind, x, y)
		if err != nil {
			m.setError(err)
			break
		}
		m.ed.SelectNode(n.ID)
		m.dirty = true
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "esc":
		m.ed.ClearSelection()
		m.linkFrom = ""
	case "d", "delete":
		id := m.ed.SelectedID()
		if id == "" {
			m.setStatus("Select a node first")
			break
		}
		idx := m.selectedIndex()
		if m.ed.DeleteNode(id) {
			m.dirty = true
			if m.linkFrom == id {
				m.linkFrom = ""
			}
			m.selectIndex(min(idx, m.ed.NodeCount()-1))
		}
	case "t", "e":
		n, ok := m.ed.Selected()
		if !ok {
			m.setStatus("Select a node first")
			break
		}
		if key == "t" {
			m.mode, m.input = modeTitle, []rune(n.Title)
		} else {
			m.mode, m.input = modeDescription, []rune(n.Description)
		}
	case "n":
		m.mode, m.input = modeName, []rune(m.ed.Snapshot().Name)
	case "p":
		m.mode, m.input = modeProjectDescription, []rune(m.ed.Snapshot().Description)
	case "c":
		m.connect()
	case "x":
		if m.exporting {
			return m, nil
		}
		m.exporting = true
		m.setStatus("Exporting…")
		return m, m.exportCmd()
	case "s":
		return m, m.saveCmd()
	}
	m.syncNotice()
	return m, nil
}

func (m *editorModel) connect() {
	sel, ok := m.ed.Selected()
	if !ok {
		m.setStatus("Select a node first")
		return
	}
	if m.linkFrom == "" {
		m.linkFrom = sel.ID
		m.setStatus(fmt.Sprintf("Connecting from %s: select the target and press c", sel.Title))
		return
	}
	from := m.linkFrom
	m.linkFrom = ""
	if from == sel.ID {
		m.setStatus("Connection cancelled")
		return
	}
	if _, err := m.ed.Connect(from, sel.ID); err != nil {
		m.setError(err)
		return
	}
	m.dirty = true
}

func (m editorModel) updateInput(msg tea.KeyMsg) editorModel {
	switch msg.Type {
	case tea.KeyEnter:
		text := string(m.input)
		switch m.mode {
		case modeTitle:
			m.ed.UpdateNode(m.ed.SelectedID(), workflow.NodePatch{Title: workflow.Text(text)})
		case modeDescription:
			m.ed.UpdateNode(m.ed.SelectedID(), workflow.NodePatch{Description: workflow.Text(text)})
		case modeName:
			m.ed.SetName(text)
		case modeProjectDescription:
			m.ed.SetDescription(text)
		}
		m.dirty = true
		m.mode, m.input = modeNormal, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode, m.input = modeNormal, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m
}

func (m editorModel) selectedIndex() int {
	id := m.ed.SelectedID()
	for i, n := range m.ed.Snapshot().Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (m editorModel) selectIndex(i int) {
	nodes := m.ed.Snapshot().Nodes
	if i < 0 || i >= len(nodes) {
		m.ed.ClearSelection()
		return
	}
	m.ed.SelectNode(nodes[i].ID)
}

func (m editorModel) moveSelection(delta int) {
	count := m.ed.NodeCount()
	if count == 0 {
		return
	}
	i := m.selectedIndex()
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = count - 1
	default:
		i = max(0, min(count-1, i+delta))
	}
	m.selectIndex(i)
}

func (m *editorModel) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *editorModel) setError(err error) {
	m.status, m.failed = err.Error(), true
}

// syncNotice moves a fresh editor notice into the status bar.
func (m *editorModel) syncNotice() {
	if m.notices.count != m.seen {
		m.seen = m.notices.count
		m.setStatus(m.notices.last.Message)
	}
}

func (m editorModel) exportCmd() tea.Cmd {
	p := m.ed.Snapshot()
	ctx, ex, formats := m.ctx, m.exporter, m.formats
	return func() tea.Msg {
		notices := make([]string, 0, len(formats))
		for _, f := range formats {
			if _, err := ex.Export(ctx, p, f); err != nil {
				return exportDoneMsg{err: err}
			}
			notices = append(notices, f.Notice())
		}
		return exportDoneMsg{notices: notices}
	}
}

func (m editorModel) saveCmd() tea.Cmd {
	p, path := m.ed.Snapshot(), m.path
	return func() tea.Msg {
		return savedMsg{path: path, err: saveProject(path, p)}
	}
}

// =============================================================================
// View
// =============================================================================

var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

func (m editorModel) View() string {
	var b strings.Builder
	p := m.ed.Snapshot()
	selected := m.ed.SelectedID()

	b.WriteString(StyleTitle.Render(p.Name))
	if m.dirty {
		b.WriteString(StyleDim.Render(" (modified)"))
	}
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(StyleDim.Render(p.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(p.Nodes) == 0 {
		b.WriteString(StyleDim.Render("No nodes yet. Press 1-5 to add one."))
		b.WriteString("\n")
	}
	for _, n := range p.Nodes {
		cursor := "  "
		style := editNormalStyle
		if n.ID == selected {
			cursor = "▸ "
			style = editSelectedStyle
		}
		link := " "
		if n.ID == m.linkFrom {
			link = StyleHighlight.Render(iconArrow)
		}
		fmt.Fprintf(&b, "%s%s %s %s  %s\n",
			cursor, link, kindChip(n.Kind), style.Render(n.Title),
			StyleDim.Render(n.Description))
	}

	if conns := p.ResolvedConnections(); len(conns) > 0 {
		b.WriteString("\n")
		for _, rc := range conns {
			fmt.Fprintf(&b, "  %s %s %s\n", rc.From.Title, StyleDim.Render(iconArrow), rc.To.Title)
		}
	}

	b.WriteString("\n")
	if m.mode != modeNormal {
		fmt.Fprintf(&b, "%s: %s█\n", StyleHighlight.Render(m.mode.prompt()), string(m.input))
	} else if m.status != "" {
		if m.failed {
			b.WriteString(editErrorStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess) + " " + m.status)
		}
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("1-5 add · ↑/↓ select · t title · e desc · n name · p about · c connect · d delete · x export · s save · q quit"))

	return b.String()
}
