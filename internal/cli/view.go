package cli

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/pipeline"
	"github.com/matzehuels/bintree/pkg/render/sink"
)

// viewCommand creates the interactive view command.
func (c *CLI) viewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "view [values...]",
		Short: "Edit a tree interactively and watch it redraw",
		Long: `View opens a terminal editor. Every keystroke re-parses the input and
redraws the tree. Invalid input keeps the last good tree on screen and shows
what went wrong.

Keys: arrows pan, ctrl+r recentres on the root, tab toggles help,
ctrl+u clears the input, esc quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			if flags.file != "" {
				s, err := readInput(nil, flags.file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				input = strings.TrimSpace(s)
			}
			opts := c.config().PipelineOptions()
			flags.apply(cmd, &opts)

			// Keystroke parses stay out of the cache and the log so the
			// screen is not overwritten.
			runner := pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard))
			m := newViewModel(cmd.Context(), runner, opts, input)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// Styles
// =============================================================================

var (
	colorInputNeutral = lipgloss.Color("255") // white
	colorInputValid   = lipgloss.Color("120") // light green
	colorInputInvalid = lipgloss.Color("202") // orange red

	viewInputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			Padding(0, 1)
	viewErrorTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInputInvalid)
	viewTreeStyle       = lipgloss.NewStyle().Foreground(colorWhite)
	viewHelpStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Model
// =============================================================================

// inputStatus drives the colour of the input border.
type inputStatus int

const (
	statusNeutral inputStatus = iota // blank input
	statusValid
	statusInvalid
)

const (
	panStepX      = 4
	panStepY      = 1
	defaultWidth  = 80
	defaultHeight = 24
	headerRows    = 6 // title, input with border, error title and message
)

// viewModel is the bubbletea model behind "bintree view".
type viewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options

	input  string
	status inputStatus

	errTitle   string
	errMessage string

	// lines holds the text drawing of the last valid tree.
	lines   []string
	rootCol int

	offsetX, offsetY int
	showInfo         bool
	width, height    int
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, input string) viewModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := viewModel{
		ctx:    ctx,
		runner: runner,
		opts:   opts,
		input:  input,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.reparse()
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.status != statusInvalid {
			m.recenter()
		}
		m.clampOffset()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyLeft:
			m.offsetX -= panStepX
		case tea.KeyRight:
			m.offsetX += panStepX
		case tea.KeyUp:
			m.offsetY -= panStepY
		case tea.KeyDown:
			m.offsetY += panStepY
		case tea.KeyCtrlR:
			if m.status != statusInvalid {
				m.recenter()
			}
		case tea.KeyTab:
			m.showInfo = !m.showInfo
		case tea.KeyBackspace:
			if m.input != "" {
				_, size := utf8.DecodeLastRuneInString(m.input)
				m.input = m.input[:len(m.input)-size]
				m.reparse()
			}
		case tea.KeyCtrlU:
			m.input = ""
			m.reparse()
		case tea.KeySpace:
			m.input += " "
			m.reparse()
		case tea.KeyRunes:
			m.input += string(msg.Runes)
			m.reparse()
		}
		m.clampOffset()
	}
	return m, nil
}

// reparse runs the input through the pipeline. On failure the previous
// drawing stays and the error is shown; on success the drawing is replaced
// and the viewport recentred on the root.
func (m *viewModel) reparse() {
	opts := m.opts
	opts.Input = m.input

	result, err := m.runner.Parse(m.ctx, opts)
	if err != nil {
		m.fail(errors.UserTitle(err), errors.UserMessage(err))
		return
	}

	text, err := sink.RenderText(result.Layout)
	if err != nil {
		m.fail("Tree Too Wide", err.Error())
		return
	}

	m.errTitle, m.errMessage = "", ""
	m.status = statusValid
	if strings.TrimSpace(m.input) == "" {
		m.status = statusNeutral
	}
	m.lines = splitLines(text)
	m.rootCol = rootColumn(m.lines)
	m.recenter()
}

func (m *viewModel) fail(title, message string) {
	m.status = statusInvalid
	m.errTitle, m.errMessage = title, message
}

// recenter scrolls so the root sits in the middle of the viewport.
func (m *viewModel) recenter() {
	m.offsetX = m.rootCol - m.viewWidth()/2
	m.offsetY = 0
	m.clampOffset()
}

func (m *viewModel) clampOffset() {
	maxX := max(0, m.treeWidth()-m.viewWidth())
	maxY := max(0, len(m.lines)-m.viewHeight())
	m.offsetX = min(max(m.offsetX, 0), maxX)
	m.offsetY = min(max(m.offsetY, 0), maxY)
}

func (m viewModel) viewWidth() int {
	return max(1, m.width)
}

func (m viewModel) viewHeight() int {
	return max(1, m.height-headerRows)
}

func (m viewModel) treeWidth() int {
	w := 0
	for _, l := range m.lines {
		w = max(w, len(l))
	}
	return w
}

// =============================================================================
// View
// =============================================================================

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(" ")
	b.WriteString(viewHelpStyle.Render("←↑↓→ pan  ctrl+r recentre  tab help  ctrl+u clear  esc quit"))
	b.WriteString("\n")

	border := colorInputNeutral
	switch m.status {
	case statusValid:
		border = colorInputValid
	case statusInvalid:
		border = colorInputInvalid
	}
	b.WriteString(viewInputStyle.
		BorderForeground(border).
		Width(max(10, m.viewWidth()-2)).
		Render(m.input + "█"))
	b.WriteString("\n")

	if m.status == statusInvalid {
		b.WriteString(viewErrorTitleStyle.Render(m.errTitle))
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(m.errMessage))
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n\n")

	if m.showInfo {
		b.WriteString(infoPanel())
		return b.String()
	}
	b.WriteString(viewTreeStyle.Render(m.visibleTree()))
	return b.String()
}

// visibleTree cuts the drawing down to the viewport at the current offset.
func (m viewModel) visibleTree() string {
	end := min(len(m.lines), m.offsetY+m.viewHeight())
	if m.offsetY >= end {
		return ""
	}
	rows := make([]string, 0, end-m.offsetY)
	for _, line := range m.lines[m.offsetY:end] {
		rows = append(rows, cut(line, m.offsetX, m.viewWidth()))
	}
	return strings.Join(rows, "\n")
}

// infoPanel explains the input format.
func infoPanel() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Input", "Tree").
		Rows(
			[]string{"1 2 3", "root 1 with children 2 and 3"},
			[]string{"1 2 3 N 4", "4 is the right child of 2"},
			[]string{"1 N 2 N 3", "a chain leaning right"},
			[]string{"N 1 2", "empty tree"},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	var b strings.Builder
	b.WriteString(StyleValue.Render("Values are read level by level, left to right."))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("Integers are nodes; N or n leaves a slot empty."))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("Only 32-bit signed integers are supported."))
	b.WriteString("\n\n")
	b.WriteString(t.Render())
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func splitLines(text []byte) []string {
	s := strings.TrimRight(string(text), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// rootColumn returns the centre column of the root label on the first row.
func rootColumn(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	label := strings.TrimSpace(lines[0])
	return strings.Index(lines[0], label) + len(label)/2
}

// cut returns the width columns of s starting at from.
func cut(s string, from, width int) string {
	if from >= len(s) {
		return ""
	}
	return s[from:min(len(s), from+width)]
}
