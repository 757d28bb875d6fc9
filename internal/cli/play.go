package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quaverlabs/quaver/pkg/pattern"
	"github.com/quaverlabs/quaver/pkg/seq"
)

// playCommand creates the play command, an interactive pattern playground.
// Every keystroke recompiles the pattern so the expansion is visible live.
func (c *CLI) playCommand() *cobra.Command {
	var initial string

	cmd := &cobra.Command{
		Use:   "play [pattern]",
		Short: "Interactive pattern playground",
		Long: `Open an interactive playground that compiles the pattern as you type.

Keys:
  type / backspace  edit the pattern
  ctrl+u            clear the pattern
  ctrl+r            reroll the random seed (scramble, sparse)
  esc / ctrl+c      quit`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			initial = strings.Join(args, " ")
			model := newPlayModel(initial, c.Config)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	return cmd
}

// Playground styles
var (
	playNoteStyle = lipgloss.NewStyle().Foreground(colorCyan)
	playRestStyle = lipgloss.NewStyle().Foreground(colorDim)
	playWarnStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// playModel is the bubbletea model for the pattern playground.
type playModel struct {
	input       []rune
	steps       seq.Sequence
	diagnostics []string
	seed        uint64
	restSymbol  string
	maxDepth    int
	width       int
}

func newPlayModel(initial string, cfg *Config) playModel {
	m := playModel{
		input:      []rune(initial),
		seed:       cfg.Seed,
		restSymbol: cfg.RestSymbol,
		maxDepth:   cfg.MaxDepth,
		width:      80,
	}
	m.recompile()
	return m
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlU:
			m.input = nil
			m.recompile()
		case tea.KeyCtrlR:
			m.seed++
			m.recompile()
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
				m.recompile()
			}
		case tea.KeySpace:
			m.input = append(m.input, ' ')
			m.recompile()
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
			m.recompile()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// recompile runs the compiler over the current input, capturing diagnostics
// in a buffer so they can be shown inline.
func (m *playModel) recompile() {
	var buf bytes.Buffer
	logger := log.New(&buf)

	m.steps = pattern.Compile(string(m.input), pattern.Options{
		MaxDepth:   m.maxDepth,
		RestSymbol: m.restSymbol,
		Logger:     logger,
		Rand:       seq.NewRand(m.seed),
	})

	m.diagnostics = nil
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line != "" {
			m.diagnostics = append(m.diagnostics, line)
		}
	}
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Quaver Playground"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("type to edit  ctrl+u clear  ctrl+r reroll seed  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("pattern  "))
	b.WriteString(StyleValue.Render(string(m.input)))
	b.WriteString(StyleHighlight.Render("▌"))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("steps    "))
	if len(m.steps) == 0 {
		b.WriteString(StyleDim.Render("(empty)"))
	} else {
		for i, s := range m.steps {
			if i > 0 {
				b.WriteString(" ")
			}
			if s.IsRest {
				b.WriteString(playRestStyle.Render(m.restSymbol))
			} else {
				b.WriteString(playNoteStyle.Render(fmt.Sprintf("%d", s.Value)))
			}
		}
	}
	b.WriteString("\n\n")

	notes, rests := 0, 0
	for _, s := range m.steps {
		if s.IsRest {
			rests++
		} else {
			notes++
		}
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d steps · %d notes · %d rests · seed %d",
		len(m.steps), notes, rests, m.seed)))
	b.WriteString("\n")

	// Show at most the last three diagnostics so bad tokens are visible
	// without swamping the view.
	if n := len(m.diagnostics); n > 0 {
		b.WriteString("\n")
		start := max(n-3, 0)
		for _, line := range m.diagnostics[start:] {
			b.WriteString(playWarnStyle.Render("  ! " + truncate(line, m.width-4)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// truncate clips s to width runes.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width]) + "…"
}
