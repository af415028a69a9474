package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/gallery"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags   optionFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse seeds interactively with a terminal preview",
		Long: `Browse seeds interactively with a terminal preview.

Keys:
  space, r   new random seed
  → / ←, n/p next / previous seed
  m          toggle merging
  g          toggle grid-only mode
  w          write the current picture as SVG
  s          save the current picture to the gallery
  q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatSVG}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			// The TUI owns the terminal; keep the pipeline quiet.
			runner.Logger = c.Logger.WithPrefix("explore")
			runner.Logger.SetLevel(log.ErrorLevel)
			opts.Logger = runner.Logger

			store, err := openGallery()
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			defer store.Close()

			m := newExploreModel(cmd.Context(), runner, store, opts)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(exploreModel); ok && fm.opts.Seed != 0 {
				printInfo("Last seed: %s", StyleNumber.Render(fmt.Sprint(fm.opts.Seed)))
				printNextStep("Render it", fmt.Sprintf("%s render --seed %d", appName, fm.opts.Seed))
			}
			return nil
		},
	}

	flags.registerLayout(cmd)
	flags.registerStyle(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// Explorer styles
var (
	exploreFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	exploreLabelStyle = lipgloss.NewStyle().Foreground(colorGray)
	exploreErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	exploreHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// exploreModel - Interactive seed browser
// =============================================================================

// layoutMsg carries a generated layout back to the model.
type layoutMsg struct {
	seed      uint64
	skipMerge bool
	gridOnly  bool
	layout    layout.Layout
	cached    bool
	err       error
}

// statusMsg reports the outcome of a write or save.
type statusMsg struct {
	text string
	err  error
}

type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	store  gallery.Store
	opts   pipeline.Options

	layout  layout.Layout
	cached  bool
	loading bool
	status  string
	err     error

	width, height int
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, store gallery.Store, opts pipeline.Options) exploreModel {
	return exploreModel{
		ctx:     ctx,
		runner:  runner,
		store:   store,
		opts:    opts,
		loading: true,
		width:   80,
		height:  24,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return m.generate()
}

// generate builds the layout for the current options off the UI goroutine.
// current reports whether msg was generated with the seed and drawing mode
// of opts.
func (msg layoutMsg) current(opts pipeline.Options) bool {
	return msg.seed == opts.Seed && msg.skipMerge == opts.SkipMerge && msg.gridOnly == opts.GridOnly
}

func (m exploreModel) generate() tea.Cmd {
	ctx, runner, opts := m.ctx, m.runner, m.opts.Clone()
	return func() tea.Msg {
		l, hit, err := runner.GenerateLayoutWithCacheInfo(ctx, opts)
		return layoutMsg{
			seed:      opts.Seed,
			skipMerge: opts.SkipMerge,
			gridOnly:  opts.GridOnly,
			layout:    l,
			cached:    hit,
			err:       err,
		}
	}
}

// write renders the current layout to an SVG file in the working directory.
func (m exploreModel) write() tea.Cmd {
	ctx, runner, opts, l := m.ctx, m.runner, m.opts.Clone(), m.layout
	return func() tea.Msg {
		artifacts, err := runner.Render(ctx, l, opts)
		if err != nil {
			return statusMsg{err: err}
		}
		paths, err := writeArtifacts(artifacts, opts.Formats, defaultBase("", opts.Seed))
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "wrote " + strings.Join(paths, ", ")}
	}
}

// save stores the current layout in the gallery.
func (m exploreModel) save() tea.Cmd {
	ctx, store, opts, l := m.ctx, m.store, m.opts.Clone(), m.layout
	return func() tea.Msg {
		entry := gallery.NewEntry(fmt.Sprintf("seed %d", opts.Seed), l, opts)
		if err := store.Save(ctx, entry); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "saved " + entry.ID}
	}
}

// reroll switches to seed and regenerates.
func (m exploreModel) reroll(seed uint64) (exploreModel, tea.Cmd) {
	if seed == 0 {
		seed = 1
	}
	m.opts.Seed = seed
	m.loading = true
	m.status = ""
	return m, m.generate()
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "r":
			return m.reroll(pipeline.RandomSeed())
		case "right", "n", "l":
			return m.reroll(m.opts.Seed + 1)
		case "left", "p", "h":
			return m.reroll(m.opts.Seed - 1)
		case "m":
			m.opts.SkipMerge = !m.opts.SkipMerge
			return m.reroll(m.opts.Seed)
		case "g":
			m.opts.GridOnly = !m.opts.GridOnly
			return m.reroll(m.opts.Seed)
		case "w":
			if !m.loading && m.err == nil {
				return m, m.write()
			}
		case "s":
			if !m.loading && m.err == nil {
				return m, m.save()
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case layoutMsg:
		// Drop results for settings the user already moved past.
		if !msg.current(m.opts) {
			return m, nil
		}
		m.loading = false
		m.layout, m.cached, m.err = msg.layout, msg.cached, msg.err
	case statusMsg:
		m.status, m.err = msg.text, msg.err
	}
	return m, nil
}

// previewSize fits a square preview into the window, leaving room for the
// header, the footer and the frame.
func (m exploreModel) previewSize() (int, int) {
	h := max(m.height-7, 4)
	w := 2 * h
	if w > m.width-2 {
		w = max(m.width-2, 8)
		h = max(w/2, 4)
	}
	return w, h
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("stitchgrid explore"))
	b.WriteString("  ")
	b.WriteString(exploreLabelStyle.Render("seed "))
	b.WriteString(StyleNumber.Render(fmt.Sprint(m.opts.Seed)))
	b.WriteString(exploreLabelStyle.Render(fmt.Sprintf("  %d×%d", m.opts.Columns, m.opts.Rows)))
	if m.opts.GridOnly {
		b.WriteString(exploreLabelStyle.Render("  grid"))
	}
	if m.opts.SkipMerge {
		b.WriteString(exploreLabelStyle.Render("  unmerged"))
	}
	b.WriteString("\n")

	w, h := m.previewSize()
	switch {
	case m.err != nil:
		b.WriteString(exploreErrorStyle.Render(m.err.Error()))
	case m.loading:
		b.WriteString(exploreFrameStyle.Width(w).Height(h).Render(StyleDim.Render("generating...")))
	default:
		b.WriteString(exploreFrameStyle.Render(preview(m.layout, w, h)))
	}
	b.WriteString("\n")

	if !m.loading && m.err == nil {
		stats := fmt.Sprintf("%d segments · %d polylines · %s", len(m.layout.Segments), len(m.layout.Polylines), cacheLabel(m.cached))
		b.WriteString(StyleDim.Render(stats))
	}
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(StyleSuccess.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(exploreHelpStyle.Render("space new  ←/→ seed  m merge  g grid  w write  s save  q quit"))

	return b.String()
}
