package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/carousel/pkg/carousel"
)

// Preview styles
var (
	trackFocusStyle = lipgloss.NewStyle().Foreground(colorCyan)
	trackEvenStyle  = lipgloss.NewStyle().Foreground(colorGray)
	trackOddStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tabNormalStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	previewWidth    = 72
	trackHeight     = 3
	trackGlyph      = "█"
	frameInterval   = 16 * time.Millisecond
	settleDelay     = 250 * time.Millisecond
	animationFactor = 0.35
	snapEpsilon     = 0.5
)

// =============================================================================
// Messages
// =============================================================================

// scrollToMsg asks the carousel to animate to an item.
type scrollToMsg struct{ index int }

// selectedMsg updates the tab bar after the user settled on an item.
type selectedMsg struct{ index int }

// frameMsg advances the scroll animation by one frame.
type frameMsg struct{}

// settleMsg snaps to the nearest item once dragging has paused. Stale
// messages from earlier drags are ignored by generation.
type settleMsg struct{ gen int }

// =============================================================================
// previewModel - Interactive carousel preview
// =============================================================================

// previewModel draws a carousel in the terminal. Arrow keys drag the
// carousel, digits and tab pick an item from the tab bar.
//
// With selection channels set, tab bar picks go through [carousel.Sync]:
// they are sent on selections and come back as scrollToMsg, and every
// settled position is sent on settled. Without channels the model applies
// picks directly.
type previewModel struct {
	car   *carousel.Carousel
	title string
	width int

	scroll    float64
	target    *float64
	animating bool
	gen       int
	selected  int

	selections chan<- int
	settled    chan<- int
	done       <-chan struct{}
}

func newPreviewModel(car *carousel.Carousel, title string) previewModel {
	return previewModel{car: car, title: title, width: previewWidth}
}

// withSync routes selections and settled positions through channels.
func (m previewModel) withSync(selections, settled chan<- int, done <-chan struct{}) previewModel {
	m.selections = selections
	m.settled = settled
	m.done = done
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.width = max(20, msg.Width-4)
	case scrollToMsg:
		return m.animateTo(m.car.SnapOffset(msg.index))
	case selectedMsg:
		m.selected = msg.index
	case settleMsg:
		if msg.gen == m.gen && m.target == nil {
			return m.animateTo(m.car.SnapOffset(m.car.Nearest(m.scroll)))
		}
	case frameMsg:
		return m.step()
	}
	return m, nil
}

func (m previewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		return m.drag(-m.car.ItemStep() / 4)
	case "right", "l":
		return m.drag(m.car.ItemStep() / 4)
	case "tab":
		return m.pick((m.selected + 1) % max(1, m.car.ItemCount()))
	case "shift+tab":
		n := max(1, m.car.ItemCount())
		return m.pick((m.selected - 1 + n) % n)
	}
	if d, err := strconv.Atoi(key); err == nil && d < m.car.ItemCount() {
		return m.pick(d)
	}
	return m, nil
}

// drag moves the carousel like a touch drag and schedules a settle.
func (m previewModel) drag(delta float64) (tea.Model, tea.Cmd) {
	m.target = nil
	m.scroll = m.car.ClampScroll(m.scroll + delta)
	m.gen++
	gen := m.gen
	return m, tea.Tick(settleDelay, func(time.Time) tea.Msg { return settleMsg{gen: gen} })
}

// pick selects an item from the tab bar.
func (m previewModel) pick(index int) (tea.Model, tea.Cmd) {
	m.selected = index
	if m.selections == nil {
		return m.animateTo(m.car.SnapOffset(index))
	}
	return m, m.send(m.selections, index)
}

func (m previewModel) animateTo(offset float64) (tea.Model, tea.Cmd) {
	m.target = &offset
	if m.animating {
		return m, nil
	}
	m.animating = true
	return m, nextFrame()
}

// step advances the animation and reports the settled item when it ends.
func (m previewModel) step() (tea.Model, tea.Cmd) {
	if m.target == nil {
		m.animating = false
		return m, nil
	}
	target := *m.target
	next := m.scroll + (target-m.scroll)*animationFactor
	if math.Abs(target-next) >= snapEpsilon {
		m.scroll = next
		return m, nextFrame()
	}

	m.scroll = target
	m.target = nil
	m.animating = false
	index := m.car.Nearest(m.scroll)
	if m.settled == nil {
		m.selected = index
		return m, nil
	}
	return m, m.send(m.settled, index)
}

// send delivers v on ch without blocking the update loop.
func (m previewModel) send(ch chan<- int, v int) tea.Cmd {
	done := m.done
	return func() tea.Msg {
		select {
		case ch <- v:
		case <-done:
		}
		return nil
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// =============================================================================
// View
// =============================================================================

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ drag  0-9/tab select  q quit"))
	b.WriteString("\n\n")

	cells := m.cells()
	track := m.renderTrack(cells)
	for range trackHeight {
		b.WriteString(track)
		b.WriteString("\n")
	}
	b.WriteString(m.renderLabels(cells))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("scroll %s / %s · nearest %d",
		formatFloat(math.Round(m.scroll)), formatFloat(m.car.MaxScroll()), m.car.Nearest(m.scroll))))
	b.WriteString("\n")

	return b.String()
}

// cells maps every terminal column to the item drawn there, or -1.
func (m previewModel) cells() []int {
	cells := make([]int, m.width)
	for i := range cells {
		cells[i] = -1
	}
	scale := float64(m.width) / m.car.Strategy().MainAxisSize()
	for _, p := range m.car.Place(m.scroll) {
		if !p.Visible {
			continue
		}
		from := max(0, int(math.Round(p.Left()*scale)))
		to := min(m.width, int(math.Round(p.Right()*scale)))
		for x := from; x < to; x++ {
			cells[x] = p.Index
		}
	}
	return cells
}

func (m previewModel) renderTrack(cells []int) string {
	var b strings.Builder
	for x := 0; x < len(cells); {
		idx := cells[x]
		end := x
		for end < len(cells) && cells[end] == idx {
			end++
		}
		if idx < 0 {
			b.WriteString(strings.Repeat(" ", end-x))
		} else {
			b.WriteString(m.itemStyle(idx).Render(strings.Repeat(trackGlyph, end-x)))
		}
		x = end
	}
	return b.String()
}

// renderLabels centers each item's index below its visible span.
func (m previewModel) renderLabels(cells []int) string {
	line := []rune(strings.Repeat(" ", len(cells)))
	for x := 0; x < len(cells); {
		idx := cells[x]
		end := x
		for end < len(cells) && cells[end] == idx {
			end++
		}
		label := []rune(strconv.Itoa(idx))
		if idx >= 0 && end-x >= len(label) {
			at := x + (end-x-len(label))/2
			copy(line[at:], label)
		}
		x = end
	}
	return StyleDim.Render(string(line))
}

func (m previewModel) renderTabs() string {
	tabs := make([]string, m.car.ItemCount())
	for i := range tabs {
		if i == m.selected {
			tabs[i] = tabActiveStyle.Render("[" + strconv.Itoa(i) + "]")
		} else {
			tabs[i] = tabNormalStyle.Render(" " + strconv.Itoa(i) + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (m previewModel) itemStyle(idx int) lipgloss.Style {
	switch {
	case idx == m.car.Nearest(m.scroll):
		return trackFocusStyle
	case idx%2 == 0:
		return trackEvenStyle
	default:
		return trackOddStyle
	}
}
