package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavescope/internal/analysis"
	"github.com/olivier-w/wavescope/internal/cursor"
	"github.com/olivier-w/wavescope/internal/decode"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/queue"
)

// Screen geometry. The waveform starts on waveTop and every line is
// indented by leftPad cells; mouse handling depends on both.
const (
	waveTop     = 6
	leftPad     = 2
	defaultCols = 76
	defaultRows = 8
	minCols     = 10
	minRows     = 3
	maxRows     = 12
	chromeRows  = 14
	seekStep    = 5 * time.Second
	volumeStep  = 0.05
)

// Options configures a playback Model.
type Options struct {
	Volume  float64
	Refresh time.Duration
}

// Model is the Bubbletea model for the waveform player.
type Model struct {
	queue *queue.Queue
	opts  Options

	// gen increments on every load. Messages from older generations are
	// dropped so a superseded file never updates the screen.
	gen     uint64
	trackID string

	player     playback
	tracker    *cursor.Tracker
	result     *analysis.Result
	terrain    terrain
	overlay    cursor.Overlay
	hasOverlay bool

	metadata   player.Metadata
	elapsed    time.Duration
	duration   time.Duration
	volume     float64
	paused     bool
	repeatMode RepeatMode

	width    int
	height   int
	loading  bool
	errMsg   string
	quitting bool

	spinner spinner.Model
	volBar  progress.Model
	help    help.Model
}

// New creates a Model that plays q starting at its current track.
func New(q *queue.Queue, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = cursor.DefaultInterval
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	m := Model{
		queue:   q,
		opts:    opts,
		gen:     1,
		volume:  opts.Volume,
		terrain: newTerrain(),
		spinner: s,
		help:    newHelp(),
		volBar: progress.New(
			progress.WithScaledGradient("#FF8C00", playedColor),
			progress.WithoutPercentage(),
			progress.WithWidth(12),
		),
	}
	if t := q.Current(); t != nil {
		m.trackID = t.ID
		m.loading = true
		q.SetTrackState(q.CurrentIndex(), queue.Loading)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	t := m.queue.Current()
	if t == nil {
		return nil
	}
	return tea.Batch(
		m.loadCmd(m.gen, *t),
		m.spinner.Tick,
		tea.SetWindowTitle(windowTitle(t.Title, false)),
	)
}

func (m Model) cols() int {
	if m.width <= 0 {
		return defaultCols
	}
	return max(m.width-2*leftPad, minCols)
}

func (m Model) rows() int {
	if m.height <= 0 {
		return defaultRows
	}
	return max(minRows, min(m.height-chromeRows, maxRows))
}

// shapeOptions fits the path to the terminal. The point count never exceeds
// the frame count so very short files still downsample.
func shapeOptions(a *decode.Audio, cols, rows int) analysis.Options {
	return analysis.Options{
		DataPoints: max(1, min(cols, a.Frames())),
		Height:     float64(rows * 8),
		Smoothing:  1,
	}
}

func (m Model) loadCmd(gen uint64, t queue.Track) tea.Cmd {
	cols, rows, volume := m.cols(), m.rows(), m.volume
	return func() tea.Msg {
		a, err := decode.File(t.Path)
		if err != nil {
			return loadedMsg{gen: gen, trackID: t.ID, err: err}
		}
		res, err := analysis.Audio(a, shapeOptions(a, cols, rows))
		if err != nil {
			return loadedMsg{gen: gen, trackID: t.ID, err: err}
		}
		p, err := player.Open(a, volume)
		if err != nil {
			return loadedMsg{gen: gen, trackID: t.ID, err: err}
		}
		meta := player.ReadMetadata(t.Path)
		// a playlist title beats the file name, but not a tag
		if meta.Title == player.TitleFromPath(t.Path) && t.Title != "" {
			meta.Title = t.Title
		}
		return loadedMsg{
			gen:      gen,
			trackID:  t.ID,
			result:   res,
			playback: p,
			meta:     meta,
		}
	}
}

func reshapeCmd(gen uint64, a *decode.Audio, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		res, err := analysis.Audio(a, shapeOptions(a, cols, rows))
		return reshapedMsg{gen: gen, cols: cols, rows: rows, result: res, err: err}
	}
}

// startLoad supersedes whatever is playing and begins loading the current
// track. The previous waveform stays on screen until the new one arrives.
func (m *Model) startLoad() tea.Cmd {
	m.gen++
	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
	m.tracker = nil
	m.hasOverlay = false
	m.elapsed = 0

	t := m.queue.Current()
	if t == nil {
		return nil
	}
	m.trackID = t.ID
	m.loading = true
	m.errMsg = ""
	m.queue.SetTrackState(m.queue.CurrentIndex(), queue.Loading)
	slog.Debug("loading track", "id", t.ID, "path", t.Path, "gen", m.gen)

	return tea.Batch(m.loadCmd(m.gen, *t), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.seekToCell(msg.X, msg.Y)
		}
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case reshapedMsg:
		if msg.gen != m.gen || msg.cols != m.cols() || msg.rows != m.rows() {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.terrain.setPath(msg.result.Path)
		if m.tracker != nil {
			m.tracker.SetWidth(msg.result.Path.Width())
		}
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.tracker == nil {
			return m, nil
		}
		m.sample()
		m.terrain.step()
		return m, tickCmd(m.gen, m.opts.Refresh)

	case playbackEndedMsg:
		if msg.gen != m.gen || m.player == nil {
			return m, nil
		}
		return m.handleEnded()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		oldCols, oldRows := m.cols(), m.rows()
		m.width = msg.Width
		m.height = msg.Height
		if m.result == nil || (m.cols() == oldCols && m.rows() == oldRows) {
			return m, nil
		}
		return m, reshapeCmd(m.gen, m.result.Audio, m.cols(), m.rows())
	}

	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || msg.trackID != m.trackID {
		if msg.playback != nil {
			msg.playback.Close()
		}
		slog.Debug("dropping stale load", "id", msg.trackID, "gen", msg.gen, "current", m.gen)
		return m, nil
	}

	m.loading = false
	idx := m.queue.CurrentIndex()
	if msg.err != nil {
		// keep the previous waveform visible
		m.errMsg = msg.err.Error()
		m.queue.SetTrackState(idx, queue.Failed)
		slog.Error("failed to load track", "id", msg.trackID, "err", msg.err)
		return m, nil
	}

	msg.playback.Start()
	m.player = msg.playback
	m.result = msg.result
	m.metadata = msg.meta
	m.duration = msg.playback.Duration()
	m.volume = msg.playback.Volume()
	m.paused = msg.playback.Paused()
	m.errMsg = ""
	m.tracker = cursor.New(m.player, msg.result.Path.Width())
	m.terrain.setPath(msg.result.Path)
	m.queue.SetTrackState(idx, queue.Playing)
	slog.Info("playing track", "id", msg.trackID, "title", m.metadata.Title, "duration", m.duration)

	cmds := []tea.Cmd{
		tickCmd(m.gen, m.opts.Refresh),
		checkDone(m.player, m.gen),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused)),
	}
	// the terminal may have been resized while the file was loading
	want := shapeOptions(msg.result.Audio, m.cols(), m.rows())
	if want.DataPoints != len(msg.result.Envelope) || want.Height != msg.result.Path.Height() {
		cmds = append(cmds, reshapeCmd(m.gen, msg.result.Audio, m.cols(), m.rows()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleEnded() (tea.Model, tea.Cmd) {
	if m.repeatMode == RepeatOne {
		m.player.Restart()
		m.elapsed = 0
		return m, checkDone(m.player, m.gen)
	}
	m.queue.SetTrackState(m.queue.CurrentIndex(), queue.Done)
	if m.queue.Advance() {
		return m, m.startLoad()
	}
	if m.repeatMode == RepeatAll {
		m.queue.SetCurrentIndex(0)
		return m, m.startLoad()
	}
	m.elapsed = m.duration
	return m.quit()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Next):
		if m.queue.Advance() {
			return m, m.startLoad()
		}
		return m, nil
	case key.Matches(msg, keys.Prev):
		if m.queue.Previous() {
			return m, m.startLoad()
		}
		return m, nil
	case key.Matches(msg, keys.Repeat):
		m.repeatMode = m.repeatMode.Next()
		return m, nil
	}

	if m.player == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Pause):
		m.player.TogglePause()
		m.paused = m.player.Paused()
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
	case key.Matches(msg, keys.SeekBack):
		m.player.Seek(-seekStep)
		m.sample()
	case key.Matches(msg, keys.SeekFwd):
		m.player.Seek(seekStep)
		m.sample()
	case key.Matches(msg, keys.VolumeUp):
		m.player.AdjustVolume(volumeStep)
		m.volume = m.player.Volume()
	case key.Matches(msg, keys.VolumeDown):
		m.player.AdjustVolume(-volumeStep)
		m.volume = m.player.Volume()
	}
	return m, nil
}

// seekToCell maps a click on the waveform to a playback position.
func (m *Model) seekToCell(x, y int) {
	if m.player == nil || m.tracker == nil {
		return
	}
	if y < waveTop || y >= waveTop+m.terrain.rows {
		return
	}
	frac := cursor.FractionAt(float64(x-leftPad), m.tracker.Width())
	target := cursor.SeekTarget(frac, m.duration)
	if err := m.player.SeekTo(target, !m.paused); err != nil {
		m.errMsg = err.Error()
		return
	}
	slog.Debug("seek", "fraction", frac, "target", target)
	m.sample()
}

// sample refreshes everything derived from the playback clock.
func (m *Model) sample() {
	if m.player == nil {
		return
	}
	if m.tracker != nil {
		if ov, ok := m.tracker.Tick(); ok {
			m.overlay = ov
			m.hasOverlay = true
		}
	}
	m.elapsed = m.player.Position()
	m.paused = m.player.Paused()
	m.volume = m.player.Volume()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.gen++
	if m.player != nil {
		m.player.Close()
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.metadata.Title
	if title == "" {
		if t := m.queue.Current(); t != nil {
			title = t.Title
		}
	}

	subtitle := ""
	switch {
	case m.metadata.Artist != "" && m.metadata.Album != "":
		subtitle = fmt.Sprintf("%s - %s", m.metadata.Artist, m.metadata.Album)
	case m.metadata.Artist != "":
		subtitle = m.metadata.Artist
	case m.metadata.Album != "":
		subtitle = m.metadata.Album
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("wavescope") + "\n")
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render(title) + "\n")
	b.WriteString("  " + artistStyle.Render(subtitle) + "\n")
	b.WriteString("\n")

	if wave := m.terrain.view(m.overlay.Offset, m.hasOverlay); wave != "" {
		b.WriteString(wave + "\n")
	} else {
		for range m.rows() {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString("  " + m.statusLine() + "\n")

	switch {
	case m.loading:
		b.WriteString("  " + m.spinner.View() + " " + statusStyle.Render("Analyzing...") + "\n")
	case m.errMsg != "":
		b.WriteString("  " + errorStyle.Render(m.errMsg) + "\n")
	default:
		b.WriteString("\n")
	}

	if m.queue.Len() > 1 {
		b.WriteString("  " + helpStyle.Render(fmt.Sprintf("track %d/%d", m.queue.CurrentIndex()+1, m.queue.Len())) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + helpText(m.help, m.queue.Len() > 1) + "\n")
	return b.String()
}

func (m Model) statusLine() string {
	icon, text := "▶", "playing"
	if m.paused {
		icon, text = "❚❚", "paused"
	}
	left := statusStyle.Render(icon+"  "+text) + "  " + renderTimes(m.elapsed, m.duration)
	if r := m.repeatMode.Icon(); r != "" {
		left += "  " + statusStyle.Render(r)
	}
	right := m.volBar.ViewAs(m.volume) + " " + statusStyle.Render(renderVolumePercent(m.volume))

	gap := m.cols() - lipgloss.Width(left) - lipgloss.Width(right)
	return left + strings.Repeat(" ", max(gap, 2)) + right
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · wavescope"
	}
	return "▶ " + title + " · wavescope"
}
