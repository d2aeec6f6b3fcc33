package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavescope/internal/media"
)

type fileItem struct {
	name string
	ext  string
}

func (i fileItem) Title() string { return i.name }
func (i fileItem) Description() string {
	if media.IsPlaylistExt(i.ext) {
		return i.ext + " playlist"
	}
	return i.ext
}
func (i fileItem) FilterValue() string { return i.name }

// BrowserModel lists the audio files and playlists in a directory. It reports
// its outcome with BrowserSelectedMsg or BrowserCancelledMsg.
type BrowserModel struct {
	dir  string
	list list.Model
	err  error
}

// NewBrowser creates a browser for dir. Check Err before running it.
func NewBrowser(dir string) BrowserModel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BrowserModel{dir: dir, err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !media.IsSupportedExt(ext) && !media.IsPlaylistExt(ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		items = append(items, fileItem{name: name, ext: filepath.Ext(e.Name())})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(playedColor)).
		BorderLeftForeground(lipgloss.Color(playedColor))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.Color(playedColor))

	l := list.New(items, delegate, 80, 20)
	l.Title = "wavescope"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return BrowserModel{dir: dir, list: l}
}

// Err returns the error that kept the directory from being listed.
func (m BrowserModel) Err() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("wavescope")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(fileItem)
			if !ok {
				return m, nil
			}
			path := filepath.Join(m.dir, item.name+item.ext)
			return m, func() tea.Msg { return BrowserSelectedMsg{Path: path} }
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "\n  " + headerStyle.Render("wavescope") + "\n\n  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	return m.list.View()
}
