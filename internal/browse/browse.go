// Package browse is an interactive terminal viewer for the cluster
// tables written by the cluster command.
package browse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/isrusin/rebase/internal/etsv"
)

// Cmd is the entry for the browse command. The table comes from the
// in flag or the first argument.
func Cmd(cmd *cobra.Command, args []string) {
	in, _ := cmd.Flags().GetString("in")
	if in == "" && len(args) > 0 {
		in = args[0]
	}
	if in == "" {
		cmd.Help()
		log.Fatal("no cluster table")
	}
	if err := Run(in); err != nil {
		log.Fatal(err)
	}
}

var (
	accentColor = lipgloss.Color("#7D56F4") // purple
	textColor   = lipgloss.Color("#FAFAFA") // near white
	mutedColor  = lipgloss.Color("#767676") // gray
	borderColor = lipgloss.Color("#3C3C3C") // border gray
)

var (
	panelStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	reprStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#2D2D2D")).
			Padding(0, 1)
)

// cluster is one group of identical proteins read back from a cluster
// table: the first five columns are the protein name, its sequence
// length, the representative, the cluster ID, and the CRC64 checksum.
type cluster struct {
	id     string
	repr   string
	length string
	crc    string
	names  []string
}

// loadClusters reads a cluster table and groups its per-protein rows
// by cluster ID, keeping the order of first appearance.
func loadClusters(path string) ([]*cluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster table: %v", err)
	}
	defer f.Close()

	tr, err := etsv.NewReader(f, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	titles := tr.Titles()
	if len(titles) < 5 {
		return nil, fmt.Errorf("failed to read %s: %d columns, want at least 5", path, len(titles))
	}
	nameCol, lenCol, reprCol, idCol, crcCol := titles[0], titles[1], titles[2], titles[3], titles[4]

	var clusters []*cluster
	index := map[string]*cluster{}
	for {
		entry, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %v", path, err)
		}

		id := entry[idCol]
		c, ok := index[id]
		if !ok {
			c = &cluster{
				id:     id,
				repr:   entry[reprCol],
				length: entry[lenCol],
				crc:    entry[crcCol],
			}
			index[id] = c
			clusters = append(clusters, c)
		}
		c.names = append(c.names, entry[nameCol])
	}
	return clusters, nil
}

type listItem struct {
	cluster *cluster
}

func (i listItem) FilterValue() string {
	// filtering matches any member, not just the representative
	return i.cluster.id + " " + strings.Join(i.cluster.names, " ")
}

func (i listItem) Title() string {
	return fmt.Sprintf("%s  %s", i.cluster.id, i.cluster.repr)
}

func (i listItem) Description() string {
	if len(i.cluster.names) == 1 {
		return fmt.Sprintf("1 protein    %s aa", i.cluster.length)
	}
	return fmt.Sprintf("%d proteins    %s aa", len(i.cluster.names), i.cluster.length)
}

type model struct {
	list     list.Model
	clusters []*cluster
	path     string
	width    int
	height   int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// the cluster list takes the left third of the screen
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q":
			if m.list.FilterState() != list.Filtering {
				return m, tea.Quit
			}
		case "esc":
			// the list consumes esc to leave filtering
			if m.list.FilterState() == list.Unfiltered {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClusterList(),
		m.renderClusterInfo(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		m.renderStatusBar(),
	)
}

func (m model) renderClusterList() string {
	return panelStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderClusterInfo() string {
	width := (m.width * 2) / 3

	item := m.list.SelectedItem()
	if item == nil {
		return panelStyle.
			Width(width - 2).
			Height(m.height - 4).
			Render(mutedStyle.Render("No cluster selected"))
	}
	c := item.(listItem).cluster

	header := headerStyle.Render(fmt.Sprintf("%s - %s", c.id, c.repr))
	meta := mutedStyle.Render(fmt.Sprintf("%s aa    CRC64 %s", c.length, c.crc))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		meta,
		"",
		m.renderMembers(c),
	)

	return panelStyle.
		Width(width - 2).
		Height(m.height - 4).
		Render(content)
}

// renderMembers lists the member names with the representative
// highlighted. Names that do not fit the panel collapse into a
// trailing count.
func (m model) renderMembers(c *cluster) string {
	max := m.height - 10
	if max < 1 {
		max = 1
	}
	names := c.names
	more := 0
	if len(names) > max {
		more = len(names) - max
		names = names[:max]
	}

	lines := make([]string, 0, len(names)+1)
	for _, name := range names {
		if name == c.repr {
			lines = append(lines, reprStyle.Render(name))
		} else {
			lines = append(lines, name)
		}
	}
	if more > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("and %d more", more)))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStatusBar() string {
	left := fmt.Sprintf("%d/%d clusters", m.list.Index()+1, len(m.clusters))
	right := "q to quit"

	spacing := m.width - len(left) - len(right) - 4
	if spacing < 1 {
		spacing = 1
	}

	return statusStyle.
		Width(m.width).
		Render(left + strings.Repeat(" ", spacing) + right)
}

// Run opens the cluster table at path and starts the browser.
func Run(path string) error {
	clusters, err := loadClusters(path)
	if err != nil {
		return err
	}
	if len(clusters) == 0 {
		return fmt.Errorf("failed to browse %s: no clusters", path)
	}

	items := make([]list.Item, len(clusters))
	for i, c := range clusters {
		items[i] = listItem{cluster: c}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = filepath.Base(path)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	p := tea.NewProgram(model{list: l, clusters: clusters, path: path}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run cluster browser: %v", err)
	}
	return nil
}
