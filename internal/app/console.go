package app

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drawing_board/internal/board"
	"github.com/relabs-tech/drawing_board/internal/config"
)

// RunConsole starts the operator console: a terminal UI that shows the live
// board state and dispatches the keyboard command set over MQTT.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	send := func(c Command) error {
		payload, err := json.Marshal(c)
		if err != nil {
			return err
		}
		t := client.Publish(cfg.TopicCommand, 0, false, payload)
		t.Wait()
		return t.Error()
	}

	program := tea.NewProgram(newConsoleModel(send), tea.WithAltScreen())

	token := client.Subscribe(cfg.TopicSnapshot, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s board.Snapshot
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			return
		}
		program.Send(snapshotMsg(s))
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}

	_, err := program.Run()
	return err
}

type snapshotMsg board.Snapshot

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")).Padding(0, 1)
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type consoleModel struct {
	snap board.Snapshot
	have bool

	input     textinput.Model
	prompting string // OpSave or OpImport while a file name is being typed

	status string
	send   func(Command) error
}

func newConsoleModel(send func(Command) error) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "points.csv"
	ti.CharLimit = 128
	return consoleModel{input: ti, send: send}
}

func (m consoleModel) Init() tea.Cmd { return nil }

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = board.Snapshot(msg)
		m.have = true
		return m, nil

	case tea.KeyMsg:
		if m.prompting != "" {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.dispatch(Command{Op: OpClear})
		case "i":
			m.dispatch(Command{Op: OpInterpolate})
		case "o":
			m.dispatch(Command{Op: OpOutliers})
		case "s":
			m.prompting = OpSave
			m.input.SetValue("")
			return m, m.input.Focus()
		case "b":
			m.prompting = OpImport
			m.input.SetValue("")
			return m, m.input.Focus()
		}
		return m, nil
	}
	return m, nil
}

func (m consoleModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.input.Value()
		op := m.prompting
		m.prompting = ""
		m.input.Blur()
		if name == "" {
			m.status = "no file name, cancelled"
			return m, nil
		}
		m.dispatch(Command{Op: op, File: name})
		return m, nil
	case "esc":
		m.prompting = ""
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) dispatch(c Command) {
	if err := m.send(c); err != nil {
		m.status = fmt.Sprintf("send %s: %v", c.Op, err)
		return
	}
	if c.File != "" {
		m.status = fmt.Sprintf("sent %s %s", c.Op, c.File)
	} else {
		m.status = fmt.Sprintf("sent %s", c.Op)
	}
}

func (m consoleModel) View() string {
	s := titleStyle.Render("drawing board console") + "\n\n"

	if !m.have {
		s += labelStyle.Render("waiting for the first snapshot...") + "\n"
	} else {
		last := "-"
		if m.snap.HasLast {
			last = fmt.Sprintf("(%d, %d)", m.snap.Last.X, m.snap.Last.Y)
		}
		s += fmt.Sprintf("%s %s\n", labelStyle.Render("mode:"), modeStyle.Render(m.snap.Mode))
		s += fmt.Sprintf("%s %d   %s %d   %s %d\n",
			labelStyle.Render("finalized:"), len(m.snap.Finalized),
			labelStyle.Render("pending:"), len(m.snap.Pending),
			labelStyle.Render("curve:"), len(m.snap.Curve))
		s += fmt.Sprintf("%s %s   %s %d\n", labelStyle.Render("last:"), last,
			labelStyle.Render("seq:"), m.snap.Seq)
	}

	if m.prompting != "" {
		s += "\n" + labelStyle.Render("file name for "+m.prompting+":") + "\n" + m.input.View() + "\n"
	}
	if m.status != "" {
		s += "\n" + statusStyle.Render(m.status) + "\n"
	}

	s += "\n" + helpStyle.Render("c clear · i interpolate · o outliers · s save · b import · q quit")
	return s
}
