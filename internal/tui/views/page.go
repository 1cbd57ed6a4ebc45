// internal/tui/views/page.go
package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/submit"
	"github.com/altuslabsxyz/blob-poster/internal/tui"
	"github.com/altuslabsxyz/blob-poster/internal/tui/components"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Connector connects the page to a wallet. *wallet.Bridge implements it.
type Connector interface {
	WaitForProvider(ctx context.Context) (wallet.Provider, error)
	Connect(ctx context.Context, chain network.ChainDescriptor) (*wallet.Session, error)
}

// Submitter runs blob submissions. *submit.Orchestrator implements it.
type Submitter interface {
	Submit(ctx context.Context, session *wallet.Session, req submit.Request) (*submit.Result, error)
	Phase() submit.Phase
	Busy() bool
}

// PageConfig wires the page to the wallet and submission flows.
type PageConfig struct {
	Chain     network.ChainDescriptor
	Connector Connector
	Submitter Submitter
	// Board must also receive the flows' reports; the page renders from it.
	Board *output.StatusBoard
	// Approver, when set, shows keyring approval requests as dialogs.
	Approver *DialogApprover
	// Defaults prefill the form.
	Defaults submit.Request
}

// Focus targets, in tab order.
const (
	focusNamespace = iota
	focusData
	focusGas
	focusGasPrice
	focusConnect
	focusSubmit
	focusCount
)

const inputCount = focusConnect

var inputLabels = [inputCount]string{"Namespace", "Data", "Gas", "Gas price"}

// stepPhases are the phases drawn in the step list, indexed by the step
// constants below.
var stepPhases = []submit.Phase{submit.PhasePreparing, submit.PhaseAwaitingSignature, submit.PhaseBroadcasting}

const (
	stepPreparing = iota
	stepSigning
	stepBroadcasting
)

type providerCheckedMsg struct{ err error }

type connectedMsg struct {
	session *wallet.Session
	err     error
}

type submittedMsg struct {
	result *submit.Result
	err    error
}

// PageModel is the blob submission page: four inputs, connect and submit
// buttons, wallet and transaction status regions, and a result region.
type PageModel struct {
	cfg    PageConfig
	ctx    context.Context
	cancel context.CancelFunc

	inputs []textinput.Model
	focus  int
	steps  components.StepListModel

	session    *wallet.Session
	connecting bool
	submitting bool
	phase      submit.Phase
	result     *submit.Result
	err        error
	prompt     *ApprovalPrompt

	width    int
	quitting bool
}

// NewPageModel creates the page. The page's flows stop when ctx ends or the
// user quits.
func NewPageModel(ctx context.Context, cfg PageConfig) PageModel {
	if cfg.Board == nil {
		cfg.Board = output.NewStatusBoard()
	}
	ctx, cancel := context.WithCancel(ctx)

	defaults := cfg.Defaults
	if defaults.Gas == "" {
		defaults.Gas = strconv.FormatUint(cosmos.DefaultGasLimit, 10)
	}
	if defaults.GasPrice == "" {
		defaults.GasPrice = strconv.FormatFloat(cfg.Chain.FeeCurrency().GasPriceStep.Average, 'f', -1, 64)
	}

	placeholders := [inputCount]string{"base64 namespace", "base64 payload", "200000", "0.025"}
	values := [inputCount]string{defaults.Namespace, defaults.Data, defaults.Gas, defaults.GasPrice}

	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.Width = 48
		in.SetValue(values[i])
		inputs[i] = in
	}
	inputs[focusNamespace].Focus()

	names := make([]string, len(stepPhases))
	for i, p := range stepPhases {
		names[i] = p.Title()
	}

	return PageModel{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		inputs: inputs,
		steps:  components.NewStepListModel(names...),
		phase:  submit.PhaseIdle,
		width:  80,
	}
}

// Init implements tea.Model
func (m PageModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.steps.Init(), m.checkProvider()}
	if m.cfg.Approver != nil {
		cmds = append(cmds, m.cfg.Approver.waitForPrompt(m.ctx))
	}
	return tea.Batch(cmds...)
}

func (m PageModel) checkProvider() tea.Cmd {
	ctx, connector := m.ctx, m.cfg.Connector
	return func() tea.Msg {
		_, err := connector.WaitForProvider(ctx)
		return providerCheckedMsg{err: err}
	}
}

// Update implements tea.Model
func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != nil {
			return m.answerPrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			switch m.focus {
			case focusConnect:
				return m.startConnect()
			case focusSubmit:
				return m.startSubmit()
			default:
				return m, m.setFocus(m.focus + 1)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case providerCheckedMsg:
		if msg.err != nil {
			m.cfg.Board.Report(output.ChannelWallet, output.SeverityError,
				"Wallet provider not available: "+msg.err.Error())
		}

	case connectedMsg:
		m.connecting = false
		m.session = msg.session
		if msg.err != nil {
			m.session = nil
		}
		cmds = append(cmds, m.dismissPrompt())

	case submittedMsg:
		m.submitting = false
		if msg.result != nil {
			m.result = msg.result
			m.phase = msg.result.Phase
		}
		m.err = msg.err
		cmds = append(cmds, m.dismissPrompt())

	case approvalMsg:
		m.prompt = msg.prompt
		return m, nil
	}

	if m.focus < inputCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	stepsModel, cmd := m.steps.Update(msg)
	m.steps = stepsModel.(components.StepListModel)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// answerPrompt handles keys while an approval dialog is open.
func (m PageModel) answerPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.prompt.Approve()
	case "n", "N", "esc":
		m.prompt.Reject()
	case "ctrl+c":
		m.prompt.Reject()
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	default:
		return m, nil
	}
	m.prompt = nil
	return m, m.cfg.Approver.waitForPrompt(m.ctx)
}

// dismissPrompt drops a dialog left open by a flow that already ended.
func (m *PageModel) dismissPrompt() tea.Cmd {
	if m.prompt == nil {
		return nil
	}
	m.prompt.Reject()
	m.prompt = nil
	return m.cfg.Approver.waitForPrompt(m.ctx)
}

func (m *PageModel) setFocus(target int) tea.Cmd {
	m.focus = (target + focusCount) % focusCount
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m PageModel) startConnect() (tea.Model, tea.Cmd) {
	if m.connecting || m.submitting {
		return m, nil
	}
	m.connecting = true
	ctx, connector, chain := m.ctx, m.cfg.Connector, m.cfg.Chain
	return m, func() tea.Msg {
		session, err := connector.Connect(ctx, chain)
		return connectedMsg{session: session, err: err}
	}
}

// CanSubmit reports whether the submit button is enabled.
func (m PageModel) CanSubmit() bool {
	return m.session != nil && !m.connecting && !m.submitting && !m.cfg.Submitter.Busy()
}

func (m PageModel) startSubmit() (tea.Model, tea.Cmd) {
	if !m.CanSubmit() {
		return m, nil
	}
	m.submitting = true
	m.result = nil
	m.err = nil
	m.phase = submit.PhasePreparing

	ctx, submitter, session, req := m.ctx, m.cfg.Submitter, m.session, m.Request()
	return m, func() tea.Msg {
		res, err := submitter.Submit(ctx, session, req)
		return submittedMsg{result: res, err: err}
	}
}

// Request returns the submission request described by the form.
func (m PageModel) Request() submit.Request {
	return submit.Request{
		Namespace: strings.TrimSpace(m.inputs[focusNamespace].Value()),
		Data:      strings.TrimSpace(m.inputs[focusData].Value()),
		Gas:       strings.TrimSpace(m.inputs[focusGas].Value()),
		GasPrice:  strings.TrimSpace(m.inputs[focusGasPrice].Value()),
	}
}

// Session returns the connected wallet session, if any.
func (m PageModel) Session() *wallet.Session {
	return m.session
}

// Result returns the last submission result and its error.
func (m PageModel) Result() (*submit.Result, error) {
	return m.result, m.err
}

// View implements tea.Model
func (m PageModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(tui.TitleStyle("Simple Blob Poster").String())
	b.WriteString(tui.MutedStyle.Render(fmt.Sprintf("  %s (%s)", m.cfg.Chain.ChainName, m.cfg.Chain.ChainID)))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := tui.LabelStyle.Render(inputLabels[i])
		if i == m.focus {
			label = tui.LabelStyle.Foreground(tui.ColorInfo).Render(inputLabels[i])
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.buttons())
	b.WriteString("\n\n")

	b.WriteString(m.statusRegion("Wallet", output.ChannelWallet, "Not connected"))
	b.WriteString("\n")
	b.WriteString(m.statusRegion("Transaction", output.ChannelTransaction, "No transaction submitted"))
	b.WriteString("\n")

	if phase := m.currentPhase(); phase != submit.PhaseIdle {
		b.WriteString("\n")
		b.WriteString(m.stepView(phase))
		b.WriteString("\n")
	}

	if box := m.resultBox(); box != "" {
		b.WriteString("\n")
		b.WriteString(box)
		b.WriteString("\n")
	}

	if m.prompt != nil {
		dialog := components.NewBoxModel(components.BoxWarning, m.prompt.Title,
			m.prompt.Details+"\n\n"+tui.BoldStyle.Render("[y] approve  [n] reject"))
		dialog.SetWidth(m.width - 4)
		b.WriteString("\n")
		b.WriteString(dialog.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.MutedStyle.Render("tab: next • enter: activate • esc: quit"))
	return b.String()
}

func (m PageModel) buttons() string {
	render := func(label string, focused, enabled bool) string {
		switch {
		case !enabled:
			return tui.DisabledButtonStyle.Render(label)
		case focused:
			return tui.FocusedButtonStyle.Render(label)
		default:
			return tui.ButtonStyle.Render(label)
		}
	}

	connectLabel := "Connect Wallet"
	if m.connecting {
		connectLabel = "Connecting..."
	}
	submitLabel := "Submit Blob"
	if m.submitting {
		submitLabel = "Submitting..."
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		render(connectLabel, m.focus == focusConnect, !m.connecting && !m.submitting),
		" ",
		render(submitLabel, m.focus == focusSubmit, m.CanSubmit()),
	)
}

func (m PageModel) statusRegion(title string, channel output.Channel, empty string) string {
	line := tui.MutedStyle.Render(empty)
	if s, ok := m.cfg.Board.Latest(channel); ok {
		line = tui.StatusLine(s)
	}
	return tui.LabelStyle.Render(title) + " " + line
}

// currentPhase reads the live phase while a submission runs.
func (m PageModel) currentPhase() submit.Phase {
	if m.submitting {
		if p := m.cfg.Submitter.Phase(); p != submit.PhaseIdle && !p.Terminal() {
			return p
		}
	}
	return m.phase
}

func (m PageModel) stepView(phase submit.Phase) string {
	steps := m.steps
	for i, status := range stepStatuses(phase, m.result) {
		steps = steps.With(i, status, stepDetail(i, m.result))
	}
	return steps.View()
}

// stepDetail is the note shown after step i once a result exists.
func stepDetail(i int, res *submit.Result) string {
	if res == nil {
		return ""
	}
	switch i {
	case stepPreparing:
		if res.IsDegraded() {
			return "account lookup failed, used 0/0"
		}
	case stepBroadcasting:
		if res.Broadcast != nil && res.Broadcast.TxHash != "" {
			return res.Broadcast.TxHash
		}
		if res.BroadcastErr != nil {
			return "wallet broadcast failed"
		}
	}
	return ""
}

func (m PageModel) resultBox() string {
	if m.result == nil && m.err == nil {
		return ""
	}

	kind := components.BoxSuccess
	title := "Result"
	content := ""
	if m.result != nil {
		content = m.result.Output
	}

	switch {
	case errors.Is(m.err, submit.ErrBroadcastUnavailable):
		kind = components.BoxWarning
		title = "Signed transaction"
	case m.err != nil:
		kind = components.BoxError
		title = "Error"
		if content == "" {
			content = m.err.Error()
		}
	}
	if content == "" {
		return ""
	}

	box := components.NewBoxModel(kind, title, content)
	box.SetWidth(m.width - 4)
	return box.View()
}

// stepStatuses maps the submission phase to the status of each drawn step.
// A failed run fails the step it had reached.
func stepStatuses(phase submit.Phase, res *submit.Result) []components.StepStatus {
	statuses := make([]components.StepStatus, len(stepPhases))

	switch phase {
	case submit.PhaseSucceeded:
		for i := range statuses {
			statuses[i] = components.StepCompleted
		}
	case submit.PhaseFailed:
		at := failedStep(res)
		for i := 0; i < at; i++ {
			statuses[i] = components.StepCompleted
		}
		statuses[at] = components.StepFailed
	default:
		for i, p := range stepPhases {
			if p != phase {
				continue
			}
			for j := 0; j < i; j++ {
				statuses[j] = components.StepCompleted
			}
			statuses[i] = components.StepRunning
		}
	}
	return statuses
}

func failedStep(res *submit.Result) int {
	switch {
	case res == nil || res.SignDoc == nil:
		return stepPreparing
	case res.SignedTx == nil:
		return stepSigning
	default:
		return stepBroadcasting
	}
}
