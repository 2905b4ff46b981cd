package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/crud"
	"github.com/guilhermemouraovc/cm-admin/internal/export"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/options"
	"github.com/guilhermemouraovc/cm-admin/internal/session"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeLogin     ViewMode = iota // Login screen
	ViewModeDashboard                 // Metrics overview
	ViewModePage                      // Entity list/form page
	ViewModeHelp                      // Help overlay
)

// Messages
type sessionCheckedMsg struct {
	ok bool
}

type loginDoneMsg struct {
	err error
}

type sessionEventMsg struct {
	event session.Event
}

// dashboardData holds the four panels; each carries its own error text
type dashboardData struct {
	metrics   model.Metrics
	top       []model.TopStudent
	absences  []model.ClassAbsences
	delivered []model.DeliveredUniform

	metricsErr   string
	topErr       string
	absencesErr  string
	deliveredErr string
}

type dashboardLoadedMsg struct {
	data dashboardData
}

// Page results carry the page they belong to; results for a page the
// user already left are dropped
type pageLoadedMsg struct {
	page Page
	err  error
}

type optionsLoadedMsg struct {
	page Page
	opts validate.Options
}

type submitDoneMsg struct {
	page Page
	err  error
}

type removeDoneMsg struct {
	page Page
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Spinner animation frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	sidebarWidth     = 26
	dashboardTop     = 5
	dashboardRecents = 5
)

// Deps are the services the UI drives
type Deps struct {
	Client    *api.Client
	Session   *session.Store
	Logger    *slog.Logger
	ExportDir string
}

// Model is the root Bubble Tea model
type Model struct {
	ctx       context.Context
	client    *api.Client
	sess      *session.Store
	loader    *options.Loader
	logger    *slog.Logger
	exportDir string
	events    chan session.Event

	// Terminal dimensions
	width  int
	height int
	ready  bool

	// View state
	viewMode ViewMode
	prevMode ViewMode

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// Login
	username   textinput.Model
	password   textinput.Model
	loginFocus int
	loginErr   string
	loggingIn  bool
	checking   bool

	// Dashboard
	dash        dashboardData
	dashLoading bool

	// Navigation: 0 is the dashboard, i+1 is kinds[i]
	kinds  []model.KindInfo
	navIdx int

	// Active entity page
	page        Page
	rows        []model.Record
	table       table.Model
	searchInput textinput.Model
	searching   bool
	sortCol     int
	form        *formState
	confirming  bool

	// Status line
	status    string
	statusErr bool
}

// NewRootModel creates the root model. A restored session is checked in
// Init before the dashboard is shown.
func NewRootModel(ctx context.Context, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	user := textinput.New()
	user.Placeholder = "usuário"
	user.Prompt = "Usuário: "
	user.PromptStyle = InputPromptStyle
	user.CharLimit = 64
	user.Width = 30
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "senha"
	pass.Prompt = "Senha:   "
	pass.PromptStyle = InputPromptStyle
	pass.EchoMode = textinput.EchoPassword
	pass.CharLimit = 128
	pass.Width = 30

	search := textinput.New()
	search.Placeholder = "buscar..."
	search.Prompt = "/ "
	search.PromptStyle = InputPromptStyle
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: spinnerFrames, FPS: 100 * time.Millisecond}
	sp.Style = SuccessStyle

	tbl := table.New(table.WithFocused(true), table.WithStyles(tableStyles()))

	events := make(chan session.Event, 8)
	if deps.Session != nil {
		deps.Session.Subscribe(func(ev session.Event) {
			select {
			case events <- ev:
			default:
			}
		})
	}

	m := Model{
		ctx:         ctx,
		client:      deps.Client,
		sess:        deps.Session,
		loader:      options.NewLoader(deps.Client, logger),
		logger:      logger,
		exportDir:   deps.ExportDir,
		events:      events,
		viewMode:    ViewModeLogin,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		spinner:     sp,
		username:    user,
		password:    pass,
		kinds:       model.Kinds(),
		table:       tbl,
		searchInput: search,
	}
	if deps.Session != nil && deps.Session.Current() != nil {
		m.checking = true
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		waitForSessionEvent(m.events),
	}
	if m.checking {
		cmds = append(cmds, m.checkSessionCmd())
	}
	return tea.Batch(cmds...)
}

func waitForSessionEvent(ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		return sessionEventMsg{event: <-ch}
	}
}

func (m Model) checkSessionCmd() tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		return sessionCheckedMsg{ok: sess.CanAccess(ctx)}
	}
}

func (m Model) loginCmd(creds model.Credentials) tea.Cmd {
	ctx, sess := m.ctx, m.sess
	return func() tea.Msg {
		_, err := sess.Login(ctx, creds)
		return loginDoneMsg{err: err}
	}
}

// loadDashboardCmd fetches the four dashboard panels concurrently. A failed
// panel keeps its error and leaves the others intact.
func (m Model) loadDashboardCmd() tea.Cmd {
	ctx, c, logger := m.ctx, m.client, m.logger
	return func() tea.Msg {
		var d dashboardData
		panel := func(name string, errText *string, fetch func() error) func() {
			return func() {
				if err := fetch(); err != nil {
					logger.Warn("dashboard panel failed", "panel", name, "error", err)
					*errText = api.Message(err)
				}
			}
		}
		fetches := []func(){
			panel("metrics", &d.metricsErr, func() (err error) {
				d.metrics, err = c.Metrics(ctx)
				return err
			}),
			panel("top_students", &d.topErr, func() (err error) {
				d.top, err = c.TopStudents(ctx, dashboardTop)
				return err
			}),
			panel("absences", &d.absencesErr, func() (err error) {
				d.absences, err = c.AbsencesByClass(ctx)
				return err
			}),
			panel("delivered", &d.deliveredErr, func() (err error) {
				d.delivered, err = c.DeliveredUniforms(ctx, dashboardRecents)
				return err
			}),
		}

		var wg sync.WaitGroup
		for _, fetch := range fetches {
			fetch := fetch
			wg.Add(1)
			go func() {
				defer wg.Done()
				fetch()
			}()
		}
		wg.Wait()
		return dashboardLoadedMsg{data: d}
	}
}

func (m Model) loadPageCmd(p Page) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return pageLoadedMsg{page: p, err: p.Load(ctx)}
	}
}

func (m Model) loadOptionsCmd(p Page) tea.Cmd {
	ctx, loader := m.ctx, m.loader
	kinds := refKinds(p.Info())
	if len(kinds) == 0 {
		return nil
	}
	return func() tea.Msg {
		return optionsLoadedMsg{page: p, opts: validate.Options(loader.Load(ctx, kinds))}
	}
}

func (m Model) submitCmd(p Page, values map[string]any) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_, err := p.Submit(ctx, values)
		return submitDoneMsg{page: p, err: err}
	}
}

func (m Model) removeCmd(p Page) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return removeDoneMsg{page: p, err: p.ConfirmRemove(ctx)}
	}
}

func (m Model) exportCmd(p Page) tea.Cmd {
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.WriteFile(dir, p.Info(), p.Rows(), p.Options())
		return exportDoneMsg{path: path, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeTable()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionCheckedMsg:
		m.checking = false
		if msg.ok {
			cmd := m.goTo(0)
			return m, cmd
		}
		return m, nil

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.loginErr = loginError(msg.err)
			return m, nil
		}
		m.loginErr = ""
		m.password.SetValue("")
		cmd := m.goTo(0)
		return m, cmd

	case sessionEventMsg:
		cmds = append(cmds, waitForSessionEvent(m.events))
		switch msg.event {
		case session.EventInvalidated:
			m.toLogin("Sessão expirada. Faça login novamente.")
		case session.EventLoggedOut:
			m.toLogin("")
		}
		return m, tea.Batch(cmds...)

	case dashboardLoadedMsg:
		m.dashLoading = false
		m.dash = msg.data
		return m, nil

	case pageLoadedMsg:
		if msg.page != m.page {
			return m, nil
		}
		m.refreshTable()
		return m, nil

	case optionsLoadedMsg:
		if msg.page != m.page {
			return m, nil
		}
		m.page.SetOptions(msg.opts)
		if m.form != nil {
			m.form.setRefOptions(msg.opts)
		}
		m.refreshTable()
		return m, nil

	case submitDoneMsg:
		if msg.page != m.page || m.form == nil {
			return m, nil
		}
		mode, _ := m.page.Form()
		if msg.err == nil {
			m.form = nil
			m.setStatus("Registro salvo", false)
			m.refreshTable()
			return m, nil
		}
		fieldErrs, formErr := m.page.FormErrors()
		switch {
		case errors.Is(msg.err, crud.ErrInvalid):
			m.form.errors = fieldErrs
		case mode == crud.FormClosed:
			m.form = nil
		default:
			m.setStatus(formErr, true)
		}
		return m, nil

	case removeDoneMsg:
		if msg.page != m.page {
			return m, nil
		}
		m.confirming = false
		if msg.err != nil {
			m.setStatus(m.page.RemoveError(), true)
			return m, nil
		}
		m.setStatus("Registro excluído", false)
		m.refreshTable()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus("Falha ao exportar: "+msg.err.Error(), true)
			return m, nil
		}
		m.setStatus("Exportado para "+msg.path, false)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.viewMode {
		case ViewModeLogin:
			return m.updateLogin(msg)
		case ViewModeHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
				m.viewMode = m.prevMode
			}
			return m, nil
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.confirming {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateMain(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn || m.checking {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.loginFocus = 1 - m.loginFocus
		cmd := m.focusLogin()
		return m, cmd
	case tea.KeyEnter:
		if m.loginFocus == 0 {
			m.loginFocus = 1
			cmd := m.focusLogin()
			return m, cmd
		}
		creds := model.Credentials{Username: m.username.Value(), Password: m.password.Value()}
		if creds.Username == "" || creds.Password == "" {
			m.loginErr = "Informe usuário e senha"
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, m.loginCmd(creds)
	case tea.KeyEsc:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusLogin() tea.Cmd {
	if m.loginFocus == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.viewMode
		m.viewMode = ViewModeHelp
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		m.sess.Logout()
		m.toLogin("")
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		cmd := m.goTo((m.navIdx + 1) % (len(m.kinds) + 1))
		return m, cmd
	case key.Matches(msg, m.keys.PrevPage):
		cmd := m.goTo((m.navIdx + len(m.kinds)) % (len(m.kinds) + 1))
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		if m.page == nil {
			m.dashLoading = true
			return m, m.loadDashboardCmd()
		}
		return m, tea.Batch(m.loadPageCmd(m.page), m.loadOptionsCmd(m.page))
	}

	if m.page == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.page.OpenCreate()
		cmd := m.openForm()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		rec, ok := m.selected()
		if !ok || !m.page.OpenEdit(rec) {
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		rec, ok := m.selected()
		if ok && m.page.RequestRemove(rec) {
			m.confirming = true
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.page.SearchTerm())
		cmd := m.searchInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Sort):
		cols := sortFields(m.page.Info())
		m.sortCol = (m.sortCol + 1) % len(cols)
		m.page.SortBy(cols[m.sortCol])
		m.refreshTable()
		return m, nil
	case key.Matches(msg, m.keys.Reverse):
		cols := sortFields(m.page.Info())
		m.page.SortBy(cols[m.sortCol])
		m.refreshTable()
		return m, nil
	case key.Matches(msg, m.keys.Export):
		m.setStatus("Exportando...", false)
		return m, m.exportCmd(m.page)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.page.Search("")
		m.refreshTable()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.page.Search(m.searchInput.Value())
	m.refreshTable()
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.setStatus("Excluindo...", false)
		return m, m.removeCmd(m.page)
	case key.Matches(msg, m.keys.No):
		m.page.CancelRemove()
		m.confirming = false
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.page.CloseForm()
		m.form = nil
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.form.next()
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.prev()
	case tea.KeyLeft:
		if m.form.cycle(-1) {
			return m, nil
		}
	case tea.KeyRight:
		if m.form.cycle(1) {
			return m, nil
		}
	case tea.KeyEnter:
		values, bad := m.form.values()
		if len(bad) > 0 {
			m.form.errors = bad
			return m, nil
		}
		m.form.errors = map[string]string{}
		m.setStatus("Salvando...", false)
		return m, m.submitCmd(m.page, values)
	}
	return m, m.form.update(msg)
}

// openForm builds the form for the page's current form state and
// refreshes the reference options behind it
func (m *Model) openForm() tea.Cmd {
	mode, rec := m.page.Form()
	if mode == crud.FormClosed {
		return nil
	}
	m.form = newForm(m.page.Info(), mode, rec, m.page.Options())
	return tea.Batch(m.form.focusCurrent(), m.loadOptionsCmd(m.page))
}

// goTo switches to navigation entry idx
func (m *Model) goTo(idx int) tea.Cmd {
	if m.sess == nil || m.sess.Current() == nil {
		m.toLogin("")
		return nil
	}
	m.leavePage()
	m.navIdx = idx
	m.status = ""

	if idx == 0 {
		m.viewMode = ViewModeDashboard
		m.dashLoading = true
		return m.loadDashboardCmd()
	}

	info := m.kinds[idx-1]
	p, err := NewPage(info.Kind, m.client, m.logger)
	if err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.page = p
	m.viewMode = ViewModePage
	m.searchInput.SetValue("")
	m.sortCol = 0
	cols := sortFields(info)
	for i, c := range cols {
		if c == info.SortKey {
			m.sortCol = i
			p.SortBy(c)
		}
	}
	m.refreshTable()
	return tea.Batch(m.loadPageCmd(p), m.loadOptionsCmd(p))
}

func (m *Model) leavePage() {
	if m.page != nil {
		m.page.Detach()
	}
	m.page = nil
	m.rows = nil
	m.form = nil
	m.confirming = false
	m.searching = false
}

// toLogin drops every authenticated view and shows the login screen
func (m *Model) toLogin(reason string) {
	m.leavePage()
	m.viewMode = ViewModeLogin
	m.navIdx = 0
	m.dash = dashboardData{}
	m.loginErr = reason
	m.loggingIn = false
	m.checking = false
	m.loginFocus = 0
	m.password.SetValue("")
	m.focusLogin()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// selected returns the record under the table cursor
func (m Model) selected() (model.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil, false
	}
	return m.rows[i], true
}

func sortFields(info model.KindInfo) []string {
	out := []string{info.IDField}
	for _, f := range info.Fields {
		out = append(out, f.Key)
	}
	return out
}

func loginError(err error) string {
	if errors.Is(err, session.ErrInvalidCredentials) {
		return "Usuário ou senha inválidos"
	}
	return api.Message(err)
}
