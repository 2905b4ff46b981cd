package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/guilhermemouraovc/cm-admin/internal/crud"
	"github.com/guilhermemouraovc/cm-admin/internal/export"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

const maxColumnWidth = 28

// View renders the model
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	switch m.viewMode {
	case ViewModeLogin:
		return m.loginView()
	case ViewModeHelp:
		return m.helpView()
	default:
		return m.mainView()
	}
}

func (m Model) loginView() string {
	title := HeaderStyle.Render("Colégio Militar") + DimStyle.Render("  Painel Administrativo")

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(m.username.View() + "\n")
	b.WriteString(m.password.View() + "\n\n")

	switch {
	case m.checking:
		b.WriteString(m.spinner.View() + DimStyle.Render(" Verificando sessão..."))
	case m.loggingIn:
		b.WriteString(m.spinner.View() + DimStyle.Render(" Entrando..."))
	case m.loginErr != "":
		b.WriteString(ErrorStyle.Render(m.loginErr))
	default:
		b.WriteString(DimStyle.Render("enter entrar · tab alternar campo · esc sair"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, LoginStyle.Render(b.String()))
}

// mainView renders the authenticated layout
func (m Model) mainView() string {
	header := m.renderHeader()
	bodyHeight := m.height - 3

	sidebar := m.renderSidebar(sidebarWidth, bodyHeight)
	contentWidth := m.width - sidebarWidth - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	var content string
	if m.viewMode == ViewModeDashboard {
		content = m.renderDashboard(contentWidth)
	} else {
		content = m.renderPage(contentWidth)
	}
	content = ContentStyle.Width(contentWidth - 2).Height(bodyHeight - 2).Render(content)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusBar())
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(ColorGold).Bold(true).Render("CM ADMIN")
	subtitle := lipgloss.NewStyle().Foreground(ColorFgMuted).Render("Colégio Militar")

	var where string
	if m.page != nil {
		where = lipgloss.NewStyle().Foreground(ColorFgSecondary).Render(" · " + m.page.Info().Title)
	} else {
		where = lipgloss.NewStyle().Foreground(ColorFgSecondary).Render(" · Dashboard")
	}

	return lipgloss.NewStyle().
		PaddingLeft(1).
		Width(m.width).
		Render(title + "  " + subtitle + where)
}

func (m Model) renderSidebar(width, height int) string {
	var b strings.Builder
	b.WriteString(SidebarTitleStyle.Render("Navegação") + "\n\n")

	items := make([]string, 0, len(m.kinds)+1)
	items = append(items, "Dashboard")
	for _, ki := range m.kinds {
		items = append(items, ki.Title)
	}
	for i, item := range items {
		line := truncate(item, width-4)
		if i == m.navIdx {
			b.WriteString(SidebarActiveStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString(SidebarItemStyle.Render("  "+line) + "\n")
		}
	}

	return SidebarStyle.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderDashboard(width int) string {
	if m.dashLoading {
		return m.spinner.View() + DimStyle.Render(" Carregando indicadores...")
	}

	var cards string
	if m.dash.metricsErr != "" {
		cards = ContentTitleStyle.Render("Indicadores") + "\n" + panelError(m.dash.metricsErr)
	} else {
		mt := m.dash.metrics
		cards = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top,
				card("Alunos", mt.TotalAlunos),
				card("Professores", mt.TotalProfessores),
				card("Turmas ativas", mt.TurmasAtivas),
			),
			lipgloss.JoinHorizontal(lipgloss.Top,
				card("Notas lançadas", mt.NotasLancadas),
				card("Presenças", mt.PresencasRegistradas),
				card("Fardas entregues", mt.FardamentosEntregues),
			),
		)
	}

	var top strings.Builder
	top.WriteString(ContentTitleStyle.Render("Melhores médias") + "\n")
	switch {
	case m.dash.topErr != "":
		top.WriteString(panelError(m.dash.topErr))
	case len(m.dash.top) == 0:
		top.WriteString(DimStyle.Render("sem lançamentos") + "\n")
	}
	for i, s := range m.dash.top {
		top.WriteString(fmt.Sprintf("%d. %-24s %-14s %5.2f\n", i+1, truncate(s.Nome, 24), truncate(s.Turma, 14), s.Media))
	}

	var abs strings.Builder
	abs.WriteString(ContentTitleStyle.Render("Faltas por turma") + "\n")
	if m.dash.absencesErr != "" {
		abs.WriteString(panelError(m.dash.absencesErr))
	}
	for _, a := range m.dash.absences {
		abs.WriteString(fmt.Sprintf("%-20s %4d\n", truncate(a.Turma, 20), a.Faltas))
	}

	var del strings.Builder
	del.WriteString(ContentTitleStyle.Render("Últimas entregas de fardamento") + "\n")
	if m.dash.deliveredErr != "" {
		del.WriteString(panelError(m.dash.deliveredErr))
	}
	for _, d := range m.dash.delivered {
		del.WriteString(fmt.Sprintf("%s  %-22s %s\n", d.DataEntrega, truncate(d.Aluno, 22), truncate(d.Fardamento, width-40)))
	}

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(width/2).Render(top.String()),
		abs.String(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, cards, "", lists, "", del.String())
}

func panelError(msg string) string {
	return ErrorStyle.Render(msg) + " " + DimStyle.Render("(r para tentar novamente)") + "\n"
}

func card(label string, value int) string {
	return CardStyle.Render(CardValueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + CardLabelStyle.Render(label))
}

func (m Model) renderPage(width int) string {
	info := m.page.Info()
	var b strings.Builder
	b.WriteString(ContentTitleStyle.Render(info.Title))

	if term := m.page.SearchTerm(); term != "" || m.searching {
		b.WriteString("  ")
		if m.searching {
			b.WriteString(m.searchInput.View())
		} else {
			b.WriteString(DimStyle.Render("busca: " + term))
		}
	}
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.form.view())
		return b.String()
	}

	state, loadErr := m.page.State()
	switch {
	case state == crud.StateLoading && len(m.rows) == 0:
		b.WriteString(m.spinner.View() + DimStyle.Render(" Carregando..."))
	case state == crud.StateError:
		b.WriteString(ErrorStyle.Render(loadErr) + "\n" + DimStyle.Render("r para tentar novamente"))
	case len(m.rows) == 0:
		b.WriteString(DimStyle.Render("Nenhum registro encontrado"))
	default:
		b.WriteString(m.table.View())
	}

	if m.confirming {
		if rec, ok := m.page.Pending(); ok {
			dialog := ConfirmStyle.Render(fmt.Sprintf("Excluir %q?\n\n", rec.Label()) +
				DimStyle.Render("y confirmar · n cancelar"))
			b.WriteString("\n" + dialog)
		}
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	var user string
	if m.sess != nil {
		if cur := m.sess.Current(); cur != nil {
			name := cur.Profile.Nome
			if name == "" {
				name = cur.Profile.Username
			}
			user = StatusUserStyle.Render("● " + name)
		}
	}

	var status string
	if m.status != "" {
		if m.statusErr {
			status = " │ " + ErrorStyle.Render(m.status)
		} else {
			status = " │ " + SuccessStyle.Render(m.status)
		}
	}

	hint := DimStyle.Render(" │ ") + m.help.ShortHelpView(m.keys.ShortHelp())
	return StatusBarStyle.Render(user + status + hint)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := HelpTitleStyle.Render("Atalhos de teclado")
	content := title + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		DimStyle.Render("? ou esc para fechar")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpStyle.Render(content))
}

// resizeTable fits the table to the content area
func (m *Model) resizeTable() {
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	w := m.width - sidebarWidth - 6
	if w < 20 {
		w = 20
	}
	m.table.SetHeight(h)
	m.table.SetWidth(w)
}

// refreshTable rebuilds the table from the page's visible rows
func (m *Model) refreshTable() {
	if m.page == nil {
		return
	}
	info := m.page.Info()
	opts := m.page.Options()
	m.rows = m.page.Rows()

	sortKey, order := m.page.Sort()
	headers := append([]string{"ID"}, fieldLabels(info)...)
	keys := sortFields(info)
	for i, k := range keys {
		if k != sortKey {
			continue
		}
		if order == crud.Ascending {
			headers[i] += " ▲"
		} else {
			headers[i] += " ▼"
		}
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, rec := range m.rows {
		values := model.Fields(rec)
		row := table.Row{fmt.Sprintf("%d", rec.RecordID())}
		for _, f := range info.Fields {
			if f.Type == model.FieldRef {
				row = append(row, export.RefLabel(opts[f.Ref], intOf(values[f.Key])))
				continue
			}
			row = append(row, model.FormatValue(values[f.Key]))
		}
		rows = append(rows, row)
	}

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, r := range rows {
			if cw := lipgloss.Width(r[i]); cw > w {
				w = cw
			}
		}
		cols[i] = table.Column{Title: h, Width: min(w, maxColumnWidth)}
	}

	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func fieldLabels(info model.KindInfo) []string {
	out := make([]string, 0, len(info.Fields))
	for _, f := range info.Fields {
		out = append(out, f.Label)
	}
	return out
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
