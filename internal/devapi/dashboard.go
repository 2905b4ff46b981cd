package devapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// DashboardHandler computes the dashboard aggregates from the store
type DashboardHandler struct {
	store *Store
}

func list[T model.Record](s *Store, k model.Kind) []T {
	recs, _ := s.List(k)
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func limitParam(r *http.Request, fallback int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		return n
	}
	return fallback
}

func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.metrics())
}

func (h *DashboardHandler) metrics() model.Metrics {
	turmasAtivas := 0
	for _, t := range list[model.Turma](h.store, model.KindTurma) {
		if t.Ativo == nil || *t.Ativo {
			turmasAtivas++
		}
	}
	return model.Metrics{
		TotalAlunos:          len(list[model.Aluno](h.store, model.KindAluno)),
		TotalProfessores:     len(list[model.Professor](h.store, model.KindProfessor)),
		TurmasAtivas:         turmasAtivas,
		NotasLancadas:        len(list[model.LancamentoNota](h.store, model.KindLancamentoNota)),
		PresencasRegistradas: len(list[model.Presenca](h.store, model.KindPresenca)),
		FardamentosEntregues: len(list[model.FardaAluno](h.store, model.KindFardaAluno)),
	}
}

func (h *DashboardHandler) TopStudents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.topStudents(limitParam(r, 5)))
}

// topStudents ranks students by the mean of their posted grades
func (h *DashboardHandler) topStudents(limit int) []model.TopStudent {
	sums := map[int]float64{}
	counts := map[int]int{}
	for _, l := range list[model.LancamentoNota](h.store, model.KindLancamentoNota) {
		sums[l.IDAluno] += l.Valor
		counts[l.IDAluno]++
	}

	turmas := map[int]string{}
	for _, t := range list[model.Turma](h.store, model.KindTurma) {
		turmas[t.ID] = t.Label()
	}

	out := []model.TopStudent{}
	for _, a := range list[model.Aluno](h.store, model.KindAluno) {
		if counts[a.ID] == 0 {
			continue
		}
		out = append(out, model.TopStudent{
			IDAluno: a.ID,
			Nome:    a.Nome,
			Turma:   turmas[a.IDTurma],
			Media:   sums[a.ID] / float64(counts[a.ID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Media > out[j].Media })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (h *DashboardHandler) AbsencesByClass(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.absencesByClass())
}

func (h *DashboardHandler) absencesByClass() []model.ClassAbsences {
	faltas := map[int]int{}
	for _, p := range list[model.Presenca](h.store, model.KindPresenca) {
		if !p.Presente {
			faltas[p.IDTurma]++
		}
	}
	out := []model.ClassAbsences{}
	for _, t := range list[model.Turma](h.store, model.KindTurma) {
		out = append(out, model.ClassAbsences{IDTurma: t.ID, Turma: t.Label(), Faltas: faltas[t.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Faltas > out[j].Faltas })
	return out
}

func (h *DashboardHandler) DeliveredUniforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deliveredUniforms(limitParam(r, 10)))
}

// deliveredUniforms lists deliveries, most recent first
func (h *DashboardHandler) deliveredUniforms(limit int) []model.DeliveredUniform {
	alunos := map[int]string{}
	for _, a := range list[model.Aluno](h.store, model.KindAluno) {
		alunos[a.ID] = a.Nome
	}
	fardas := map[int]string{}
	for _, f := range list[model.Fardamento](h.store, model.KindFardamento) {
		fardas[f.ID] = f.Label()
	}

	out := []model.DeliveredUniform{}
	for _, fa := range list[model.FardaAluno](h.store, model.KindFardaAluno) {
		out = append(out, model.DeliveredUniform{
			IDFardaAluno: fa.ID,
			Aluno:        alunos[fa.IDAluno],
			Fardamento:   fardas[fa.IDFarda],
			DataEntrega:  fa.DataEntrega,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DataEntrega > out[j].DataEntrega })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
