package crud

import (
	"context"
	"testing"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

func names(rows []model.Aluno) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Nome
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortToggle(t *testing.T) {
	records := []model.Aluno{{ID: 1, Nome: "B"}, {ID: 2, Nome: "C"}, {ID: 3, Nome: "A"}}
	tbl := NewTable[model.Aluno]([]string{"nome"})

	tbl.SortBy("nome")
	if got := names(tbl.Apply(records)); !equal(got, []string{"A", "B", "C"}) {
		t.Errorf("ascending = %v", got)
	}
	tbl.SortBy("nome")
	if got := names(tbl.Apply(records)); !equal(got, []string{"C", "B", "A"}) {
		t.Errorf("descending = %v", got)
	}
	tbl.SortBy("nome")
	if got := names(tbl.Apply(records)); !equal(got, []string{"A", "B", "C"}) {
		t.Errorf("toggled back = %v", got)
	}

	// the input slice is never reordered
	if got := names(records); !equal(got, []string{"B", "C", "A"}) {
		t.Errorf("input mutated: %v", got)
	}
}

func TestSortIsStable(t *testing.T) {
	records := []model.Aluno{
		{ID: 1, Nome: "Ana", IDTurma: 2},
		{ID: 2, Nome: "Bia", IDTurma: 1},
		{ID: 3, Nome: "Caio", IDTurma: 2},
		{ID: 4, Nome: "Duda", IDTurma: 1},
	}
	tbl := NewTable[model.Aluno](nil)

	tbl.SortBy("id_turma")
	if got := names(tbl.Apply(records)); !equal(got, []string{"Bia", "Duda", "Ana", "Caio"}) {
		t.Errorf("ascending ties = %v", got)
	}
	tbl.SortBy("id_turma")
	if got := names(tbl.Apply(records)); !equal(got, []string{"Ana", "Caio", "Bia", "Duda"}) {
		t.Errorf("descending ties = %v", got)
	}
}

func TestSortNumeric(t *testing.T) {
	records := []model.Nota{{ID: 1, Valor: 10}, {ID: 2, Valor: 9}, {ID: 3, Valor: 2.5}}
	tbl := NewTable[model.Nota](nil)
	tbl.SortBy("valor")

	rows := tbl.Apply(records)
	if rows[0].Valor != 2.5 || rows[2].Valor != 10 {
		t.Errorf("numeric sort = %+v", rows)
	}
}

func TestSortNewFieldStartsAscending(t *testing.T) {
	tbl := NewTable[model.Aluno](nil)
	tbl.SortBy("nome")
	tbl.SortBy("nome")
	tbl.SortBy("id_aluno")
	if key, order := tbl.Sort(); key != "id_aluno" || order != Ascending {
		t.Errorf("Sort() = %s %v", key, order)
	}
}

func TestSearch(t *testing.T) {
	records := []model.Aluno{
		{ID: 11, Nome: "Maria"},
		{ID: 12, Nome: "MARCOS"},
		{ID: 13, Nome: "Ana"},
		{ID: 21, Nome: "Amaral"},
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "case-insensitive substring", term: "mar", want: []string{"Maria", "MARCOS", "Amaral"}},
		{name: "numeric key as text", term: "1", want: []string{"Maria", "MARCOS", "Ana", "Amaral"}},
		{name: "numeric exact", term: "13", want: []string{"Ana"}},
		{name: "no match", term: "zz", want: []string{}},
		{name: "empty term", term: "", want: []string{"Maria", "MARCOS", "Ana", "Amaral"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable[model.Aluno]([]string{"nome", "id_aluno"})
			tbl.Search(tt.term)
			if got := names(tbl.Apply(records)); !equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}

func TestSearchAppliesAfterSort(t *testing.T) {
	records := []model.Aluno{{ID: 1, Nome: "Marta"}, {ID: 2, Nome: "Bruno"}, {ID: 3, Nome: "Mariana"}}
	tbl := NewTable[model.Aluno]([]string{"nome"})
	tbl.SortBy("nome")
	tbl.Search("mar")

	if got := names(tbl.Apply(records)); !equal(got, []string{"Mariana", "Marta"}) {
		t.Errorf("rows = %v", got)
	}
}

func TestControllerRowsUseTable(t *testing.T) {
	svc := &fakeService[model.Aluno]{items: []model.Aluno{{ID: 1, Nome: "Bruno"}, {ID: 2, Nome: "Ana"}}}
	c := NewController[model.Aluno](model.MustLookup(model.KindAluno), svc, nil)
	c.Load(testContext(t))

	c.SortBy("nome")
	if got := names(c.Rows()); !equal(got, []string{"Ana", "Bruno"}) {
		t.Errorf("Rows() = %v", got)
	}
	c.Search("bru")
	if got := names(c.Rows()); !equal(got, []string{"Bruno"}) {
		t.Errorf("Rows() after search = %v", got)
	}
	if c.SearchTerm() != "bru" {
		t.Errorf("SearchTerm() = %q", c.SearchTerm())
	}
	// the stored collection keeps server order
	if got := names(c.Records()); !equal(got, []string{"Bruno", "Ana"}) {
		t.Errorf("Records() = %v", got)
	}
}

// testContext mirrors testing.T.Context (Go 1.24+): canceled when the test ends.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
