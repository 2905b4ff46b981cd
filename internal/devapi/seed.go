package devapi

import (
	"fmt"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Seed fills the store with a small, consistent school so every page and
// the dashboard have something to show
func Seed(s *Store) error {
	yes := model.Bool(true)
	rows := []struct {
		kind model.Kind
		rec  model.Record
	}{
		{model.KindDiretor, model.Diretor{Nome: "Cel. Ricardo Souza", CargoMilitar: "Coronel", Telefone: "81999990001", Email: "ricardo.souza@cm.edu.br", Ativo: yes}},
		{model.KindDiretor, model.Diretor{Nome: "Maj. Helena Castro", CargoMilitar: "Major", Telefone: "81999990002", Email: "helena.castro@cm.edu.br", Ativo: yes}},

		{model.KindTurma, model.Turma{NomeTurma: "A", AnoEscolar: "6º ano", Turno: "Manhã", Capacidade: 30, IDDiretor: 1, Ativo: yes}},
		{model.KindTurma, model.Turma{NomeTurma: "B", AnoEscolar: "7º ano", Turno: "Tarde", Capacidade: 28, IDDiretor: 2, Ativo: yes}},

		{model.KindResponsavel, model.Responsavel{Nome: "Maria Lima", Parentesco: "Mãe", Telefone: "81988880001", Email: "maria.lima@email.com", Ativo: yes}},
		{model.KindResponsavel, model.Responsavel{Nome: "José Alves", Parentesco: "Pai", Telefone: "81988880002", Ativo: yes}},

		{model.KindAluno, model.Aluno{Nome: "Pedro Lima", DataNasc: "2013-03-14", Sexo: "M", IDTurma: 1, IDResponsavel: 1, Ativo: yes}},
		{model.KindAluno, model.Aluno{Nome: "Ana Alves", DataNasc: "2012-07-02", Sexo: "F", IDTurma: 2, IDResponsavel: 2, Ativo: yes}},
		{model.KindAluno, model.Aluno{Nome: "Marcos Lima", DataNasc: "2013-11-21", Sexo: "M", IDTurma: 1, IDResponsavel: 1, Ativo: yes}},

		{model.KindProfessor, model.Professor{Nome: "Carla Mendes", Especialidade: "Matemática", Telefone: "81977770001", Email: "carla@cm.edu.br", IDTurma: 1, IDDiretor: 1, Ativo: yes}},

		{model.KindClube, model.Clube{Nome: "Xadrez", Descricao: "Clube de xadrez e raciocínio lógico", Ativo: yes}},

		{model.KindNota, model.Nota{Descricao: "Prova bimestral", Peso: 1, Valor: 10}},
		{model.KindPeso, model.Peso{Descricao: "Avaliação bimestral", Peso: 2, Valor: 100}},

		{model.KindDisciplina, model.Disciplina{Nome: "Matemática", CargaHoraria: 80, Descricao: "Matemática do ensino fundamental", IDNota: 1, IDClube: 1, Ativo: yes}},

		{model.KindLancamentoNota, model.LancamentoNota{IDAluno: 1, IDDisciplina: 1, IDNota: 1, Valor: 8.5, DataLanc: "2025-04-10"}},
		{model.KindLancamentoNota, model.LancamentoNota{IDAluno: 2, IDDisciplina: 1, IDNota: 1, Valor: 9.5, DataLanc: "2025-04-10"}},
		{model.KindLancamentoNota, model.LancamentoNota{IDAluno: 3, IDDisciplina: 1, IDNota: 1, Valor: 7, DataLanc: "2025-04-10"}},

		{model.KindPresenca, model.Presenca{IDAluno: 1, IDTurma: 1, DataAula: "2025-03-03", Presente: true}},
		{model.KindPresenca, model.Presenca{IDAluno: 3, IDTurma: 1, DataAula: "2025-03-03", Presente: false}},
		{model.KindPresenca, model.Presenca{IDAluno: 2, IDTurma: 2, DataAula: "2025-03-03", Presente: true}},

		{model.KindFardamento, model.Fardamento{Tipo: "Uniforme Diário", Tamanho: "M"}},
		{model.KindFardamento, model.Fardamento{Tipo: "Uniforme de Educação Física", Tamanho: "P"}},

		{model.KindFardaAluno, model.FardaAluno{IDAluno: 1, IDFarda: 1, DataEntrega: "2025-02-01"}},
		{model.KindFardaAluno, model.FardaAluno{IDAluno: 2, IDFarda: 2, DataEntrega: "2025-02-05"}},

		{model.KindClubeAluno, model.ClubeAluno{IDAluno: 2, IDClube: 1, DataIngresso: "2025-03-01"}},

		{model.KindMatricula, model.Matricula{IDAluno: 1, IDTurma: 1, Ano: 2025, DataMatricula: "2025-01-20", Status: "ativa"}},
		{model.KindMatricula, model.Matricula{IDAluno: 2, IDTurma: 2, Ano: 2025, DataMatricula: "2025-01-20", Status: "ativa"}},
		{model.KindMatricula, model.Matricula{IDAluno: 3, IDTurma: 1, Ano: 2025, DataMatricula: "2025-01-22", Status: "ativa"}},
	}

	for _, row := range rows {
		if _, err := s.Create(row.kind, row.rec); err != nil {
			return fmt.Errorf("seed %s: %w", row.kind, err)
		}
	}
	return nil
}
