package model

import (
	"encoding/json"
	"fmt"
)

// Kind names an entity kind; it doubles as the collection path segment
type Kind string

const (
	KindDiretor        Kind = "diretores"
	KindTurma          Kind = "turmas"
	KindResponsavel    Kind = "responsaveis"
	KindAluno          Kind = "alunos"
	KindProfessor      Kind = "professores"
	KindClube          Kind = "clubes"
	KindDisciplina     Kind = "disciplinas"
	KindNota           Kind = "notas"
	KindPeso           Kind = "pesos"
	KindLancamentoNota Kind = "lancamentos-nota"
	KindPresenca       Kind = "presencas"
	KindFardamento     Kind = "fardamentos"
	KindFardaAluno     Kind = "farda-alunos"
	KindClubeAluno     Kind = "clube-alunos"
	KindMatricula      Kind = "matriculas"
)

// Endpoint returns the REST collection path for the kind
func (k Kind) Endpoint() string {
	return "/" + string(k)
}

// FieldType controls how a form input is parsed and rendered
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldDate
	FieldChoice
	FieldRef
)

// Field describes one form input / table column
type Field struct {
	Key     string
	Label   string
	Type    FieldType
	Choices []string // FieldChoice
	Ref     Kind     // FieldRef
}

// Reference is a foreign-key field pointing at another kind
type Reference struct {
	Field    string
	Kind     Kind
	Required bool
}

// KindInfo declares everything the generic pages need about a kind
type KindInfo struct {
	Kind       Kind
	Title      string
	IDField    string
	Fields     []Field
	References []Reference
	SearchKeys []string
	SortKey    string
	HasAtivo   bool

	decode func([]json.RawMessage) ([]Record, error)
}

// Decode decodes a raw collection into records of this kind
func (ki KindInfo) Decode(raw []json.RawMessage) ([]Record, error) {
	return ki.decode(raw)
}

// UniformTypes are the accepted values for Fardamento.Tipo
var UniformTypes = []string{
	"Uniforme de Gala",
	"Uniforme de Educação Física",
	"Uniforme Diário",
	"Uniforme de Campo",
}

// UniformSizes are the accepted values for Fardamento.Tamanho
var UniformSizes = []string{"P", "M", "G", "GG"}

var kinds = []KindInfo{
	{
		Kind: KindDiretor, Title: "Diretores", IDField: "id_diretor", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "cargo_militar", Label: "Cargo militar"},
			{Key: "telefone", Label: "Telefone"},
			{Key: "email", Label: "Email"},
			{Key: "ativo", Label: "Ativo", Type: FieldBool},
		},
		SearchKeys: []string{"nome", "cargo_militar", "email"},
		SortKey:    "nome",
		decode:     DecodeList[Diretor],
	},
	{
		Kind: KindTurma, Title: "Turmas", IDField: "id_turma", HasAtivo: true,
		Fields: []Field{
			{Key: "nome_turma", Label: "Nome"},
			{Key: "ano_escolar", Label: "Ano escolar"},
			{Key: "turno", Label: "Turno", Type: FieldChoice, Choices: []string{"Manhã", "Tarde", "Noite"}},
			{Key: "capacidade", Label: "Capacidade", Type: FieldInt},
			{Key: "id_diretor", Label: "Diretor", Type: FieldRef, Ref: KindDiretor},
		},
		References: []Reference{{Field: "id_diretor", Kind: KindDiretor}},
		SearchKeys: []string{"nome_turma", "ano_escolar", "turno"},
		SortKey:    "ano_escolar",
		decode:     DecodeList[Turma],
	},
	{
		Kind: KindResponsavel, Title: "Responsáveis", IDField: "id_responsavel", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "parentesco", Label: "Parentesco"},
			{Key: "telefone", Label: "Telefone"},
			{Key: "email", Label: "Email"},
		},
		SearchKeys: []string{"nome", "parentesco", "telefone"},
		SortKey:    "nome",
		decode:     DecodeList[Responsavel],
	},
	{
		Kind: KindAluno, Title: "Alunos", IDField: "id_aluno", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "data_nasc", Label: "Data nasc.", Type: FieldDate},
			{Key: "sexo", Label: "Sexo", Type: FieldChoice, Choices: []string{"M", "F"}},
			{Key: "id_turma", Label: "Turma", Type: FieldRef, Ref: KindTurma},
			{Key: "id_responsavel", Label: "Responsável", Type: FieldRef, Ref: KindResponsavel},
		},
		References: []Reference{
			{Field: "id_turma", Kind: KindTurma, Required: true},
			{Field: "id_responsavel", Kind: KindResponsavel, Required: true},
		},
		SearchKeys: []string{"nome", "id_aluno"},
		SortKey:    "nome",
		decode:     DecodeList[Aluno],
	},
	{
		Kind: KindProfessor, Title: "Professores", IDField: "id_professor", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "especialidade", Label: "Especialidade"},
			{Key: "telefone", Label: "Telefone"},
			{Key: "email", Label: "Email"},
			{Key: "id_turma", Label: "Turma", Type: FieldRef, Ref: KindTurma},
			{Key: "id_diretor", Label: "Diretor", Type: FieldRef, Ref: KindDiretor},
		},
		References: []Reference{
			{Field: "id_turma", Kind: KindTurma, Required: true},
			{Field: "id_diretor", Kind: KindDiretor, Required: true},
		},
		SearchKeys: []string{"nome", "especialidade", "email"},
		SortKey:    "nome",
		decode:     DecodeList[Professor],
	},
	{
		Kind: KindClube, Title: "Clubes", IDField: "id_clube", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "descricao", Label: "Descrição"},
		},
		SearchKeys: []string{"nome", "descricao"},
		SortKey:    "nome",
		decode:     DecodeList[Clube],
	},
	{
		Kind: KindDisciplina, Title: "Disciplinas", IDField: "id_disciplina", HasAtivo: true,
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "carga_horaria", Label: "Carga horária", Type: FieldInt},
			{Key: "descricao", Label: "Descrição"},
			{Key: "id_nota", Label: "Nota", Type: FieldRef, Ref: KindNota},
			{Key: "id_clube", Label: "Clube", Type: FieldRef, Ref: KindClube},
		},
		References: []Reference{
			{Field: "id_nota", Kind: KindNota, Required: true},
			{Field: "id_clube", Kind: KindClube},
		},
		SearchKeys: []string{"nome", "descricao"},
		SortKey:    "nome",
		decode:     DecodeList[Disciplina],
	},
	{
		Kind: KindNota, Title: "Notas", IDField: "id_nota",
		Fields: []Field{
			{Key: "descricao", Label: "Descrição"},
			{Key: "peso", Label: "Peso", Type: FieldFloat},
			{Key: "valor", Label: "Valor", Type: FieldFloat},
		},
		SearchKeys: []string{"descricao"},
		SortKey:    "valor",
		decode:     DecodeList[Nota],
	},
	{
		Kind: KindPeso, Title: "Pesos", IDField: "id_peso",
		Fields: []Field{
			{Key: "descricao", Label: "Descrição"},
			{Key: "peso", Label: "Peso", Type: FieldFloat},
			{Key: "valor", Label: "Valor", Type: FieldFloat},
		},
		SearchKeys: []string{"descricao"},
		SortKey:    "descricao",
		decode:     DecodeList[Peso],
	},
	{
		Kind: KindLancamentoNota, Title: "Lançamento de Nota", IDField: "id_lanc",
		Fields: []Field{
			{Key: "id_aluno", Label: "Aluno", Type: FieldRef, Ref: KindAluno},
			{Key: "id_disciplina", Label: "Disciplina", Type: FieldRef, Ref: KindDisciplina},
			{Key: "id_nota", Label: "Nota", Type: FieldRef, Ref: KindNota},
			{Key: "valor", Label: "Valor", Type: FieldFloat},
			{Key: "data_lanc", Label: "Data", Type: FieldDate},
		},
		References: []Reference{
			{Field: "id_aluno", Kind: KindAluno, Required: true},
			{Field: "id_disciplina", Kind: KindDisciplina, Required: true},
			{Field: "id_nota", Kind: KindNota, Required: true},
		},
		SearchKeys: []string{"data_lanc", "valor"},
		SortKey:    "data_lanc",
		decode:     DecodeList[LancamentoNota],
	},
	{
		Kind: KindPresenca, Title: "Presenças", IDField: "id_presenca",
		Fields: []Field{
			{Key: "id_aluno", Label: "Aluno", Type: FieldRef, Ref: KindAluno},
			{Key: "id_turma", Label: "Turma", Type: FieldRef, Ref: KindTurma},
			{Key: "data_aula", Label: "Data da aula", Type: FieldDate},
			{Key: "presente", Label: "Presente", Type: FieldBool},
		},
		References: []Reference{
			{Field: "id_aluno", Kind: KindAluno, Required: true},
			{Field: "id_turma", Kind: KindTurma, Required: true},
		},
		SearchKeys: []string{"data_aula"},
		SortKey:    "data_aula",
		decode:     DecodeList[Presenca],
	},
	{
		Kind: KindFardamento, Title: "Fardamentos", IDField: "id_farda",
		Fields: []Field{
			{Key: "tipo", Label: "Tipo", Type: FieldChoice, Choices: UniformTypes},
			{Key: "tamanho", Label: "Tamanho", Type: FieldChoice, Choices: UniformSizes},
		},
		SearchKeys: []string{"tipo", "tamanho"},
		SortKey:    "tipo",
		decode:     DecodeList[Fardamento],
	},
	{
		Kind: KindFardaAluno, Title: "Farda-Aluno", IDField: "id_farda_aluno",
		Fields: []Field{
			{Key: "id_aluno", Label: "Aluno", Type: FieldRef, Ref: KindAluno},
			{Key: "id_farda", Label: "Fardamento", Type: FieldRef, Ref: KindFardamento},
			{Key: "data_entrega", Label: "Data de entrega", Type: FieldDate},
		},
		References: []Reference{
			{Field: "id_aluno", Kind: KindAluno, Required: true},
			{Field: "id_farda", Kind: KindFardamento, Required: true},
		},
		SearchKeys: []string{"data_entrega"},
		SortKey:    "data_entrega",
		decode:     DecodeList[FardaAluno],
	},
	{
		Kind: KindClubeAluno, Title: "Clube-Aluno", IDField: "id_clube_aluno",
		Fields: []Field{
			{Key: "id_aluno", Label: "Aluno", Type: FieldRef, Ref: KindAluno},
			{Key: "id_clube", Label: "Clube", Type: FieldRef, Ref: KindClube},
			{Key: "data_ingresso", Label: "Ingresso", Type: FieldDate},
			{Key: "data_saida", Label: "Saída", Type: FieldDate},
		},
		References: []Reference{
			{Field: "id_aluno", Kind: KindAluno, Required: true},
			{Field: "id_clube", Kind: KindClube, Required: true},
		},
		SearchKeys: []string{"data_ingresso"},
		SortKey:    "data_ingresso",
		decode:     DecodeList[ClubeAluno],
	},
	{
		Kind: KindMatricula, Title: "Matrículas", IDField: "id_matricula",
		Fields: []Field{
			{Key: "id_aluno", Label: "Aluno", Type: FieldRef, Ref: KindAluno},
			{Key: "id_turma", Label: "Turma", Type: FieldRef, Ref: KindTurma},
			{Key: "ano", Label: "Ano", Type: FieldInt},
			{Key: "data_matricula", Label: "Data", Type: FieldDate},
			{Key: "status", Label: "Status", Type: FieldChoice, Choices: []string{"ativa", "trancada", "concluida", "cancelada"}},
		},
		References: []Reference{
			{Field: "id_aluno", Kind: KindAluno, Required: true},
			{Field: "id_turma", Kind: KindTurma, Required: true},
		},
		SearchKeys: []string{"status", "ano"},
		SortKey:    "ano",
		decode:     DecodeList[Matricula],
	},
}

// Kinds returns every entity kind in navigation order
func Kinds() []KindInfo {
	out := make([]KindInfo, len(kinds))
	copy(out, kinds)
	return out
}

// Lookup returns the declaration for a kind
func Lookup(k Kind) (KindInfo, error) {
	for _, ki := range kinds {
		if ki.Kind == k {
			return ki, nil
		}
	}
	return KindInfo{}, fmt.Errorf("unknown entity kind: %s", k)
}

// MustLookup is Lookup for kinds known at compile time
func MustLookup(k Kind) KindInfo {
	ki, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return ki
}

// ReferencedKinds lists the kinds a form for ki needs options for
func (ki KindInfo) ReferencedKinds() []Kind {
	out := make([]Kind, 0, len(ki.References))
	for _, ref := range ki.References {
		out = append(out, ref.Kind)
	}
	return out
}
