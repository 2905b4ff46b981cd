package model

import "fmt"

// Diretor is a school director
type Diretor struct {
	ID           int    `json:"id_diretor,omitempty"`
	Nome         string `json:"nome" validate:"notblank,min=3"`
	CargoMilitar string `json:"cargo_militar" validate:"min=2"`
	Telefone     string `json:"telefone" validate:"min=10"`
	Email        string `json:"email" validate:"required,email"`
	Ativo        *bool  `json:"ativo,omitempty"`
}

func (d Diretor) RecordID() int { return d.ID }
func (d Diretor) Label() string { return d.Nome }

// Turma is a class
type Turma struct {
	ID         int    `json:"id_turma,omitempty"`
	NomeTurma  string `json:"nome_turma"`
	AnoEscolar string `json:"ano_escolar" validate:"notblank"`
	Turno      string `json:"turno" validate:"omitempty,oneof=Manhã Tarde Noite"`
	Capacidade int    `json:"capacidade" validate:"gte=0"`
	IDDiretor  int    `json:"id_diretor,omitempty" validate:"omitempty,gt=0"`
	Ativo      *bool  `json:"ativo,omitempty"`
}

func (t Turma) RecordID() int { return t.ID }

func (t Turma) Label() string {
	if t.NomeTurma == "" {
		return t.AnoEscolar
	}
	return t.NomeTurma + " (" + t.AnoEscolar + ")"
}

// Responsavel is a student's guardian
type Responsavel struct {
	ID         int    `json:"id_responsavel,omitempty"`
	Nome       string `json:"nome" validate:"notblank,min=3"`
	Parentesco string `json:"parentesco" validate:"min=2"`
	Telefone   string `json:"telefone" validate:"min=10"`
	Email      string `json:"email" validate:"omitempty,email"`
	Ativo      *bool  `json:"ativo,omitempty"`
}

func (r Responsavel) RecordID() int { return r.ID }
func (r Responsavel) Label() string { return r.Nome }

// Aluno is a student
type Aluno struct {
	ID            int    `json:"id_aluno,omitempty"`
	Nome          string `json:"nome" validate:"notblank,min=3"`
	DataNasc      string `json:"data_nasc" validate:"required,isodate"`
	Sexo          string `json:"sexo" validate:"required,oneof=M F"`
	IDTurma       int    `json:"id_turma" validate:"gt=0"`
	IDResponsavel int    `json:"id_responsavel" validate:"gt=0"`
	Ativo         *bool  `json:"ativo,omitempty"`
}

func (a Aluno) RecordID() int { return a.ID }
func (a Aluno) Label() string { return a.Nome }

// Professor is a teacher
type Professor struct {
	ID            int    `json:"id_professor,omitempty"`
	Nome          string `json:"nome" validate:"notblank,min=3"`
	Especialidade string `json:"especialidade"`
	Telefone      string `json:"telefone" validate:"omitempty,min=10"`
	Email         string `json:"email" validate:"omitempty,email"`
	IDTurma       int    `json:"id_turma" validate:"gt=0"`
	IDDiretor     int    `json:"id_diretor" validate:"gt=0"`
	Ativo         *bool  `json:"ativo,omitempty"`
}

func (p Professor) RecordID() int { return p.ID }
func (p Professor) Label() string { return p.Nome }

// Clube is an extracurricular club
type Clube struct {
	ID        int    `json:"id_clube,omitempty"`
	Nome      string `json:"nome" validate:"notblank,min=3"`
	Descricao string `json:"descricao" validate:"min=10"`
	Ativo     *bool  `json:"ativo,omitempty"`
}

func (c Clube) RecordID() int { return c.ID }
func (c Clube) Label() string { return c.Nome }

// Disciplina is a subject
type Disciplina struct {
	ID           int    `json:"id_disciplina,omitempty"`
	Nome         string `json:"nome" validate:"notblank,min=3"`
	CargaHoraria int    `json:"carga_horaria" validate:"gte=1"`
	Descricao    string `json:"descricao" validate:"min=10"`
	IDNota       int    `json:"id_nota" validate:"gt=0"`
	IDClube      int    `json:"id_clube,omitempty" validate:"omitempty,gt=0"`
	Ativo        *bool  `json:"ativo,omitempty"`
}

func (d Disciplina) RecordID() int { return d.ID }
func (d Disciplina) Label() string { return d.Nome }

// Nota is a grade definition
type Nota struct {
	ID        int     `json:"id_nota,omitempty"`
	Descricao string  `json:"descricao"`
	Peso      float64 `json:"peso" validate:"gte=0"`
	Valor     float64 `json:"valor" validate:"gte=0,lte=10"`
}

func (n Nota) RecordID() int { return n.ID }

func (n Nota) Label() string {
	if n.Descricao != "" {
		return n.Descricao
	}
	return fmt.Sprintf("Nota %g", n.Valor)
}

// Peso is a grade weight
type Peso struct {
	ID        int     `json:"id_peso,omitempty"`
	Descricao string  `json:"descricao" validate:"notblank"`
	Peso      float64 `json:"peso" validate:"gte=0,lte=2"`
	Valor     float64 `json:"valor" validate:"gte=0,lte=200"`
}

func (p Peso) RecordID() int { return p.ID }
func (p Peso) Label() string { return p.Descricao }

// LancamentoNota records a grade for a student in a subject
type LancamentoNota struct {
	ID           int     `json:"id_lanc,omitempty"`
	IDAluno      int     `json:"id_aluno" validate:"gt=0"`
	IDDisciplina int     `json:"id_disciplina" validate:"gt=0"`
	IDNota       int     `json:"id_nota" validate:"gt=0"`
	Valor        float64 `json:"valor" validate:"gte=0,lte=10"`
	DataLanc     string  `json:"data_lanc" validate:"required,isodate"`
}

func (l LancamentoNota) RecordID() int { return l.ID }
func (l LancamentoNota) Label() string { return fmt.Sprintf("Lançamento #%d", l.ID) }

// Presenca is one attendance mark
type Presenca struct {
	ID       int    `json:"id_presenca,omitempty"`
	IDAluno  int    `json:"id_aluno" validate:"gt=0"`
	IDTurma  int    `json:"id_turma" validate:"gt=0"`
	DataAula string `json:"data_aula" validate:"required,isodate"`
	Presente bool   `json:"presente"`
}

func (p Presenca) RecordID() int { return p.ID }
func (p Presenca) Label() string { return fmt.Sprintf("Presença #%d (%s)", p.ID, p.DataAula) }

// Fardamento is a uniform item
type Fardamento struct {
	ID      int    `json:"id_farda,omitempty"`
	Tipo    string `json:"tipo" validate:"fardamento"`
	Tamanho string `json:"tamanho" validate:"oneof=P M G GG"`
}

func (f Fardamento) RecordID() int { return f.ID }
func (f Fardamento) Label() string { return f.Tipo + " - Tamanho " + f.Tamanho }

// FardaAluno is a uniform delivered to a student
type FardaAluno struct {
	ID          int    `json:"id_farda_aluno,omitempty"`
	IDAluno     int    `json:"id_aluno" validate:"gt=0"`
	IDFarda     int    `json:"id_farda" validate:"gt=0"`
	DataEntrega string `json:"data_entrega" validate:"required,isodate"`
}

func (f FardaAluno) RecordID() int { return f.ID }
func (f FardaAluno) Label() string { return fmt.Sprintf("Entrega #%d", f.ID) }

// ClubeAluno is a student's club membership
type ClubeAluno struct {
	ID           int    `json:"id_clube_aluno,omitempty"`
	IDAluno      int    `json:"id_aluno" validate:"gt=0"`
	IDClube      int    `json:"id_clube" validate:"gt=0"`
	DataIngresso string `json:"data_ingresso" validate:"required,isodate"`
	DataSaida    string `json:"data_saida,omitempty" validate:"omitempty,isodate"`
}

func (c ClubeAluno) RecordID() int { return c.ID }
func (c ClubeAluno) Label() string { return fmt.Sprintf("Participação #%d", c.ID) }

// Matricula is a student's enrollment in a class for a school year
type Matricula struct {
	ID            int    `json:"id_matricula,omitempty"`
	IDAluno       int    `json:"id_aluno" validate:"gt=0"`
	IDTurma       int    `json:"id_turma" validate:"gt=0"`
	Ano           int    `json:"ano" validate:"gte=2000,lte=2100"`
	DataMatricula string `json:"data_matricula" validate:"required,isodate"`
	Status        string `json:"status" validate:"oneof=ativa trancada concluida cancelada"`
}

func (m Matricula) RecordID() int { return m.ID }
func (m Matricula) Label() string { return fmt.Sprintf("Matrícula #%d (%d)", m.ID, m.Ano) }
