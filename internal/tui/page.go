package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guilhermemouraovc/cm-admin/internal/api"
	"github.com/guilhermemouraovc/cm-admin/internal/crud"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

// Page is the kind-agnostic face of a crud.Controller, so the root model
// can hold any entity page without knowing its record type
type Page interface {
	Info() model.KindInfo
	Load(ctx context.Context) error
	SetOptions(opts validate.Options)
	Options() validate.Options

	Rows() []model.Record
	Records() []model.Record
	State() (crud.State, string)
	SortBy(field string)
	Sort() (string, crud.SortOrder)
	Search(term string)
	SearchTerm() string

	OpenCreate()
	OpenEdit(rec model.Record) bool
	CloseForm()
	Form() (crud.FormMode, model.Record)
	FormErrors() (map[string]string, string)
	Submit(ctx context.Context, values map[string]any) (validate.Result, error)

	RequestRemove(rec model.Record) bool
	CancelRemove()
	ConfirmRemove(ctx context.Context) error
	Pending() (model.Record, bool)
	RemoveError() string

	Detach()
}

type page[T model.Record] struct {
	*crud.Controller[T]
}

func newPage[T model.Record](info model.KindInfo, svc crud.Service[T], logger *slog.Logger) Page {
	return &page[T]{Controller: crud.NewController[T](info, svc, logger)}
}

func (p *page[T]) Rows() []model.Record {
	return toRecords(p.Controller.Rows())
}

func (p *page[T]) Records() []model.Record {
	return toRecords(p.Controller.Records())
}

func (p *page[T]) OpenEdit(rec model.Record) bool {
	v, ok := rec.(T)
	if !ok {
		return false
	}
	p.Controller.OpenEdit(v)
	return true
}

func (p *page[T]) Form() (crud.FormMode, model.Record) {
	return p.Controller.Form()
}

func (p *page[T]) Submit(ctx context.Context, values map[string]any) (validate.Result, error) {
	candidate, err := model.FromValues[T](values)
	if err != nil {
		return validate.Result{}, err
	}
	return p.Controller.Submit(ctx, candidate)
}

func (p *page[T]) RequestRemove(rec model.Record) bool {
	v, ok := rec.(T)
	if !ok {
		return false
	}
	p.Controller.RequestRemove(v)
	return true
}

func (p *page[T]) Pending() (model.Record, bool) {
	return p.Controller.Pending()
}

func toRecords[T model.Record](items []T) []model.Record {
	out := make([]model.Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// NewPage builds the page for kind, talking to the backend through c
func NewPage(kind model.Kind, c *api.Client, logger *slog.Logger) (Page, error) {
	info, err := model.Lookup(kind)
	if err != nil {
		return nil, err
	}
	ep := kind.Endpoint()
	switch kind {
	case model.KindDiretor:
		return newPage[model.Diretor](info, api.NewResource[model.Diretor](c, ep), logger), nil
	case model.KindTurma:
		return newPage[model.Turma](info, api.NewResource[model.Turma](c, ep), logger), nil
	case model.KindResponsavel:
		return newPage[model.Responsavel](info, api.NewResource[model.Responsavel](c, ep), logger), nil
	case model.KindAluno:
		return newPage[model.Aluno](info, api.NewResource[model.Aluno](c, ep), logger), nil
	case model.KindProfessor:
		return newPage[model.Professor](info, api.NewResource[model.Professor](c, ep), logger), nil
	case model.KindClube:
		return newPage[model.Clube](info, api.NewResource[model.Clube](c, ep), logger), nil
	case model.KindDisciplina:
		return newPage[model.Disciplina](info, api.NewResource[model.Disciplina](c, ep), logger), nil
	case model.KindNota:
		return newPage[model.Nota](info, api.NewResource[model.Nota](c, ep), logger), nil
	case model.KindPeso:
		return newPage[model.Peso](info, api.NewResource[model.Peso](c, ep), logger), nil
	case model.KindLancamentoNota:
		return newPage[model.LancamentoNota](info, api.NewResource[model.LancamentoNota](c, ep), logger), nil
	case model.KindPresenca:
		return newPage[model.Presenca](info, api.NewResource[model.Presenca](c, ep), logger), nil
	case model.KindFardamento:
		return newPage[model.Fardamento](info, api.NewResource[model.Fardamento](c, ep), logger), nil
	case model.KindFardaAluno:
		return newPage[model.FardaAluno](info, api.NewResource[model.FardaAluno](c, ep), logger), nil
	case model.KindClubeAluno:
		return newPage[model.ClubeAluno](info, api.NewResource[model.ClubeAluno](c, ep), logger), nil
	case model.KindMatricula:
		return newPage[model.Matricula](info, api.NewResource[model.Matricula](c, ep), logger), nil
	}
	return nil, fmt.Errorf("no page for kind %s", kind)
}

// refKinds lists the kinds whose records label this kind's reference columns
func refKinds(info model.KindInfo) []model.Kind {
	var out []model.Kind
	for _, f := range info.Fields {
		if f.Type == model.FieldRef {
			out = append(out, f.Ref)
		}
	}
	return append(out, info.ReferencedKinds()...)
}
