package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guilhermemouraovc/cm-admin/internal/crud"
	"github.com/guilhermemouraovc/cm-admin/internal/model"
	"github.com/guilhermemouraovc/cm-admin/internal/validate"
)

type formOption struct {
	value any
	label string
}

// formField is one input; text-like fields use input, the others cycle
// through options
type formField struct {
	field   model.Field
	input   textinput.Model
	options []formOption
	choice  int
}

func (f *formField) selectable() bool {
	switch f.field.Type {
	case model.FieldChoice, model.FieldRef, model.FieldBool:
		return true
	}
	return false
}

// formState holds the open create/edit form of the active page
type formState struct {
	mode   crud.FormMode
	title  string
	base   map[string]any
	fields []formField
	focus  int
	errors map[string]string
}

func newForm(info model.KindInfo, mode crud.FormMode, rec model.Record, opts validate.Options) *formState {
	base := model.Fields(rec)
	f := &formState{mode: mode, base: base, errors: map[string]string{}}
	if mode == crud.FormEditing {
		f.title = "Editar " + info.Title
	} else {
		f.title = "Novo registro · " + info.Title
	}

	for _, fld := range info.Fields {
		ff := formField{field: fld}
		current := base[fld.Key]
		switch fld.Type {
		case model.FieldChoice:
			ff.options = []formOption{{value: "", label: "(selecione)"}}
			for _, c := range fld.Choices {
				ff.options = append(ff.options, formOption{value: c, label: c})
			}
			ff.choice = indexOf(ff.options, current)
		case model.FieldBool:
			ff.options = []formOption{{value: true, label: "Sim"}, {value: false, label: "Não"}}
			if b, _ := current.(bool); !b {
				ff.choice = 1
			}
		case model.FieldRef:
			ff.options = refOptions(opts[fld.Ref], intOf(current))
			ff.choice = indexOf(ff.options, intOf(current))
		default:
			ti := textinput.New()
			ti.Prompt = ""
			ti.CharLimit = 120
			ti.Width = 40
			ti.SetValue(initialText(current, mode))
			ff.input = ti
		}
		f.fields = append(f.fields, ff)
	}
	f.focusCurrent()
	return f
}

func refOptions(list []model.Record, current int) []formOption {
	out := []formOption{{value: 0, label: "(nenhum)"}}
	found := current == 0
	for _, r := range list {
		out = append(out, formOption{value: r.RecordID(), label: r.Label()})
		if r.RecordID() == current {
			found = true
		}
	}
	if !found {
		out = append(out, formOption{value: current, label: fmt.Sprintf("#%d", current)})
	}
	return out
}

func indexOf(opts []formOption, v any) int {
	for i, o := range opts {
		if o.value == v {
			return i
		}
	}
	return 0
}

// intOf converts a decoded JSON number to an int; anything else is 0
func intOf(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func initialText(v any, mode crud.FormMode) string {
	if n, ok := v.(float64); ok && n == 0 && mode == crud.FormCreating {
		return ""
	}
	return model.FormatValue(v)
}

func (f *formState) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.fields {
		if f.fields[i].selectable() {
			continue
		}
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *formState) next() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus + 1) % len(f.fields)
	return f.focusCurrent()
}

func (f *formState) prev() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	return f.focusCurrent()
}

// cycle moves the focused selectable field by delta options
func (f *formState) cycle(delta int) bool {
	if f.focus >= len(f.fields) {
		return false
	}
	ff := &f.fields[f.focus]
	if !ff.selectable() || len(ff.options) == 0 {
		return false
	}
	n := len(ff.options)
	ff.choice = ((ff.choice+delta)%n + n) % n
	return true
}

// update forwards msg to the focused text input
func (f *formState) update(msg tea.Msg) tea.Cmd {
	if f.focus >= len(f.fields) || f.fields[f.focus].selectable() {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// values merges the inputs over the record the form was opened with.
// Numbers that do not parse are reported per field.
func (f *formState) values() (map[string]any, map[string]string) {
	out := make(map[string]any, len(f.base)+len(f.fields))
	for k, v := range f.base {
		out[k] = v
	}
	bad := map[string]string{}

	for _, ff := range f.fields {
		key := ff.field.Key
		if ff.selectable() {
			out[key] = ff.options[ff.choice].value
			continue
		}
		text := strings.TrimSpace(ff.input.Value())
		switch ff.field.Type {
		case model.FieldInt:
			if text == "" {
				out[key] = 0
				continue
			}
			n, err := strconv.Atoi(text)
			if err != nil {
				bad[key] = "número inválido"
				continue
			}
			out[key] = n
		case model.FieldFloat:
			if text == "" {
				out[key] = 0.0
				continue
			}
			n, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
			if err != nil {
				bad[key] = "número inválido"
				continue
			}
			out[key] = n
		case model.FieldDate:
			if text == "" {
				delete(out, key)
				continue
			}
			out[key] = text
		default:
			out[key] = ff.input.Value()
		}
	}
	return out, bad
}

func (f *formState) view() string {
	var b strings.Builder
	b.WriteString(ContentTitleStyle.Render(f.title))
	b.WriteString("\n\n")

	for i, ff := range f.fields {
		label := FormLabelStyle.Render(ff.field.Label)
		if i == f.focus {
			label = FormFocusedLabelStyle.Render(ff.field.Label)
		}
		var input string
		if ff.selectable() {
			input = FormChoiceStyle.Render("‹ " + ff.options[ff.choice].label + " ›")
		} else {
			input = ff.input.View()
		}
		b.WriteString(label + " " + input)
		if msg, ok := f.errors[ff.field.Key]; ok {
			b.WriteString("  " + ErrorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("tab/↑↓ campo · ←/→ opção · enter salvar · esc cancelar"))
	return FormStyle.Render(b.String())
}

// setRefOptions swaps in freshly loaded reference options, keeping the
// selected identifiers
func (f *formState) setRefOptions(opts validate.Options) {
	for i := range f.fields {
		ff := &f.fields[i]
		if ff.field.Type != model.FieldRef {
			continue
		}
		current := intOf(ff.options[ff.choice].value)
		ff.options = refOptions(opts[ff.field.Ref], current)
		ff.choice = indexOf(ff.options, current)
	}
}
