package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

var (
	engine     *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag   = "notblank"
	isoDateTag    = "isodate"
	fardamentoTag = "fardamento"
)

func init() {
	engine = validator.New()

	_pt := pt_BR.New()
	uni := ut.New(_pt, _pt)
	translator, _ = uni.GetTranslator("pt_BR")
	_ = pt_translations.RegisterDefaultTranslations(engine, translator)

	// Use JSON tag names for errors instead of Go struct names.
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = engine.RegisterValidation(notBlankTag, notBlankValidation)
	_ = engine.RegisterValidation(isoDateTag, isoDateValidation)
	_ = engine.RegisterValidation(fardamentoTag, fardamentoValidation)

	registerCustomTranslations(notBlankTag, isoDateTag, fardamentoTag)
}

// registerCustomTranslations attaches messages to the custom tags. The
// translator is already registered, so the register func is a noop.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = engine.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "campo obrigatório"
	case isoDateTag:
		return "data inválida (use AAAA-MM-DD)"
	case fardamentoTag:
		return "tipo de fardamento inválido"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func isoDateValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return ParseDate(str) == nil
}

func fardamentoValidation(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, t := range model.UniformTypes {
		if str == t {
			return true
		}
	}
	return false
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
func ParseDate(s string) error {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return nil
	}
	return fmt.Errorf("invalid date %q", s)
}

// Options are the loaded reference collections, keyed by kind
type Options map[model.Kind][]model.Record

// Result is the outcome of validating one candidate record
type Result struct {
	Valid       bool
	FieldErrors map[string]string // JSON field name → message
}

// Error returns the first field error in a stable order, for status lines
func (r Result) Error() string {
	if r.Valid {
		return ""
	}
	keys := make([]string, 0, len(r.FieldErrors))
	for k := range r.FieldErrors {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "dados inválidos"
	}
	first := keys[0]
	for _, k := range keys[1:] {
		if k < first {
			first = k
		}
	}
	return first + ": " + r.FieldErrors[first]
}

// Validate checks candidate against the rules of kind. Reference fields
// are checked for membership when options for the referenced kind are
// non-empty.
func Validate(kind model.Kind, candidate model.Record, opts Options) Result {
	res := Result{Valid: true, FieldErrors: map[string]string{}}

	ki, err := model.Lookup(kind)
	if err != nil {
		res.Valid = false
		res.FieldErrors["_"] = err.Error()
		return res
	}

	if err := engine.Struct(candidate); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			res.Valid = false
			res.FieldErrors["_"] = err.Error()
			return res
		}
		for _, fe := range verrs {
			res.FieldErrors[fe.Field()] = fe.Translate(translator)
		}
	}

	values := model.Fields(candidate)
	for _, ref := range ki.References {
		if _, done := res.FieldErrors[ref.Field]; done {
			continue
		}
		id := intValue(values[ref.Field])
		if id == 0 {
			if ref.Required {
				res.FieldErrors[ref.Field] = "selecione uma opção"
			}
			continue
		}
		if !member(opts[ref.Kind], id) {
			res.FieldErrors[ref.Field] = "opção inexistente"
		}
	}

	res.Valid = len(res.FieldErrors) == 0
	return res
}

// member reports whether id is in list; an empty list accepts anything
// because a failed option load yields an empty list
func member(list []model.Record, id int) bool {
	if len(list) == 0 {
		return true
	}
	for _, rec := range list {
		if rec.RecordID() == id {
			return true
		}
	}
	return false
}

func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// ApplyDefaults fills defaults for a record about to be created: ativo is
// true unless explicitly set
func ApplyDefaults[T model.Record](rec T) T {
	v := reflect.ValueOf(&rec).Elem()
	if v.Kind() != reflect.Struct {
		return rec
	}
	f := v.FieldByName("Ativo")
	if f.IsValid() && f.Kind() == reflect.Pointer && f.IsNil() && f.CanSet() {
		f.Set(reflect.ValueOf(model.Bool(true)))
	}
	return rec
}
