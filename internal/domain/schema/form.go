package schema

import (
	"context"
	"errors"
	"sync"
)

// ErrSubmitting se devuelve si se intenta enviar mientras otro envío está en curso.
var ErrSubmitting = errors.New("schema: envío en curso")

// FormState estado de un formulario dinámico: valores, error por campo y si hay
// un envío en curso.
type FormState struct {
	mu         sync.Mutex
	fields     []Field
	values     Values
	errors     Errors
	validator  *Validator
	submitting bool
}

// NewForm inicializa el formulario con los defaults declarados y los valores iniciales.
func NewForm(fields []Field, v *Validator, initial Values) *FormState {
	return &FormState{fields: fields, values: initialValues(fields, initial), errors: Errors{}, validator: v}
}

func initialValues(fields []Field, initial Values) Values {
	values := Values{}
	for _, f := range fields {
		if f.Default != nil {
			values[f.Name] = f.Default
		}
	}
	for k, val := range initial {
		values[k] = val
	}
	return values
}

// Fields campos del formulario.
func (s *FormState) Fields() []Field { return s.fields }

// Set asigna un valor y limpia el error previo de ese campo.
func (s *FormState) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	delete(s.errors, name)
}

// Get valor actual del campo.
func (s *FormState) Get(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// Values copia de los valores actuales.
func (s *FormState) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors copia de los errores actuales.
func (s *FormState) Errors() Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(Errors, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// SetErrors reemplaza los errores (p. ej. los devueltos por el servidor).
func (s *FormState) SetErrors(errs Errors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = Errors{}
	for k, v := range errs {
		s.errors[k] = v
	}
}

// Validate corre las reglas de todos los campos visibles. Devuelve true si no
// hay errores.
func (s *FormState) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = s.validator.Validate(s.fields, s.values)
	return !s.errors.Any()
}

// ValidateField valida un solo campo (al salir del input).
func (s *FormState) ValidateField(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fields {
		if f.Name != name {
			continue
		}
		if msg, ok := s.validator.ValidateField(f, s.values); !ok {
			s.errors[name] = msg
			return false
		}
		delete(s.errors, name)
		return true
	}
	return true
}

// Visible indica si el campo se muestra con los valores actuales.
func (s *FormState) Visible(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fields {
		if f.Name == name {
			return !f.Hidden && Visible(f, s.values)
		}
	}
	return false
}

// VisibleFields campos a renderizar según los predicados de dependencia.
func (s *FormState) VisibleFields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if !f.Hidden && Visible(f, s.values) {
			out = append(out, f)
		}
	}
	return out
}

// Reset vuelve a los defaults y limpia los errores.
func (s *FormState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = initialValues(s.fields, nil)
	s.errors = Errors{}
}

// Submitting indica si hay un envío en curso.
func (s *FormState) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Submit valida y, solo si no hay errores, invoca submit con los valores de los
// campos visibles y editables. Con errores devuelve *ValidationError sin llamar
// a submit. El estado queda libre durante submit para que éste pueda volcar
// los errores del servidor con SetErrors.
func (s *FormState) Submit(ctx context.Context, submit func(ctx context.Context, values Values) error) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	errs := s.validator.Validate(s.fields, s.values)
	s.errors = errs
	if errs.Any() {
		s.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	payload := Values{}
	for _, f := range s.fields {
		if f.ReadOnly || f.Hidden {
			continue
		}
		if v, ok := s.values[f.Name]; ok && Visible(f, s.values) {
			payload[f.Name] = v
		}
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()
	return submit(ctx, payload)
}
