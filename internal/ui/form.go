package ui

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
)

// validate checks form and request structs before anything is sent. Field
// names in messages come from the `label` tag when present.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "number", "numeric":
		return name + " must be a whole number"
	case "datetime":
		return name + " must be a date (YYYY-MM-DD)"
	case "oneof":
		return name + " must be one of " + fe.Param()
	case "gte":
		return name + " must be at least " + fe.Param()
	case "gt":
		return name + " must be greater than " + fe.Param()
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

// formField is one labelled input. Fields with choices cycle through them
// with left/right instead of accepting text.
type formField struct {
	label   string
	input   textinput.Model
	choices []string
}

func textField(label, value, placeholder string) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.Width = 36
	in.SetValue(value)
	return formField{label: label, input: in}
}

func secretField(label, placeholder string) formField {
	f := textField(label, "", placeholder)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func choiceField(label, value string, choices []string) formField {
	f := textField(label, value, "")
	if value == "" && len(choices) > 0 {
		f.input.SetValue(choices[0])
	}
	f.choices = choices
	return f
}

func (f *formField) cycle(step int) {
	if len(f.choices) == 0 {
		return
	}
	idx := 0
	for i, c := range f.choices {
		if c == f.input.Value() {
			idx = i
			break
		}
	}
	idx = (idx + step + len(f.choices)) % len(f.choices)
	f.input.SetValue(f.choices[idx])
}

// submitFunc receives trimmed field values in field order. A non-nil error
// keeps the form open and is shown under the fields.
type submitFunc func(values []string) (tea.Cmd, error)

// formModal is a multi-field input dialog.
type formModal struct {
	title  string
	fields []formField
	focus  int
	err    string
	submit submitFunc
}

func newFormModal(title string, submit submitFunc, fields ...formField) *formModal {
	f := &formModal{title: title, fields: fields, submit: submit}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *formModal) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

func (f *formModal) move(step int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + step + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, false
	}

	switch {
	case key.Matches(km, keys.Escape):
		return f, nil, true

	case key.Matches(km, keys.Confirm):
		cmd, err := f.submit(f.values())
		if err != nil {
			f.err = validationMessage(err)
			return f, nil, false
		}
		return f, cmd, true

	case km.String() == "tab", km.String() == "down":
		f.move(1)
		return f, nil, false

	case km.String() == "shift+tab", km.String() == "up":
		f.move(-1)
		return f, nil, false
	}

	if len(f.fields) == 0 {
		return f, nil, false
	}
	field := &f.fields[f.focus]
	if len(field.choices) > 0 {
		switch km.String() {
		case "left", "h":
			field.cycle(-1)
		case "right", "l", " ":
			field.cycle(1)
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	field.input, cmd = field.input.Update(km)
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, len([]rune(field.label))+2)
	}

	var b strings.Builder
	for i, field := range f.fields {
		label := padRight(field.label+":", labelWidth)
		if i == f.focus {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		if len(field.choices) > 0 {
			b.WriteString(styles.Text.Render("‹ " + field.input.Value() + " ›"))
		} else {
			b.WriteString(field.input.View())
		}
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))

	return renderModalBox(theme, f.title, b.String(), 64, width, height)
}
