package cwidget

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
)

// Input is a labelled entry that validates its text into a T and shows the
// last accepted value next to the label.
type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText    string
	DefaultValue T

	OnChanged func(T)
	Validator func(string) (T, error)
}

// NewIntInput accepts integers in [lo, hi]; empty text means the default.
func NewIntInput(label string, defaultValue, lo, hi int, onChanged func(int)) *Input[int] {
	input := &Input[int]{
		LabelText:    label,
		DefaultValue: defaultValue,
		OnChanged:    onChanged,
	}

	input.Validator = func(s string) (int, error) {
		if s == "" {
			return input.DefaultValue, nil
		}

		v, err := strconv.Atoi(s)
		if err != nil {
			return input.DefaultValue, errors.Errorf("%q is not a number", s)
		}
		if v < lo || v > hi {
			return input.DefaultValue, errors.Errorf("must be between %d and %d", lo, hi)
		}
		return v, nil
	}

	input.build(fmt.Sprintf("%d..%d", lo, hi))

	return input
}

func (item *Input[T]) build(placeholder string) {
	item.labelWidget = widget.NewLabel(item.caption(item.DefaultValue))
	item.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	item.entryWidget = widget.NewEntry()
	item.entryWidget.SetPlaceHolder(placeholder)

	item.errorWidget = widget.NewLabel("")
	item.errorWidget.Hidden = true
	item.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	item.errorWidget.Importance = widget.DangerImportance

	item.entryWidget.OnChanged = func(s string) {
		res, err := item.Validator(s)
		item.SetError(err)

		if err == nil {
			if item.OnChanged != nil {
				item.OnChanged(res)
			}
			item.labelWidget.SetText(item.caption(res))
		}
	}

	item.ExtendBaseWidget(item)
}

func (item *Input[T]) caption(v T) string {
	return fmt.Sprintf("%s: %v", item.LabelText, v)
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)

	return widget.NewSimpleRenderer(c)
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
	item.errorWidget.Refresh()
}

func (item *Input[T]) SetText(text string) {
	item.entryWidget.SetText(text)
}

func (item *Input[T]) Label() string {
	return item.labelWidget.Text
}

func (item *Input[T]) Error() string {
	if item.errorWidget.Hidden {
		return ""
	}
	return item.errorWidget.Text
}
