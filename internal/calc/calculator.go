package calc

import (
	"image"
	"strconv"

	log "github.com/sirupsen/logrus"

	"calculator/internal/logging"
	"calculator/internal/models"
)

const (
	MsgModelNotLoaded = "Model not loaded"
	MsgRunError       = "Run error: "
)

type Command int

const (
	CmdClear Command = iota
	CmdBackspace
	CmdAdd
	CmdSubtract
	CmdMultiply
	CmdDivide
	CmdEquals
	CmdPredict
)

var commandNames = map[Command]string{
	CmdClear:     "C",
	CmdBackspace: "⌫",
	CmdAdd:       "+",
	CmdSubtract:  "-",
	CmdMultiply:  "*",
	CmdDivide:    "/",
	CmdEquals:    "=",
	CmdPredict:   "Predict",
}

func (c Command) String() string { return commandNames[c] }

// Commands lists every command in button order.
var Commands = []Command{CmdClear, CmdBackspace, CmdAdd, CmdSubtract, CmdMultiply, CmdDivide, CmdEquals, CmdPredict}

// Canvas is the drawing surface the calculator reads digits from.
type Canvas interface {
	Export(width, height int) image.Image
	Clear()
}

// Recognizer turns a 28x28 drawing into a digit.
type Recognizer interface {
	Recognize(img image.Image) models.InferenceResult
}

// Calculator owns the expression buffer and maps each command to one
// buffer mutation. It is driven from a single goroutine.
type Calculator struct {
	buffer string

	canvas     Canvas
	recognizer Recognizer
	log        *log.Entry

	handlers map[Command]func()
}

// New builds a calculator. A nil recognizer means the model failed to load
// and every predict reports MsgModelNotLoaded.
func New(canvas Canvas, rec Recognizer, entry *log.Entry) *Calculator {
	if entry == nil {
		entry = log.NewEntry(log.StandardLogger())
	}

	c := &Calculator{canvas: canvas, recognizer: rec, log: entry}
	c.handlers = map[Command]func(){
		CmdClear:     c.clear,
		CmdBackspace: c.backspace,
		CmdAdd:       func() { c.appendOperator("+") },
		CmdSubtract:  func() { c.appendOperator("-") },
		CmdMultiply:  func() { c.appendOperator("*") },
		CmdDivide:    func() { c.appendOperator("/") },
		CmdEquals:    c.equals,
		CmdPredict:   c.predict,
	}
	return c
}

// Do runs cmd and returns the resulting buffer.
func (c *Calculator) Do(cmd Command) string {
	if h, ok := c.handlers[cmd]; ok {
		h()
	}
	return c.buffer
}

func (c *Calculator) Text() string { return c.buffer }

// SetText replaces the buffer, e.g. after the user edits the display.
func (c *Calculator) SetText(s string) { c.buffer = s }

func (c *Calculator) clear() {
	c.buffer = ""
	if c.canvas != nil {
		c.canvas.Clear()
	}
}

func (c *Calculator) backspace() {
	if c.buffer == "" {
		return
	}
	r := []rune(c.buffer)
	c.buffer = string(r[:len(r)-1])
}

func (c *Calculator) appendOperator(sym string) {
	c.buffer += " " + sym + " "
}

func (c *Calculator) equals() {
	out, err := Equals(c.buffer)
	if err != nil {
		c.log.WithError(err).WithField("expression", c.buffer).Warn("[Calc] Couldn't evaluate")
		c.buffer = MsgRunError + err.Error()
		return
	}
	c.buffer = out
}

func (c *Calculator) predict() {
	if c.recognizer == nil {
		c.buffer = MsgModelNotLoaded
		return
	}

	img := c.canvas.Export(models.ImgSize, models.ImgSize)
	res := c.recognizer.Recognize(img)
	if !res.Ok() {
		logging.Report(c.log, res.Err, "[Calc] Couldn't recognize digit")
		c.buffer = MsgRunError + res.Err.Error()
		return
	}

	c.log.WithField("digit", res.Digit).Debug("[Calc] recognized")
	c.buffer += strconv.Itoa(res.Digit)
	c.canvas.Clear()
}
