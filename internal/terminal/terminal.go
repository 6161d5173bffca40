package terminal

import (
	"unicode/utf8"

	"box-scene/internal/commands"
	"box-scene/internal/input"
	"box-scene/internal/logger"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Number of log lines drawn above the input bar when the terminal is open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxHistory       = 50
)

var (
	barColor  = rl.NewColor(40, 40, 40, 255)
	barEdge   = rl.NewColor(80, 80, 80, 255)
	historyBg = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the command bar at the bottom of the screen, toggled with ESC. While open it takes
// the keyboard and keeps pointer input over it away from the camera. "cmd ..." lines run through
// the command registry; everything else is just logged.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	inputBuf string
	open     bool
	font     rl.Font // optional; when set, Draw uses DrawTextEx instead of default font

	history []string
	// histPos indexes history while browsing with up/down; len(history) means the fresh line.
	histPos int

	screenW, screenH int
}

// New returns a closed terminal that logs to log and runs commands through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

// IsOpen returns true when the terminal is visible and capturing keyboard input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Toggle opens or closes the terminal.
func (t *Terminal) Toggle() {
	t.open = !t.open
}

// SetFont shares a loaded font with the terminal. A zero texture ID means raylib's default font.
func (t *Terminal) SetFont(font rl.Font) {
	t.font = font
}

// Input returns the line being typed.
func (t *Terminal) Input() string {
	return t.inputBuf
}

// Type appends text to the input line.
func (t *Terminal) Type(s string) {
	t.inputBuf += s
}

// Backspace removes the last rune of the input line.
func (t *Terminal) Backspace() {
	if t.inputBuf == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(t.inputBuf)
	t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
}

// Submit logs the input line and runs it if it is a command. Output and errors go to the log.
func (t *Terminal) Submit() {
	line := t.inputBuf
	t.inputBuf = ""
	if line == "" {
		return
	}
	t.log.Log(prompt + line)
	if len(t.history) == 0 || t.history[len(t.history)-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > maxHistory {
			t.history = t.history[1:]
		}
	}
	t.histPos = len(t.history)

	args, isCmd := commands.Parse(line)
	if !isCmd {
		t.log.Log("not a command; try: cmd help")
		return
	}
	out, err := t.reg.Execute(args)
	if err != nil {
		t.log.Log("error: " + err.Error())
		return
	}
	if out != "" {
		t.log.Log(out)
	}
}

// HistoryPrev replaces the input with the previous submitted line.
func (t *Terminal) HistoryPrev() {
	if t.histPos > 0 {
		t.histPos--
		t.inputBuf = t.history[t.histPos]
	}
}

// HistoryNext moves forward through history, ending on an empty line.
func (t *Terminal) HistoryNext() {
	if t.histPos >= len(t.history) {
		return
	}
	t.histPos++
	if t.histPos == len(t.history) {
		t.inputBuf = ""
		return
	}
	t.inputBuf = t.history[t.histPos]
}

// Update handles ESC (toggle open/closed), and when open: typing, paste, backspace, history, enter.
// It returns true when the terminal is open and the pointer is over it.
func (t *Terminal) Update(in input.State) bool {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.Toggle()
	}
	if !t.open {
		return false
	}
	// Ctrl+V, or Cmd+V on macOS.
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		t.Type(rl.GetClipboardText())
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.Type(string(rune(c)))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		t.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		t.HistoryPrev()
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		t.HistoryNext()
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		t.Submit()
	}
	return t.covers(in.Pointer.X(), in.Pointer.Y())
}

// covers reports whether (x, y) is over the history area or the bar.
func (t *Terminal) covers(x, y float32) bool {
	top := t.screenH - BarHeight - maxLinesOnScreen*lineHeight
	return t.open && y >= float32(max(top, 0)) && x >= 0 && x < float32(t.screenW)
}

// tail returns the last n lines.
func tail(lines []string, n int) []string {
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

// clip shortens a line that would run far past the right edge.
func clip(line string) string {
	const maxLen = 200
	if len(line) <= maxLen {
		return line
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}

// Draw draws the history area and the input bar when the terminal is open.
func (t *Terminal) Draw() {
	t.screenW, t.screenH = rl.GetScreenWidth(), rl.GetScreenHeight()
	if !t.open {
		return
	}
	barY := t.screenH - BarHeight
	histY := max(barY-maxLinesOnScreen*lineHeight, 0)
	if histY < barY {
		rl.DrawRectangle(0, int32(histY), int32(t.screenW), int32(barY-histY), historyBg)
	}
	for i, line := range tail(t.log.Lines(), maxLinesOnScreen) {
		t.drawText(clip(line), padding, histY+i*lineHeight+padding, rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(t.screenW), int32(BarHeight), barColor)
	rl.DrawRectangle(0, int32(barY), int32(t.screenW), 1, barEdge)
	t.drawText(prompt+t.inputBuf+"|", padding, barY+padding, rl.White)
}

func (t *Terminal) drawText(text string, x, y int, c rl.Color) {
	if t.font.Texture.ID != 0 {
		rl.DrawTextEx(t.font, text, rl.NewVector2(float32(x), float32(y)), fontSize, 1, c)
		return
	}
	rl.DrawText(text, int32(x), int32(y), fontSize, c)
}
