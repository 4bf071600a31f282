// Package termui is a minimal terminal editing surface for a single
// JSON document. It exists to exercise the bridge end to end: every
// keystroke mutates the buffer, the bridge validates after the debounce
// delay, and the resulting markers are rendered in the gutter and the
// status line. Ctrl+F formats the document through the formatting
// adapter.
package termui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/dshills/jsonbridge/internal/bridge"
	"github.com/dshills/jsonbridge/internal/editor"
)

// UI renders one buffer and routes keystrokes into it.
type UI struct {
	screen  tcell.Screen
	buf     *editor.Buffer
	session *bridge.Session
	markers *editor.MarkerStore

	lines []string
	// Cursor, zero-based over lines/bytes.
	curLine int
	curCol  int
	scroll  int

	savePath string
}

// New creates a UI over the buffer. savePath, if non-empty, is where
// Ctrl+S writes the buffer.
func New(buf *editor.Buffer, session *bridge.Session, markers *editor.MarkerStore, savePath string) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	return &UI{
		screen:   screen,
		buf:      buf,
		session:  session,
		markers:  markers,
		lines:    splitLines(buf.Text()),
		savePath: savePath,
	}, nil
}

// Run initializes the terminal and processes events until quit.
func (ui *UI) Run() error {
	if err := ui.screen.Init(); err != nil {
		return err
	}
	defer ui.screen.Fini()

	// Wake up periodically so freshly published markers get drawn even
	// without input.
	quitTick := make(chan struct{})
	defer close(quitTick)
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-quitTick:
				return
			case <-ticker.C:
				ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ui.draw()

		switch ev := ui.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ui.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw only.
		case *tcell.EventKey:
			if done := ui.handleKey(ev); done {
				return nil
			}
		}
	}
}

// handleKey applies one keystroke. Returns true to quit.
func (ui *UI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlS:
		ui.save()
	case tcell.KeyCtrlF:
		ui.format()
	case tcell.KeyEnter:
		line := ui.lines[ui.curLine]
		ui.lines[ui.curLine] = line[:ui.curCol]
		rest := line[ui.curCol:]
		ui.lines = append(ui.lines[:ui.curLine+1], append([]string{rest}, ui.lines[ui.curLine+1:]...)...)
		ui.curLine++
		ui.curCol = 0
		ui.sync()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ui.backspace()
	case tcell.KeyLeft:
		if ui.curCol > 0 {
			ui.curCol--
		}
	case tcell.KeyRight:
		if ui.curCol < len(ui.lines[ui.curLine]) {
			ui.curCol++
		}
	case tcell.KeyUp:
		if ui.curLine > 0 {
			ui.curLine--
			ui.clampCol()
		}
	case tcell.KeyDown:
		if ui.curLine < len(ui.lines)-1 {
			ui.curLine++
			ui.clampCol()
		}
	case tcell.KeyRune:
		line := ui.lines[ui.curLine]
		ui.lines[ui.curLine] = line[:ui.curCol] + string(ev.Rune()) + line[ui.curCol:]
		ui.curCol += len(string(ev.Rune()))
		ui.sync()
	}
	return false
}

func (ui *UI) backspace() {
	if ui.curCol > 0 {
		line := ui.lines[ui.curLine]
		ui.lines[ui.curLine] = line[:ui.curCol-1] + line[ui.curCol:]
		ui.curCol--
		ui.sync()
		return
	}
	if ui.curLine > 0 {
		current := ui.lines[ui.curLine]
		prev := ui.lines[ui.curLine-1]
		ui.lines = append(ui.lines[:ui.curLine], ui.lines[ui.curLine+1:]...)
		ui.curLine--
		ui.curCol = len(prev)
		ui.lines[ui.curLine] = prev + current
		ui.sync()
	}
}

// sync pushes the local line state into the shared buffer, which in turn
// notifies the bridge's validator.
func (ui *UI) sync() {
	ui.buf.SetText(strings.Join(ui.lines, "\n"))
}

func (ui *UI) clampCol() {
	if ui.curCol > len(ui.lines[ui.curLine]) {
		ui.curCol = len(ui.lines[ui.curLine])
	}
}

// format runs the formatting adapter and applies the edits.
func (ui *UI) format() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	edits, err := ui.session.Formatting().FormatDocument(ctx, ui.buf, editor.FormattingOptions{})
	if err != nil {
		log.Warn().Err(err).Msg("termui: format failed")
		return
	}
	if len(edits) == 0 {
		return
	}

	ui.buf.ApplyEdits(edits)
	ui.lines = splitLines(ui.buf.Text())
	if ui.curLine >= len(ui.lines) {
		ui.curLine = len(ui.lines) - 1
	}
	ui.clampCol()
}

func (ui *UI) save() {
	if ui.savePath == "" {
		return
	}
	ui.session.Flush(ui.buf)
	if err := os.WriteFile(ui.savePath, []byte(ui.buf.Text()), 0o644); err != nil {
		log.Warn().Err(err).Str("path", ui.savePath).Msg("termui: save failed")
	}
}

// draw renders the buffer, a marker gutter, and the status line.
func (ui *UI) draw() {
	ui.screen.Clear()
	width, height := ui.screen.Size()
	textRows := height - 1
	if textRows < 1 {
		textRows = 1
	}

	if ui.curLine < ui.scroll {
		ui.scroll = ui.curLine
	}
	if ui.curLine >= ui.scroll+textRows {
		ui.scroll = ui.curLine - textRows + 1
	}

	markers := ui.markers.Markers(ui.session.Diagnostics().Owner(), ui.buf.URI())
	markerLines := make(map[int]editor.MarkerSeverity)
	for _, m := range markers {
		line := m.Range.StartLineNumber - 1
		if sev, ok := markerLines[line]; !ok || m.Severity > sev {
			markerLines[line] = m.Severity
		}
	}

	base := tcell.StyleDefault
	errStyle := base.Foreground(tcell.ColorRed)
	warnStyle := base.Foreground(tcell.ColorYellow)

	for row := 0; row < textRows; row++ {
		lineNum := ui.scroll + row
		if lineNum >= len(ui.lines) {
			break
		}

		gutter := ' '
		gutterStyle := base
		if sev, ok := markerLines[lineNum]; ok {
			gutter = '●'
			gutterStyle = warnStyle
			if sev == editor.MarkerError {
				gutterStyle = errStyle
			}
		}
		ui.screen.SetContent(0, row, gutter, nil, gutterStyle)

		col := 2
		for _, r := range ui.lines[lineNum] {
			if col >= width {
				break
			}
			ui.screen.SetContent(col, row, r, nil, base)
			col++
		}
	}

	status := fmt.Sprintf(" %s  %d:%d", ui.buf.URI(), ui.curLine+1, ui.curCol+1)
	if len(markers) > 0 {
		first := markers[0]
		status += fmt.Sprintf("  %s %d:%d %s",
			first.Severity, first.Range.StartLineNumber, first.Range.StartColumn, first.Message)
	} else {
		status += "  no problems"
	}
	statusStyle := base.Reverse(true)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		ui.screen.SetContent(x, height-1, r, nil, statusStyle)
	}

	ui.screen.ShowCursor(ui.curCol+2, ui.curLine-ui.scroll)
	ui.screen.Show()
}

// splitLines splits text into lines, preserving empty lines.
func splitLines(text string) []string {
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
