package platform

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/gammazero/deque"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/exp/maps"

	"lautenbacher.net/gestureleds/animation"
	c "lautenbacher.net/gestureleds/config"
	g "lautenbacher.net/gestureleds/gesture"
	"lautenbacher.net/gestureleds/logging"
	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

// Keys simulating the gesture sensor.
var keyBindings = map[rune]g.Event{
	'w': g.UP,
	's': g.DOWN,
	'a': g.LEFT,
	'd': g.RIGHT,
	'f': g.FORWARD,
	'b': g.BACKWARD,
	'c': g.CLOCKWISE,
	'x': g.ANTICLOCKWISE,
	'v': g.WAVE,
}

const RING_RADIUS = 5

type TUIPlatform struct {
	*AbstractPlatform
	tviewapp     *tview.Application
	intro        *tview.TextView
	ledDisplay   *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	frames       *u.AtomicEvent[[]r.Led]
	queueMutex   sync.Mutex
	primary      deque.Deque[g.Code]
	secondary    deque.Deque[g.Code]
	present      atomic.Bool
	logFlushOnce sync.Once
	stopChan     chan bool
	redrawWg     sync.WaitGroup
}

func NewTUIPlatform(conf *c.Config, ossignalchan chan os.Signal) *TUIPlatform {
	inst := &TUIPlatform{
		ossignalChan: ossignalchan,
		frames:       u.NewAtomicEvent[[]r.Led](),
		stopChan:     make(chan bool),
	}
	// The simulated ring is drawn in logical order.
	inst.AbstractPlatform = newAbstractPlatform(conf, c.LayoutConfig{}, r.LEDS_TOTAL, u.NewRealClock(), inst.tuiDisplayFunc)
	return inst
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()

	s.redrawWg.Add(1)
	go s.redrawDriver()
	return nil
}

func (s *TUIPlatform) Stop() {
	s.setInShutdown()

	close(s.stopChan)
	s.redrawWg.Wait()

	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

// tuiDisplayFunc runs on the controller goroutine; drawing happens on
// the redraw goroutine, which only ever picks up the newest frame.
func (s *TUIPlatform) tuiDisplayFunc(leds []r.Led) {
	frame := make([]r.Led, len(leds))
	copy(frame, leds)
	s.frames.Send(frame)
}

func (s *TUIPlatform) redrawDriver() {
	defer s.redrawWg.Done()
	for {
		select {
		case <-s.stopChan:
			slog.Info("Ending redraw go-routine")
			return
		case <-s.frames.Channel():
			leds := s.frames.Value()
			s.tviewapp.QueueUpdateDraw(func() {
				s.ledDisplay.SetText(renderRing(leds))
			})
		}
	}
}

// pushKey queues the sensor codes a key stands for. Unbound keys
// return false.
func (s *TUIPlatform) pushKey(key rune) bool {
	e, ok := keyBindings[key]
	if !ok {
		return false
	}
	s.queueMutex.Lock()
	defer s.queueMutex.Unlock()
	if e == g.WAVE {
		s.secondary.PushBack(g.CodeWave)
	} else {
		s.primary.PushBack(g.PrimaryCode(e))
	}
	slog.Debug("Simulated gesture", "gesture", e)
	return true
}

func (s *TUIPlatform) PollPrimary() g.Code {
	s.queueMutex.Lock()
	defer s.queueMutex.Unlock()
	if s.primary.Len() == 0 {
		return g.CodeNone
	}
	return s.primary.PopFront()
}

func (s *TUIPlatform) PollSecondary() g.Code {
	s.queueMutex.Lock()
	defer s.queueMutex.Unlock()
	if s.secondary.Len() == 0 {
		return g.CodeNone
	}
	return s.secondary.PopFront()
}

func (s *TUIPlatform) IsPresent() bool {
	return s.present.Load()
}

func (s *TUIPlatform) togglePresence() bool {
	for {
		old := s.present.Load()
		if s.present.CompareAndSwap(old, !old) {
			slog.Info("Simulated presence", "present", !old)
			return !old
		}
	}
}

// getIntroText generates the text for the top info pane.
func (s *TUIPlatform) getIntroText() string {
	keys := slices.Sorted(maps.Keys(keyBindings))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("[#ff0000]%c[-] %s", k, keyBindings[k]))
	}
	presence := "[#808080]absent[-]"
	if s.present.Load() {
		presence = "[#00ff00]present[-]"
	}
	line1 := strings.Join(parts, "  ")
	line2 := fmt.Sprintf("Presence: %s | Hit [#ff0000]p[-] to toggle", presence)
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"
	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" GESTURELEDS Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	s.ledDisplay = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.ledDisplay.SetBorder(true)
	s.ledDisplay.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))
	s.ledDisplay.SetText(renderRing(make([]r.Led, s.LedsTotal())))

	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 5, 0, false).
		AddItem(s.ledDisplay, 2*RING_RADIUS+3, 0, false).
		AddItem(s.logView, 0, 1, true)

	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			if err := logging.SetOutput(tview.ANSIWriter(s.logView)); err != nil {
				slog.Error("Error flushing logs to TUI", "error", err)
			}
			close(s.readyChan)
		})
	})

	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			key := event.Rune()
			if s.pushKey(key) {
				return nil
			}
			switch key {
			case 'p', 'P':
				s.togglePresence()
				s.intro.SetText(s.getIntroText())
				return nil
			case 'q', 'Q':
				s.ossignalChan <- os.Interrupt
				return nil
			case 'r', 'R':
				s.ossignalChan <- syscall.SIGHUP
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// ringPositions places the pixels on a circle of RING_RADIUS rows,
// clockwise, with the middle of the NORTH quadrant at the top. Columns
// are stretched by two to make up for the character aspect ratio.
func ringPositions(n int) [][2]int {
	start, length := animation.North.Region(n)
	top := float64(start) + float64(length-1)/2
	pos := make([][2]int, n)
	for i := range pos {
		angle := 2 * math.Pi * (float64(i) - top) / float64(n)
		row := RING_RADIUS - int(math.Round(RING_RADIUS*math.Cos(angle)))
		col := 2*RING_RADIUS + int(math.Round(2*RING_RADIUS*math.Sin(angle)))
		pos[i] = [2]int{row, col}
	}
	return pos
}

func renderRing(leds []r.Led) string {
	cells := make([][]string, 2*RING_RADIUS+1)
	for i := range cells {
		cells[i] = make([]string, 4*RING_RADIUS+1)
		for j := range cells[i] {
			cells[i][j] = " "
		}
	}
	for i, p := range ringPositions(len(leds)) {
		if leds[i].IsEmpty() {
			cells[p[0]][p[1]] = "[#404040]·[-]"
		} else {
			cells[p[0]][p[1]] = ledColor(leds[i]) + "●[-]"
		}
	}
	var buf strings.Builder
	for _, row := range cells {
		buf.WriteString(strings.Join(row, ""))
		buf.WriteString("\n")
	}
	return buf.String()
}

func ledColor(led r.Led) string {
	const epsilon = 1e-9
	conv := func(v float64) byte {
		return byte(math.Round(math.Min(math.Max(v, 0), 255) + epsilon))
	}
	return fmt.Sprintf("[#%02x%02x%02x]", conv(led.Red), conv(led.Green), conv(led.Blue))
}
