package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/app"
	"github.com/coreman2200/funtimes-emotive/internal/config"
	"github.com/coreman2200/funtimes-emotive/internal/emotive"
	"github.com/coreman2200/funtimes-emotive/internal/gesture"
	"github.com/coreman2200/funtimes-emotive/internal/particle"
	"github.com/coreman2200/funtimes-emotive/internal/render"
)

const help = "1-9 emotion  u undertone  g gesture  c chain  s shape  b beat  r rec  p play  x stop  q quit"

var undertones = []string{"none", "nervous", "confident", "tired", "intense", "subdued"}

type spark struct {
	site particle.Site
	born float64
}

type view struct {
	screen tcell.Screen
	core   *app.Core
	frame  *render.Frame

	emotions []string
	chains   []string
	gestures []gesture.Kind
	sparks   []spark
	lastKey  string

	undertoneIdx, gestureIdx, chainIdx, shapeIdx int
}

func main() {
	configPath := flag.String("config", "", "optional config.yaml")
	fps := flag.Int("fps", 30, "frames per second")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		cfg = c
	}

	// The screen owns the terminal, so the core logs nowhere.
	core, err := app.NewCore(app.Options{Config: cfg, Log: zerolog.Nop()})
	if err != nil {
		fmt.Fprintln(os.Stderr, "core:", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "screen:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := &view{
		screen:   screen,
		core:     core,
		emotions: core.Emotions(),
		chains:   core.Chains(),
		gestures: gesture.Kinds(),
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	if *fps <= 0 {
		*fps = 30
	}
	dt := time.Second / time.Duration(*fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
				v.key(ev.Rune())
			}
		case <-ticker.C:
			f, _ := core.Step(dt)
			v.frame = f
			v.draw()
		}
	}
}

func (v *view) key(r rune) {
	c := v.core
	switch {
	case r >= '1' && r <= '9':
		i := int(r - '1')
		if i < len(v.emotions) {
			c.SetEmotion(v.emotions[i], emotive.EmotionOptions{Undertone: undertones[v.undertoneIdx]})
			v.lastKey = "emotion " + v.emotions[i]
		}
	case r == 'u':
		v.undertoneIdx = (v.undertoneIdx + 1) % len(undertones)
		c.SetUndertone(undertones[v.undertoneIdx])
		v.lastKey = "undertone " + undertones[v.undertoneIdx]
	case r == 'g':
		k := v.gestures[v.gestureIdx%len(v.gestures)]
		v.gestureIdx++
		c.TriggerGesture(k.String())
		v.lastKey = "gesture " + k.String()
	case r == 'c' && len(v.chains) > 0:
		name := v.chains[v.chainIdx%len(v.chains)]
		v.chainIdx++
		c.Chain(name)
		v.lastKey = "chain " + name
	case r == 's':
		name := app.Shapes[v.shapeIdx%len(app.Shapes)]
		v.shapeIdx++
		c.SetShape(name)
		v.lastKey = "shape " + name
	case r == 'b':
		c.Beat()
		v.lastKey = "beat"
	case r == 'r':
		if c.Status().Recording {
			ev := c.StopRecording()
			v.lastKey = fmt.Sprintf("recorded %d events", len(ev))
		} else {
			c.StartRecording()
			v.lastKey = "recording"
		}
	case r == 'p':
		c.Play(nil)
		v.lastKey = "playing"
	case r == 'x':
		c.StopPlayback()
		c.StopChains()
		v.lastKey = "stopped"
	}
}

func (v *view) draw() {
	s := v.screen
	s.Clear()
	f := v.frame
	if f == nil {
		s.Show()
		return
	}
	w, h := s.Size()
	canvas := v.core.Config().Particles

	for _, site := range f.Spawn.Sites {
		v.sparks = append(v.sparks, spark{site: site, born: f.T})
	}
	live := v.sparks[:0]
	for _, sp := range v.sparks {
		if f.T-sp.born < app.ParticleLifetime.Seconds() {
			live = append(live, sp)
		}
	}
	v.sparks = live

	core := tcell.ColorWhite
	if len(f.Pixels) > 0 {
		core = toColor(f.Pixels[0])
	}
	for _, sp := range v.sparks {
		x := int(sp.site.X / canvas.Width * float64(w))
		y := int(sp.site.Y / canvas.Height * float64(h-3))
		if x >= 0 && x < w && y >= 0 && y < h-3 {
			s.SetContent(x, y, '*', nil, tcell.StyleDefault.Foreground(core))
		}
	}

	// halo ring, core in the middle
	cx, cy := w/2, (h-3)/2
	for i := len(f.Pixels) - 1; i >= 0; i-- {
		r := i / 4
		style := tcell.StyleDefault.Background(toColor(f.Pixels[i]))
		for dx := -r * 2; dx <= r*2; dx++ {
			for _, dy := range []int{-r, r} {
				put(s, cx+dx, cy+dy, ' ', style, w, h)
			}
		}
		for dy := -r; dy <= r; dy++ {
			put(s, cx-r*2, cy+dy, ' ', style, w, h)
			put(s, cx+r*2, cy+dy, ' ', style, w, h)
		}
	}

	st := f.State
	line := fmt.Sprintf("%s/%s  %3.0f%%  %s  shape=%s  particles=%d  dominant=%s",
		st.Emotion, orNone(st.Undertone), st.TransitionProgress*100, st.Properties.ParticleBehavior,
		orNone(f.Shape), v.core.Status().Particles, f.Emotional.Dominant)
	text(s, 0, h-3, line)
	text(s, 0, h-2, v.lastKey)
	text(s, 0, h-1, help)
	s.Show()
}

func put(s tcell.Screen, x, y int, r rune, style tcell.Style, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h-3 {
		s.SetContent(x, y, r, nil, style)
	}
}

func text(s tcell.Screen, x, y int, str string) {
	for i, r := range []rune(str) {
		s.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

func toColor(c render.Color) tcell.Color {
	b := render.RGB([]render.Color{c})
	return tcell.NewRGBColor(int32(b[0]), int32(b[1]), int32(b[2]))
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
