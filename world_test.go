package amoebawars

import (
	"errors"
	"math"
	"testing"
)

func newTestWorld(t *testing.T, shapes ...Shape) *World {
	t.Helper()
	w, err := NewWorld(DefaultParams(), 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range shapes {
		if _, err := w.Spawn(s); err != nil {
			t.Fatalf("spawning %+v: %v", s, err)
		}
	}
	return w
}

// defaultScene is the arena of the game: the player and seven others.
var defaultScene = []Shape{
	{Vertices: 200, Radius: 25, Center: V(0, -100, 0)},
	{Vertices: 60, Radius: 50, Center: V(0, -300, 400)},
	{Vertices: 60, Radius: 20, Center: V(-400, -400, 400)},
	{Vertices: 60, Radius: 20, Center: V(200, -100, -200)},
	{Vertices: 60, Radius: 10, Center: V(-200, -300, 200)},
	{Vertices: 60, Radius: 40, Center: V(280, -100, -100)},
	{Vertices: 60, Radius: 26, Center: V(-350, -300, 350)},
	{Vertices: 60, Radius: 24, Center: V(-200, -300, 120)},
}

func TestNewWorldRejectsParams(t *testing.T) {
	p := DefaultParams()
	p.VertexDamping = 1.5
	if _, err := NewWorld(p, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("got=%v want=%v", err, ErrInvalidConfiguration)
	}
}

func TestSpawnPlayerFirst(t *testing.T) {
	w := newTestWorld(t, defaultScene...)
	if w.PlayerID() != 0 {
		t.Fatalf("player got=%d want=0", w.PlayerID())
	}
	want := []Kind{Player, Enemy, Food, Food, Food, Enemy, Enemy, Food}
	for i, a := range w.Amoebas() {
		if a.ID() != ID(i) {
			t.Fatalf("amoeba %d: id got=%d", i, a.ID())
		}
		if a.Kind() != want[i] {
			t.Fatalf("amoeba %d: kind got=%s want=%s", i, a.Kind(), want[i])
		}
	}
	if got := w.VertexCount(); got != 200+7*60 {
		t.Fatalf("vertices got=%d want=%d", got, 200+7*60)
	}
}

func TestStepRejects(t *testing.T) {
	w := newTestWorld(t)
	if err := w.Step(1, 1, nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("empty world: got=%v want=%v", err, ErrInvalidConfiguration)
	}
	w = newTestWorld(t, defaultScene[0])
	for _, c := range []struct {
		difficulty, timeScale float64
	}{
		{0.1, 1},
		{2.5, 1},
		{math.NaN(), 1},
		{1, -1},
		{1, math.NaN()},
		{1, math.Inf(1)},
	} {
		if err := w.Step(c.difficulty, c.timeScale, nil); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("difficulty %g time scale %g: got=%v want=%v", c.difficulty, c.timeScale, err, ErrInvalidConfiguration)
		}
	}
	if w.Clock().Steps != 0 {
		t.Fatalf("rejected steps advanced the clock: steps=%d", w.Clock().Steps)
	}
}

func TestClockWraps(t *testing.T) {
	w := newTestWorld(t, Shape{Vertices: 60, Radius: 20, Center: V(0, -100, 0)})
	p := w.Params()
	for i := 1; i <= p.FrameWrap; i++ {
		if err := w.Step(1, 1, nil); err != nil {
			t.Fatal(err)
		}
		if w.Clock().Frame != i {
			t.Fatalf("frame got=%d want=%d", w.Clock().Frame, i)
		}
	}
	if err := w.Step(1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if w.Clock().Frame != 0 {
		t.Fatalf("frame got=%d want=0", w.Clock().Frame)
	}
	if w.Clock().Steps != p.FrameWrap+1 {
		t.Fatalf("steps got=%d want=%d", w.Clock().Steps, p.FrameWrap+1)
	}
}

func TestPlayerEatsFood(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(0, -100, 10)},
	)
	if err := w.Step(1, 1, nil); err != nil {
		t.Fatal(err)
	}
	pl, food := w.Amoeba(0), w.Amoeba(1)
	if got := pl.HP(); math.Abs(got-1.0025) > 1e-12 {
		t.Fatalf("player hp got=%f want=1.0025", got)
	}
	if got := food.HP(); math.Abs(got-0.9975) > 1e-12 {
		t.Fatalf("food hp got=%f want=0.9975", got)
	}
	if got := pl.Radius(); math.Abs(got-25*1.0025) > 1e-9 {
		t.Fatalf("player radius got=%f want=%f", got, 25*1.0025)
	}
	if w.Outcome() != Won {
		t.Fatalf("outcome got=%s want=%s", w.Outcome(), Won)
	}
}

func TestEnemyDrainsPlayer(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 30, Center: V(0, -100, 20)},
	)
	if err := w.Step(2, 1, nil); err != nil {
		t.Fatal(err)
	}
	p := w.Params()
	if got, want := w.Amoeba(0).HP(), 1-p.EnemyDrain*2; math.Abs(got-want) > 1e-12 {
		t.Fatalf("player hp got=%f want=%f", got, want)
	}
	if got, want := w.Amoeba(1).HP(), 1+p.EnemyGain; math.Abs(got-want) > 1e-12 {
		t.Fatalf("enemy hp got=%f want=%f", got, want)
	}
	if w.Outcome() != Lost {
		t.Fatalf("outcome got=%s want=%s", w.Outcome(), Lost)
	}
}

func TestFoodGainScalesWithDifficulty(t *testing.T) {
	for _, d := range []float64{0.2, 1, 2} {
		w := newTestWorld(t,
			Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
			Shape{Vertices: 60, Radius: 10, Center: V(0, -100, 10)},
		)
		if err := w.Step(d, 1, nil); err != nil {
			t.Fatal(err)
		}
		want := 1 + w.Params().FoodGain*(2-d)
		if got := w.Amoeba(0).HP(); math.Abs(got-want) > 1e-12 {
			t.Fatalf("difficulty %g: player hp got=%f want=%f", d, got, want)
		}
	}
}

func TestKindsFollowPlayer(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 20, Center: V(300, -100, 0)},
		Shape{Vertices: 60, Radius: 30, Center: V(-300, -100, 0)},
	)
	check := func() {
		t.Helper()
		pl := w.Player()
		for _, a := range w.Amoebas()[1:] {
			want := Enemy
			if a.Radius() <= pl.Radius() {
				want = Food
			}
			if a.Kind() != want {
				t.Fatalf("amoeba %d radius %f, player %f: kind got=%s want=%s",
					a.ID(), a.Radius(), pl.Radius(), a.Kind(), want)
			}
			if a.Kind() == Food && a.Speed() > w.Params().FoodSpeedRatio*pl.Speed() {
				t.Fatalf("amoeba %d: food speed got=%f above %f", a.ID(), a.Speed(), w.Params().FoodSpeedRatio*pl.Speed())
			}
		}
	}
	check()
	w.ChangeHP(0, -0.3)
	check()
	if w.Amoeba(1).Kind() != Enemy {
		t.Fatalf("smaller player: kind got=%s want=%s", w.Amoeba(1).Kind(), Enemy)
	}
	w.ChangeHP(0, 0.8)
	check()
	if w.Amoeba(2).Kind() != Food {
		t.Fatalf("larger player: kind got=%s want=%s", w.Amoeba(2).Kind(), Food)
	}
	w.ChangeHP(2, 0.5)
	check()
}

func TestDeathIsFinal(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(0, -100, 10)},
		Shape{Vertices: 60, Radius: 40, Center: V(400, -100, 0)},
	)
	food := w.Amoeba(1)
	for i := 0; i < 20 && food.Alive(); i++ {
		w.ChangeHP(1, -0.1)
	}
	if food.Alive() {
		t.Fatalf("food still alive with radius %f", food.Radius())
	}
	if food.Radius() > w.Params().DeathRadius {
		t.Fatalf("dead radius got=%f want at most %f", food.Radius(), w.Params().DeathRadius)
	}
	radius := food.Radius()
	w.ChangeHP(1, 5)
	if food.Alive() || food.Radius() != radius {
		t.Fatalf("dead amoeba came back: alive=%t radius=%f", food.Alive(), food.Radius())
	}
	if food.Target() != w.Params().Sentinel {
		t.Fatalf("target got=%v want=%v", food.Target(), w.Params().Sentinel)
	}

	// the player sits on the dead food but gains nothing from it
	hp := w.Player().HP()
	vertex := food.Vertices()[0].Position()
	for i := 0; i < 10; i++ {
		if err := w.Step(1, 1, nil); err != nil {
			t.Fatal(err)
		}
	}
	if w.Player().HP() != hp {
		t.Fatalf("player hp got=%f want=%f", w.Player().HP(), hp)
	}
	if food.Vertices()[0].Position() != vertex {
		t.Fatalf("dead amoeba moved")
	}
	if w.Outcome() != Lost {
		t.Fatalf("outcome got=%s want=%s", w.Outcome(), Lost)
	}
}

func TestOutcome(t *testing.T) {
	for _, c := range []struct {
		name   string
		others []float64
		want   Outcome
	}{
		{"alone", nil, Won},
		{"only food", []float64{10, 20}, Won},
		{"only enemies", []float64{30, 40}, Lost},
		{"both", []float64{10, 40}, InProgress},
	} {
		shapes := []Shape{{Vertices: 60, Radius: 25, Center: V(0, -100, 0)}}
		for i, r := range c.others {
			shapes = append(shapes, Shape{Vertices: 60, Radius: r, Center: V(float64(i+1)*500, -100, 0)})
		}
		w := newTestWorld(t, shapes...)
		if err := w.Step(1, 1, nil); err != nil {
			t.Fatal(err)
		}
		if w.Outcome() != c.want {
			t.Fatalf("%s: outcome got=%s want=%s", c.name, w.Outcome(), c.want)
		}
	}
}

func TestPlayerDeathLoses(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(500, -100, 0)},
	)
	if err := w.Step(1, 1, nil); err != nil {
		t.Fatal(err)
	}
	w.ChangeHP(0, -0.9)
	if w.Player().Alive() {
		t.Fatalf("player alive with radius %f", w.Player().Radius())
	}
	if w.Outcome() != Lost {
		t.Fatalf("outcome got=%s want=%s", w.Outcome(), Lost)
	}
	if err := w.Step(1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if w.Outcome() != Lost {
		t.Fatalf("outcome after step got=%s want=%s", w.Outcome(), Lost)
	}
}

func TestPlayerIntent(t *testing.T) {
	w := newTestWorld(t, Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)})
	start := w.Player().Target()
	for i := 0; i < 30; i++ {
		if err := w.Step(1, 1.5, Intents{0: V(0, 0, 2)}); err != nil {
			t.Fatal(err)
		}
	}
	if got := w.Player().Target().Z() - start.Z(); got <= 0 {
		t.Fatalf("target moved by %f along z, want forward", got)
	}

	// non-finite intents are ignored
	w = newTestWorld(t, Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)})
	if err := w.Step(1, 1, Intents{0: V(math.NaN(), 0, 0)}); err != nil {
		t.Fatal(err)
	}
	if !finite(w.Player().Target()) {
		t.Fatalf("target got=%v", w.Player().Target())
	}
}

func TestPulse(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(500, -100, 0)},
	)
	p := w.Params()
	for w.Clock().Frame != p.PulsePeriod {
		if err := w.Step(1, 1, nil); err != nil {
			t.Fatal(err)
		}
	}
	w.ChangeHP(0, 0.01)
	if w.Pulse() != PulseHeal {
		t.Fatalf("pulse got=%v want=%v", w.Pulse(), PulseHeal)
	}
	// no hp change during the next frame resets the pulse
	if err := w.Step(1, 1, nil); err != nil {
		t.Fatal(err)
	}
	if w.Pulse() != PulseNone {
		t.Fatalf("pulse got=%v want=%v", w.Pulse(), PulseNone)
	}
}

func TestDefaultSceneStaysFinite(t *testing.T) {
	w := newTestWorld(t, defaultScene...)
	for i := 0; i < 600; i++ {
		var intents Intents
		if i%200 < 100 {
			intents = Intents{w.PlayerID(): V(0, 0, 2)}
		}
		if err := w.Step(1, 1.5, intents); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range w.Amoebas() {
		if !finite(a.Center()) || !finite(a.Target()) {
			t.Fatalf("amoeba %d: center %v target %v", a.ID(), a.Center(), a.Target())
		}
		for i, v := range a.Vertices() {
			if !finite(v.Position()) || !finite(v.Velocity()) {
				t.Fatalf("amoeba %d vertex %d: position %v velocity %v", a.ID(), i, v.Position(), v.Velocity())
			}
		}
	}
}

func TestSameSeedSameWorld(t *testing.T) {
	a := newTestWorld(t, defaultScene...)
	b := newTestWorld(t, defaultScene...)
	for i := 0; i < 50; i++ {
		if err := a.Step(1, 1.5, nil); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(1, 1.5, nil); err != nil {
			t.Fatal(err)
		}
	}
	for i := range a.Amoebas() {
		if a.Amoebas()[i].Center() != b.Amoebas()[i].Center() {
			t.Fatalf("amoeba %d: centers differ", i)
		}
	}
}

func TestSeparate(t *testing.T) {
	for _, c := range []struct {
		name   string
		x      float64 // center of the second food, the first sits at 500
		pushed bool
	}{
		{"overlap", 510, true},
		{"apart", 525, false},
	} {
		w := newTestWorld(t,
			Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
			Shape{Vertices: 60, Radius: 10, Center: V(500, -100, 0)},
			Shape{Vertices: 60, Radius: 10, Center: V(c.x, -100, 0)},
		)
		p := w.Params()
		a, b := w.Amoeba(1), w.Amoeba(2)
		w.snapshot()
		a.vel, b.vel = Vec3{}, Vec3{}
		w.separate(a)
		w.separate(b)

		var wantA, wantB Vec3
		if c.pushed {
			d := c.x - 500
			wantA = V(-d*a.Speed()*p.PushScale, 0, 0)
			wantB = V(d*b.Speed()*p.PushScale, 0, 0)
		}
		if Dist(a.Velocity(), wantA) > 1e-12 || Dist(b.Velocity(), wantB) > 1e-12 {
			t.Fatalf("%s: velocities got=%v,%v want=%v,%v", c.name, a.Velocity(), b.Velocity(), wantA, wantB)
		}

		// dead amoebas push nothing
		w.ChangeHP(b.ID(), -1)
		if b.Alive() {
			t.Fatalf("%s: amoeba %d still alive", c.name, b.ID())
		}
		w.snapshot()
		a.vel = Vec3{}
		w.separate(a)
		if a.Velocity() != (Vec3{}) {
			t.Fatalf("%s: pushed by a dead amoeba: velocity got=%v", c.name, a.Velocity())
		}
	}
}

func TestSwimWindows(t *testing.T) {
	p := DefaultParams()
	for _, c := range []struct {
		frame          int
		others, player bool
	}{
		{0, true, true},
		{59, true, true},
		{60, false, false},
		{90, false, false},
		{91, false, true},
		{119, false, true},
		{120, true, true},
		{149, true, true},
		{150, true, false},
		{180, false, false},
	} {
		clk := Clock{Frame: c.frame}
		if got := clk.swimming(&p); got != c.others {
			t.Fatalf("frame %d: swimming got=%t want=%t", c.frame, got, c.others)
		}
		if got := clk.playerSwimming(&p); got != c.player {
			t.Fatalf("frame %d: player swimming got=%t want=%t", c.frame, got, c.player)
		}
	}
}

func TestSteer(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 30, Center: V(-300, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(100, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(0, -300, 800)},
	)
	enemy, near, high := w.Amoeba(1), w.Amoeba(2), w.Amoeba(3)
	if enemy.Kind() != Enemy || near.Kind() != Food || high.Kind() != Food {
		t.Fatalf("kinds got=%s,%s,%s", enemy.Kind(), near.Kind(), high.Kind())
	}
	p := w.Params()
	for _, frame := range []int{10, 59, 60, 119, 120} {
		w.clock.Frame = frame
		w.snapshot()
		for _, a := range w.Amoebas() {
			a.vel = Vec3{}
			w.steer(a, nil)
		}
		on := w.clock.swimming(&p)

		// enemies chase the player at +x, close food flees toward +x
		for _, a := range []*Amoeba{enemy, near} {
			if got := a.Velocity().X(); on && got <= 0 || !on && got != 0 {
				t.Fatalf("frame %d amoeba %d: x velocity got=%f swimming=%t", frame, a.ID(), got, on)
			}
		}
		// distant food drifts back toward the player at -z
		if got := high.Velocity().Z(); on && got >= 0 || !on && got != 0 {
			t.Fatalf("frame %d: z velocity got=%f swimming=%t", frame, got, on)
		}
		if !on && high.Velocity().Y() != p.CeilingNudge {
			t.Fatalf("frame %d: y velocity got=%f want=%f", frame, high.Velocity().Y(), p.CeilingNudge)
		}
		if near.Velocity().Y() != 0 {
			t.Fatalf("frame %d: low food nudged: y velocity got=%f", frame, near.Velocity().Y())
		}
	}
}

func TestWonHolds(t *testing.T) {
	w := newTestWorld(t,
		Shape{Vertices: 60, Radius: 25, Center: V(0, -100, 0)},
		Shape{Vertices: 60, Radius: 10, Center: V(500, -100, 0)},
	)
	for i := 0; i < 300; i++ {
		if err := w.Step(1, 1.5, nil); err != nil {
			t.Fatal(err)
		}
		if w.Outcome() != Won {
			t.Fatalf("step %d: outcome got=%s want=%s", i, w.Outcome(), Won)
		}
	}
}
