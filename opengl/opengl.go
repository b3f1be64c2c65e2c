//go:build !nogl

package opengl

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/DaveM0820/amoebawars"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Run runs an interactive simulation in an OpenGL window.
// It must be called from the main thread.
func Run(world *amoebawars.World, conf *Config) error {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	title, width, height := conf.Title, conf.Width, conf.Height
	if title == "" {
		title = "Amoeba Wars"
	}
	if width <= 0 || height <= 0 {
		width, height = 1024, 768
	}
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return err
	}
	defer w.Destroy()
	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return err
	}

	// set background color and enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.02, 0.05, 0.1, 1)

	// initialize OpenGL objects
	d, err := newDisplay(world)
	if err != nil {
		return err
	}

	cam := NewCamera()
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		cam.Zoom(yo)
	})

	var dragging bool
	var lastX, lastY float64
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			dragging = action == glfw.Press
			lastX, lastY = w.GetCursorPos()
		}
	})
	w.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if dragging {
			cam.Orbit(0.005*(x-lastX), 0.005*(y-lastY))
		}
		lastX, lastY = x, y
	})

	var quit, step bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			quit = true
		}
		if key == glfw.KeyP && action == glfw.Press && !conf.ForcePause {
			pause = !pause
		}
		if key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat) {
			if pause {
				pause = false
				step = true
			}
		}
		if key == glfw.KeyR && action == glfw.Press {
			cam = NewCamera()
		}
	})

	outcome := world.Outcome()
	for !(quit || w.ShouldClose()) {
		keys := Keys{
			Forward: w.GetKey(glfw.KeyW) == glfw.Press,
			Back:    w.GetKey(glfw.KeyS) == glfw.Press,
			Left:    w.GetKey(glfw.KeyA) == glfw.Press,
			Right:   w.GetKey(glfw.KeyD) == glfw.Press,
			Up:      w.GetKey(glfw.KeySpace) == glfw.Press,
			Down:    w.GetKey(glfw.KeyLeftControl) == glfw.Press || w.GetKey(glfw.KeyRightControl) == glfw.Press,
		}
		if step {
			pause = true
			step = false
			if err := conf.Step(Intent(keys, cam.Direction())); err != nil {
				return err
			}
		}
		if !pause {
			if err := conf.Step(Intent(keys, cam.Direction())); err != nil {
				return err
			}
		}
		if o := world.Outcome(); o != outcome {
			outcome = o
			log.Printf("outcome: %s", o)
			w.SetTitle(fmt.Sprintf("%s (%s)", title, o))
		}

		fw, fh := w.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fw), int32(fh))
		d.draw(world, cam.Matrix(world.Player().Center(), float32(fw)/float32(max(fh, 1))))
		w.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	prog uint32
	mvp  int32 // uniform location of the projection-view matrix

	points, lines struct {
		vao  uint32
		vbo  uint32
		data []glVertex
	}
}

// draw updates the OpenGL buffers and draws the amoebas on screen.
func (d *display) draw(w *amoebawars.World, mvp [16]float32) {
	d.points.data, d.lines.data = fill(w, d.points.data[:0], d.lines.data[:0])

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(d.prog)
	gl.UniformMatrix4fv(d.mvp, 1, false, &mvp[0])

	if n := len(d.lines.data); n > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, d.lines.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*int(unsafe.Sizeof(glVertex{})), gl.Ptr(&d.lines.data[0]))
		gl.BindVertexArray(d.lines.vao)
		gl.DrawArrays(gl.LINES, 0, int32(n))
	}
	if n := len(d.points.data); n > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, d.points.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*int(unsafe.Sizeof(glVertex{})), gl.Ptr(&d.points.data[0]))
		gl.BindVertexArray(d.points.vao)
		gl.DrawArrays(gl.POINTS, 0, int32(n))
	}
	gl.BindVertexArray(0)
}

// newDisplay compiles shaders and initializes a display large enough for
// every vertex of the world.
func newDisplay(w *amoebawars.World) (*display, error) {
	d := new(display)

	// compile and link shaders
	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", vertexShader, gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", fragmentShader, gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.mvp = gl.GetUniformLocation(d.prog, gl.Str("mvp\x00"))

	n := w.VertexCount()
	d.points.data = make([]glVertex, 0, n)
	d.lines.data = make([]glVertex, 0, 2*w.Params().NearestLinks*n)
	d.points.vao, d.points.vbo = newBuffer(cap(d.points.data))
	d.lines.vao, d.lines.vbo = newBuffer(cap(d.lines.data))

	return d, nil
}

// newBuffer creates a vertex array object backed by a buffer of n vertices.
func newBuffer(n int) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	const size = int32(unsafe.Sizeof(glVertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, max(n, 1)*int(size), nil, gl.STREAM_DRAW)

	// attribute locations are specified in the shaders with layout(location=n)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, size, unsafe.Offsetof(glVertex{}.Pos))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, size, unsafe.Offsetof(glVertex{}.Color))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

const vertexShader = `
#version 330 core

layout(location = 0) in vec3 pos;
layout(location = 1) in vec4 color;

uniform mat4 mvp;

out vec4 fcolor;

void main() {
	gl_Position = mvp * vec4(pos, 1.0);
	gl_PointSize = 3.0;
	fcolor = color;
}
`

const fragmentShader = `
#version 330 core

in vec4 fcolor;
out vec4 outColor;

void main() {
	outColor = fcolor;
}
`

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	src    string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var fail bool
	for _, s := range shaders {
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			info := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &info[0])
			fmt.Printf("### %s shader compilation error ###\n\n%s\n\n", s.name, gl.GoStr(&info[0]))
			fail = true
			gl.DeleteShader(s.shader)
		}
	}
	if fail {
		return 0, fmt.Errorf("amoebawars: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, fmt.Errorf("amoebawars: linking GLSL program failed")
	}
	for _, s := range shaders {
		gl.DeleteShader(s.shader)
	}
	return prog, nil
}
