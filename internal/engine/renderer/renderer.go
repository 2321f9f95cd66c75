// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/levelview/internal/engine/camera"
	"github.com/Faultbox/levelview/internal/engine/lighting"
	"github.com/Faultbox/levelview/internal/engine/scene"
	"github.com/Faultbox/levelview/internal/engine/shader"
)

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;

void main() {
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;

uniform vec4 uColor;
uniform vec3 uLightDir;
uniform float uAmbient;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	FragColor = vec4(uColor.rgb * (uAmbient + (1.0 - uAmbient) * diffuse), uColor.a);
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// gpuMesh is the uploaded form of one primitive.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

// Renderer draws a scene graph with a single directional light.
type Renderer struct {
	config  Config
	program *shader.Program
	log     *zap.Logger

	meshes  map[*scene.Primitive]*gpuMesh
	version uint64

	Sun lighting.Sun
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(1, 1, 1, 1)

	program, err := shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r := &Renderer{
		config:  cfg,
		program: program,
		log:     log,
		meshes:  make(map[*scene.Primitive]*gpuMesh),
		Sun:     lighting.DefaultSun(),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for p, m := range r.meshes {
		m.delete()
		delete(r.meshes, p)
	}
	r.program.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Render clears the frame and draws every primitive in s.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if s.Version != r.version {
		r.sync(s)
	}

	r.program.Use()
	r.program.SetMat4("uView", cam.View())
	r.program.SetMat4("uProjection", cam.Projection())
	r.program.SetVec3("uLightDir", r.Sun.Direction)
	gl.Uniform1f(r.program.Uniform("uAmbient"), r.Sun.Ambient)

	s.Root.Traverse(func(n *scene.Node, world mgl32.Mat4) {
		if n.Mesh == nil {
			return
		}
		r.program.SetMat4("uModel", world)
		for _, p := range n.Mesh.Primitives {
			m := r.meshes[p]
			if m == nil {
				continue
			}
			r.program.SetVec4("uColor", p.Color)
			gl.BindVertexArray(m.vao)
			gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
		}
	})
	gl.BindVertexArray(0)
}

// sync uploads primitives added since the last seen scene version.
func (r *Renderer) sync(s *scene.Scene) {
	uploaded := 0
	s.Root.Traverse(func(n *scene.Node, _ mgl32.Mat4) {
		if n.Mesh == nil {
			return
		}
		for _, p := range n.Mesh.Primitives {
			if _, ok := r.meshes[p]; ok {
				continue
			}
			r.meshes[p] = upload(p)
			uploaded++
		}
	})
	r.version = s.Version
	r.log.Debug("scene synced",
		zap.Uint64("version", s.Version),
		zap.Int("uploaded", uploaded),
	)
}

// upload interleaves position and normal into one VBO.
func upload(p *scene.Primitive) *gpuMesh {
	const stride = 6 * 4
	data := make([]float32, 0, len(p.Positions)*6)
	for i, pos := range p.Positions {
		n := [3]float32{0, 1, 0}
		if i < len(p.Normals) {
			n = p.Normals[i]
		}
		data = append(data, pos[0], pos[1], pos[2], n[0], n[1], n[2])
	}

	m := &gpuMesh{count: int32(len(p.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(p.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(p.Indices)*4, gl.Ptr(p.Indices), gl.STATIC_DRAW)
	}

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return m
}

func (m *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) > 0 {
		gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
		gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
	return pixels, w, h
}
