// Package main is a demo for the prism rendering backend: a spinning
// textured cube rendered into an offscreen framebuffer, then blitted
// to the screen through a fullscreen quad.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/prism/internal/config"
	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/render"
	"github.com/Faultbox/prism/internal/engine/render/opengl"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/internal/engine/texture"
	"github.com/Faultbox/prism/internal/engine/window"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

const offscreenSize = 512

const sceneVertexShader = `
#version 410 core

in vec3 position;
in vec2 uv;

uniform mat4 mvp;

out vec2 fragUV;

void main() {
	gl_Position = mvp * vec4(position, 1.0);
	fragUV = uv;
}
`

const sceneFragmentShader = `
#version 410 core

in vec2 fragUV;
uniform sampler2D tex;
out vec4 outColor;

void main() {
	outColor = texture(tex, fragUV);
}
`

const blitVertexShader = `
#version 410 core

in vec3 position;
in vec2 uv;

out vec2 fragUV;

void main() {
	gl_Position = vec4(position, 1.0);
	fragUV = uv;
}
`

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== prism demo ===")

	win, err := window.New(window.Config{
		Title:      "prism demo",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	defer win.Close()

	backend, err := opengl.New()
	if err != nil {
		logger.Error("failed to initialize OpenGL", zap.Error(err))
		os.Exit(1)
	}
	defer backend.Close()

	r := render.New(backend, render.Config{DebugChecks: cfg.Renderer.DebugChecks})
	defer r.Destroy()

	if err := run(r, win, cfg); err != nil {
		logger.Error("demo error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}

func run(r *render.Renderer, win *window.Window, cfg *config.Config) error {
	checker := checkerTexture(64, cfg.Renderer.KeepData)
	cube := cubeMesh(cfg.Renderer.KeepData)
	quad := quadMesh()

	sceneProg := shader.NewProgram(sceneVertexShader, sceneFragmentShader,
		geometry.Position, geometry.UV)
	sceneProg.SetSampler("tex", 0)

	blitProg := shader.NewProgram(blitVertexShader, sceneFragmentShader,
		geometry.Position, geometry.UV)
	blitProg.SetSampler("tex", 0)

	colorTarget := texture.NewTexture(offscreenSize, offscreenSize, texture.RGBA)
	colorTarget.SetFilter(texture.Linear, texture.Linear)
	depthTarget := texture.NewTexture(offscreenSize, offscreenSize, texture.Depth)
	fbo := texture.NewFramebuffer(offscreenSize, offscreenSize,
		[]*texture.Texture{colorTarget}, depthTarget)

	proj := math.Perspective(math.DegToRad(60), 1, 0.1, 100)
	view := math.LookAt(math.Vec3{X: 0, Y: 1.5, Z: 3}, math.Vec3{}, math.Vec3{Y: 1})

	lastStats := sdl.GetTicks64()
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if ev.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
			}
		}

		angle := float32(sdl.GetTicks64()) / 1000
		mvp := proj.Mul(view).Mul(math.RotateY(angle))
		sceneProg.SetMat4("mvp", mvp)

		r.BeginFrame()

		// Offscreen pass: spinning cube.
		if err := r.SetFramebuffer(fbo); err != nil {
			return err
		}
		r.SetViewport(0, 0, offscreenSize, offscreenSize)
		r.SetClearColor(0.1, 0.1, 0.15, 1.0)
		r.Clear()
		r.SetDepthTest(true)
		r.SetCulling(render.CullBackFace)
		r.SetBlending(render.BlendDisabled)
		if err := r.SetShaderProgram(sceneProg); err != nil {
			return err
		}
		r.SetTexture(0, checker)
		r.RenderMesh(cube)

		// Screen pass: fullscreen quad sampling the offscreen target.
		if err := r.SetFramebuffer(nil); err != nil {
			return err
		}
		w, h := win.GetSize()
		r.SetViewport(0, 0, int32(w), int32(h))
		r.ClearColor()
		r.SetDepthTest(false)
		r.SetCulling(render.CullDisabled)
		if err := r.SetShaderProgram(blitProg); err != nil {
			return err
		}
		r.SetTexture(0, colorTarget)
		r.RenderMesh(quad)

		r.EndFrame()
		win.SwapBuffers()

		if now := sdl.GetTicks64(); now-lastStats >= 1000 {
			lastStats = now
			stats := r.Statistics()
			logger.Debug("frame stats",
				zap.Int("shaderSwitches", stats.ShaderSwitches),
				zap.Int("textureSwitches", stats.TextureSwitches),
				zap.Int("framebufferSwitches", stats.FramebufferSwitches),
				zap.Int("verticesDrawn", stats.VerticesDrawn),
				zap.Int("allocatedTextures", stats.AllocatedTextures),
				zap.Int("allocatedVertexBuffers", stats.AllocatedVertexBuffers),
			)
		}

		if cfg.Graphics.FPSLimit > 0 {
			sdl.Delay(uint32(1000 / cfg.Graphics.FPSLimit))
		}
	}
}

// checkerTexture builds a two-tone checkerboard test texture.
func checkerTexture(size int32, keepData bool) *texture.Texture {
	pixels := make([]byte, size*size*4)
	for y := int32(0); y < size; y++ {
		for x := int32(0); x < size; x++ {
			i := (y*size + x) * 4
			c := byte(40)
			if (x/8+y/8)%2 == 0 {
				c = 220
			}
			pixels[i+0] = c
			pixels[i+1] = c
			pixels[i+2] = 90
			pixels[i+3] = 255
		}
	}

	tex := texture.NewTexture(size, size, texture.RGBA)
	tex.SetPixels(pixels)
	tex.SetFilter(texture.Nearest, texture.Nearest)
	tex.SetWrap(texture.Repeat, texture.Repeat)
	tex.SetKeepData(keepData)
	return tex
}

// cubeMesh builds a unit cube with per-face UVs and 16-bit indices.
func cubeMesh(keepData bool) *geometry.Mesh {
	positions := []float32{
		// front
		-0.5, -0.5, 0.5, 0.5, -0.5, 0.5, 0.5, 0.5, 0.5, -0.5, 0.5, 0.5,
		// back
		0.5, -0.5, -0.5, -0.5, -0.5, -0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5,
		// left
		-0.5, -0.5, -0.5, -0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5, -0.5,
		// right
		0.5, -0.5, 0.5, 0.5, -0.5, -0.5, 0.5, 0.5, -0.5, 0.5, 0.5, 0.5,
		// top
		-0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, -0.5, -0.5, 0.5, -0.5,
		// bottom
		-0.5, -0.5, -0.5, 0.5, -0.5, -0.5, 0.5, -0.5, 0.5, -0.5, -0.5, 0.5,
	}

	uvs := make([]float32, 0, 6*4*2)
	for face := 0; face < 6; face++ {
		uvs = append(uvs, 0, 0, 1, 0, 1, 1, 0, 1)
	}

	indices := make([]uint16, 0, 6*6)
	for face := uint16(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	mesh := geometry.NewMesh(geometry.Triangles, geometry.StaticDraw)
	mesh.SetData(geometry.Position, positions)
	mesh.SetData(geometry.UV, uvs)
	mesh.SetIndices16(indices)
	mesh.SetKeepData(keepData)
	return mesh
}

// quadMesh builds a fullscreen quad in clip space.
func quadMesh() *geometry.Mesh {
	mesh := geometry.NewMesh(geometry.Triangles, geometry.StaticDraw)
	mesh.SetData(geometry.Position, []float32{
		-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0,
	})
	mesh.SetData(geometry.UV, []float32{
		0, 0, 1, 0, 1, 1, 0, 1,
	})
	mesh.SetIndices16([]uint16{0, 1, 2, 0, 2, 3})
	return mesh
}
