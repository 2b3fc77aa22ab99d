package agp

import "log/slog"

// ContextConfig configures a Context at construction time.
type ContextConfig struct {
	Lookup LookupFunc
	Tag    string // "gl21", "gles2", "gles3"
	Logger *slog.Logger
}

// Context replaces the original's set of file-scope globals (active FENV,
// active shader manager, active rendertarget) with one struct an embedding
// engine owns explicitly.
type Context struct {
	env     *FENV
	shaders *ShaderManager
	rtgt    *Rendertarget

	shaderSources map[ShaderID][2]string

	log *slog.Logger
}

// NewContext allocates a FENV via cfg.Lookup, builds the default shader
// slots, and installs the result as the active FENV.
func NewContext(cfg ContextConfig) (*Context, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	env, err := Allocate(cfg.Lookup, cfg.Tag)
	if err != nil {
		return nil, err
	}
	env.log = logger
	SetActive(env)
	env.Init()

	mgr := NewShaderManager(env)
	mgr.log = logger
	if err := mgr.BuildDefaults(); err != nil {
		return nil, err
	}

	return &Context{
		env:           env,
		shaders:       mgr,
		shaderSources: make(map[ShaderID][2]string),
		log:           logger,
	}, nil
}

// FENV returns the context's active function environment.
func (c *Context) FENV() *FENV { return c.env }

// Shaders returns the context's shader manager.
func (c *Context) Shaders() *ShaderManager { return c.shaders }

// Rendertarget returns the context's currently activated rendertarget, or
// nil if none has been set via SetRendertarget.
func (c *Context) Rendertarget() *Rendertarget { return c.rtgt }

// SetRendertarget installs and activates rtgt as the context's current
// render destination (nil unbinds to the default framebuffer).
func (c *Context) SetRendertarget(rtgt *Rendertarget) {
	c.rtgt = rtgt
	if rtgt != nil {
		rtgt.Activate(c.env)
	} else if checkFenv(c.env) {
		c.env.BindFramebuffer(0)
	}
}

// Build compiles a new shader and retains its source for RebuildAll, so
// context-loss recovery can rebuild it later.
func (c *Context) Build(label, vertex, fragment string) ShaderID {
	id := c.shaders.Build(label, vertex, fragment)
	if id != BrokenShader {
		c.shaderSources[id] = [2]string{vertex, fragment}
	}
	return id
}

// RecoverContextLoss re-allocates the FENV against a fresh lookup function,
// rebuilds every retained shader, and re-uploads every VStore passed in.
func (c *Context) RecoverContextLoss(lookup LookupFunc, tag string, liveStores []*VStore) error {
	env, err := Allocate(lookup, tag)
	if err != nil {
		return err
	}
	env.log = c.log
	SetActive(env)
	env.Init()
	c.env = env

	c.shaders.env = env
	c.shaders.RebuildAll(c.shaderSources)

	for _, vs := range liveStores {
		vs.glidValid = false
		vs.glid = 0
		if vs.state != TxOff {
			vs.glid = env.GenTextures(1)[0]
		}
		if err := vs.Update(env, true); err != nil {
			c.log.Warn("vstore re-upload failed during context recovery", slog.Any("err", err))
		}
	}
	return nil
}

// Drop tears down the context: flushes all non-default shaders, drops the
// active rendertarget (if any), and invalidates the FENV.
func (c *Context) Drop() {
	if c.shaders != nil {
		c.shaders.Flush()
	}
	if c.rtgt != nil {
		c.rtgt.Drop(c.env)
	}
	Drop(c.env)
}
