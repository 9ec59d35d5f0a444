package dieselcore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"
)

// ShaderKind is the stage named in a shader file's second extension.
type ShaderKind string

const (
	ShaderKindVertex         ShaderKind = "vert"
	ShaderKindFragment       ShaderKind = "frag"
	ShaderKindCompute        ShaderKind = "comp"
	ShaderKindGeometry       ShaderKind = "geom"
	ShaderKindTessControl    ShaderKind = "tesc"
	ShaderKindTessEvaluation ShaderKind = "tese"
)

// ParseShaderKind reads the kind from a path shaped like name.kind.ext.
func ParseShaderKind(path string) (ShaderKind, error) {
	segments := strings.Split(filepath.Base(path), ".")
	if len(segments) < 3 {
		return "", &ShaderError{Kind: ShaderInvalidKind, Path: path, Detail: "invalid shader file extension"}
	}
	kind := ShaderKind(segments[len(segments)-2])
	switch kind {
	case ShaderKindVertex, ShaderKindFragment, ShaderKindCompute,
		ShaderKindGeometry, ShaderKindTessControl, ShaderKindTessEvaluation:
		return kind, nil
	}
	return "", &ShaderError{Kind: ShaderInvalidKind, Path: path, Detail: fmt.Sprintf("invalid shader type: %s", kind)}
}

// Stage maps the kind to its pipeline stage flag. Kinds not produced by
// ParseShaderKind panic.
func (k ShaderKind) Stage() ShaderStage {
	switch k {
	case ShaderKindVertex:
		return StageVertex
	case ShaderKindFragment:
		return StageFragment
	case ShaderKindCompute:
		return StageCompute
	case ShaderKindGeometry:
		return StageGeometry
	case ShaderKindTessControl:
		return StageTessellationControl
	case ShaderKindTessEvaluation:
		return StageTessellationEvaluation
	}
	panic(fmt.Sprintf("dieselcore: unreachable shader kind %q", string(k)))
}

// Shader is a loaded shader module. Values are copies of the registry entry.
type Shader struct {
	ID     Identity
	Path   string
	Module ShaderModule
	Stage  ShaderStage
}

// ShaderDevice creates and destroys shader modules. *CoreDevice implements it.
type ShaderDevice interface {
	ModuleDestroyer
	CreateShaderModule(code []byte) (ShaderModule, error)
}

// CoreShader loads shader files into GPU modules and owns them through its
// registry. Load may be called concurrently when the compiler and device
// allow it.
type CoreShader struct {
	compiler ShaderCompiler
	registry *Registry
	logger   *slog.Logger
}

func NewCoreShader(compiler ShaderCompiler, logger *slog.Logger) *CoreShader {
	return &CoreShader{
		compiler: compiler,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Load compiles the file at path and registers the resulting module. A failed
// load leaves neither a registry entry nor a GPU module behind. Concurrent
// loads of one path compile it once; the others fail with ShaderDuplicate.
func (core *CoreShader) Load(device ShaderDevice, path string) (Identity, error) {
	id := NewIdentity(path)
	if !core.registry.Reserve(id) {
		return 0, &ShaderError{Kind: ShaderDuplicate, Path: path}
	}
	shader, err := core.build(device, id, path)
	if err != nil {
		core.registry.Abort(id)
		return 0, err
	}
	core.registry.Commit(shader)
	core.logger.Debug("Loaded shader.",
		slog.String("path", path),
		slog.String("id", id.String()),
		slog.Uint64("stage", uint64(shader.Stage)))
	return id, nil
}

// build turns the file at path into a module on device.
func (core *CoreShader) build(device ShaderDevice, id Identity, path string) (Shader, error) {
	kind, err := ParseShaderKind(path)
	if err != nil {
		return Shader{}, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return Shader{}, &ShaderError{Kind: ShaderIO, Path: path, Detail: "failed to read shader file", Err: err}
	}

	code, err := core.compiler.Compile(ShaderSource{
		Path:       path,
		Source:     string(source),
		Kind:       kind,
		EntryPoint: DefaultEntryPoint,
	})
	if err != nil {
		return Shader{}, &ShaderError{Kind: ShaderCompileFailed, Path: path, Detail: "failed to compile shader", Err: err}
	}

	module, err := device.CreateShaderModule(code)
	if err != nil {
		return Shader{}, err
	}
	return Shader{
		ID:     id,
		Path:   path,
		Module: module,
		Stage:  kind.Stage(),
	}, nil
}

// LoadAll loads paths in order and stops at the first failure. Shaders loaded
// before the failure stay registered.
func (core *CoreShader) LoadAll(device ShaderDevice, paths ...string) ([]Identity, error) {
	ids := make([]Identity, 0, len(paths))
	for _, path := range paths {
		id, err := core.Load(device, path)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Unload destroys the module of id. It reports false for an unknown identity.
func (core *CoreShader) Unload(device ShaderDevice, id Identity) bool {
	if !core.registry.Delete(device, id) {
		return false
	}
	core.logger.Debug("Unloaded shader.", slog.String("id", id.String()))
	return true
}

// UnloadAll destroys every loaded module.
func (core *CoreShader) UnloadAll(device ShaderDevice) {
	if n := core.registry.DeleteAll(device); n > 0 {
		core.logger.Debug("Unloaded shaders.", slog.Int("count", n))
	}
}

func (core *CoreShader) Get(id Identity) (Shader, bool) {
	return core.registry.Lookup(id)
}

func (core *CoreShader) Len() int {
	return core.registry.Len()
}

func (core *CoreShader) Identities() []Identity {
	return core.registry.Identities()
}
