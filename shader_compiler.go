package dieselcore

import (
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/pkg/errors"
)

// DefaultEntryPoint is the entry point every shader source must declare.
const DefaultEntryPoint = "main"

// ShaderSource is one shader file ready for compilation.
type ShaderSource struct {
	Path       string
	Source     string
	Kind       ShaderKind
	EntryPoint string
}

// ShaderCompiler turns shader source into SPIR-V words (little-endian bytes).
type ShaderCompiler interface {
	Compile(src ShaderSource) ([]byte, error)
}

// NagaCompiler compiles WGSL with the pure-Go naga toolchain.
type NagaCompiler struct {
	version  spirv.Version
	validate bool
	debug    bool
}

// NewNagaCompiler targets the SPIR-V version core to apiVersion. Validation and
// debug info are enabled together, matching the development profile.
func NewNagaCompiler(apiVersion Version, validate bool) *NagaCompiler {
	return &NagaCompiler{
		version:  spirvVersionFor(apiVersion),
		validate: validate,
		debug:    validate,
	}
}

func spirvVersionFor(api Version) spirv.Version {
	switch {
	case api >= MakeVersion(1, 3, 0):
		return spirv.Version1_6
	case api >= MakeVersion(1, 2, 0):
		return spirv.Version1_5
	case api >= MakeVersion(1, 1, 0):
		return spirv.Version1_3
	default:
		return spirv.Version1_0
	}
}

func (c *NagaCompiler) Compile(src ShaderSource) ([]byte, error) {
	stage, ok := irStage(src.Kind)
	if !ok {
		return nil, errors.Errorf("%s shaders are not supported by the WGSL compiler", src.Kind)
	}

	ast, err := naga.Parse(src.Source)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	module, err := naga.LowerWithSource(ast, src.Source)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}
	if c.validate {
		problems, err := naga.Validate(module)
		if err != nil {
			return nil, errors.Wrap(err, "validate")
		}
		if len(problems) > 0 {
			return nil, errors.Wrap(problems[0], "validate")
		}
	}

	entry := src.EntryPoint
	if entry == "" {
		entry = DefaultEntryPoint
	}
	if !hasEntryPoint(module, entry, stage) {
		return nil, errors.Errorf("no %s entry point named %q", src.Kind, entry)
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: c.version,
		Debug:   c.debug,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}
	if len(code)%4 != 0 {
		return nil, errors.Errorf("generate: %d bytes is not a whole number of words", len(code))
	}
	return code, nil
}

func irStage(kind ShaderKind) (ir.ShaderStage, bool) {
	switch kind {
	case ShaderKindVertex:
		return ir.StageVertex, true
	case ShaderKindFragment:
		return ir.StageFragment, true
	case ShaderKindCompute:
		return ir.StageCompute, true
	default:
		return 0, false
	}
}

func hasEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) bool {
	for _, ep := range module.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return true
		}
	}
	return false
}
