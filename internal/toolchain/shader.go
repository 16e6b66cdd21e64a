package toolchain

import (
	"path/filepath"
)

// stageFlags maps shader source extensions to glslc stage names. Sources
// with a .glsl extension carry a #pragma stage directive instead and get
// no flag.
var stageFlags = map[string]string{
	".vert": "vertex",
	".frag": "fragment",
	".comp": "compute",
	".geom": "geometry",
	".tesc": "tesscontrol",
	".tese": "tesseval",
}

// ShaderArgs builds the glslc argv for compiling one shader source to
// SPIR-V at out.
func ShaderArgs(source, out string) []string {
	var args []string
	if stage, ok := stageFlags[filepath.Ext(source)]; ok {
		args = append(args, "-fshader-stage="+stage)
	}
	args = append(args, source, "-o", out)
	return args
}
