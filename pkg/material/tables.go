package material

// ShaderGroup is the name of the shader node group the parameter set targets.
const ShaderGroup = "FP Material"

// Shader input names.
const (
	SlotDiffuse       = "Diffuse"
	SlotM             = "M"
	SlotSpecularMasks = "SpecularMasks"
	SlotNormals       = "Normals"

	SlotAO         = "AO"
	SlotCavity     = "Cavity"
	SlotSubsurface = "Subsurface"

	SlotRoughnessMin = "Roughness Min"
	SlotRoughnessMax = "Roughness Max"
	SlotSkinColor    = "Skin Color"
	SlotSkinBoost    = "Skin Boost"

	SwitchSwizzleRoughnessToGreen = "SwizzleRoughnessToGreen"
)

// TextureSRM is the texture name that packs roughness into the green channel.
const TextureSRM = "SRM"

// ColorSpace selects how a texture's samples are interpreted.
type ColorSpace string

const (
	ColorSpaceSRGB     ColorSpace = "sRGB"
	ColorSpaceNonColor ColorSpace = "Non-Color"
)

// Location is a node-editor position hint for a texture input.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var textureSlots = map[string]string{
	"Diffuse":       SlotDiffuse,
	"M":             SlotM,
	"Mask":          SlotM,
	"SpecularMasks": SlotSpecularMasks,
	"SRM":           SlotSpecularMasks,
	"Normals":       SlotNormals,
}

var textureLocations = map[string]Location{
	SlotDiffuse:       {-300, -75},
	SlotM:             {-300, -120},
	SlotSpecularMasks: {-300, -275},
	SlotNormals:       {-300, -315},
}

// textureOrder is the order texture inputs appear on the shader.
var textureOrder = []string{SlotDiffuse, SlotM, SlotSpecularMasks, SlotNormals}

var scalarSlots = map[string]string{
	"RoughnessMin":    SlotRoughnessMin,
	"RawRoughnessMin": SlotRoughnessMin,
	"RoughnessMax":    SlotRoughnessMax,
	"RawRoughnessMax": SlotRoughnessMax,
}

// vectorSlot routes a vector to a colour input and, optionally, its alpha
// to a float input.
type vectorSlot struct {
	color string
	alpha string
}

var vectorSlots = map[string]vectorSlot{
	"Skin Boost Color And Exponent": {color: SlotSkinColor, alpha: SlotSkinBoost},
}

var switchSlots = map[string]string{
	"SwizzleRoughnessToGreen": SwitchSwizzleRoughnessToGreen,
}

// TextureSlot returns the shader input a texture name maps to.
func TextureSlot(name string) (string, bool) {
	s, ok := textureSlots[name]
	return s, ok
}

// ScalarSlot returns the shader input a scalar name maps to.
func ScalarSlot(name string) (string, bool) {
	s, ok := scalarSlots[name]
	return s, ok
}

// SwitchSlot returns the shader input a switch name maps to.
func SwitchSlot(name string) (string, bool) {
	s, ok := switchSlots[name]
	return s, ok
}
