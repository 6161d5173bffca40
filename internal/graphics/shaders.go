package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Same vertex attributes as raylib meshes: vertexPosition, vertexTexCoord, vertexNormal.
const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	// litShading is shared by both fragment shaders; tint is the surface albedo.
	litShading = `
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
vec4 shade(vec4 tint) {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * lightIntensity * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  return vec4(amb + diffuse + specular, tint.a);
}
`
	fragInputs = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
`
	litFS = fragInputs + litShading + `
void main() {
  finalColor = shade(colDiffuse);
}
`
	litTexturedFS = fragInputs + `uniform sampler2D texture0;
` + litShading + `
void main() {
  finalColor = shade(texture(texture0, fragTexCoord) * colDiffuse);
}
`
)

// lighting holds the per-frame uniforms taken from the scene lights and camera.
type lighting struct {
	viewPos   [3]float32
	dir       [3]float32
	color     [3]float32
	intensity float32
	ambient   [3]float32
}

// shader is a lit program with its uniform locations looked up once.
type shader struct {
	rl.Shader
	viewPos, lightDir, ambient, lightColor          int32
	lightIntensity, specularPower, specularStrength int32
}

func loadShader(fs string) (shader, error) {
	s := rl.LoadShaderFromMemory(litVS, fs)
	if !rl.IsShaderValid(s) {
		return shader{}, ErrShader
	}
	return shader{
		Shader:           s,
		viewPos:          rl.GetShaderLocation(s, "viewPos"),
		lightDir:         rl.GetShaderLocation(s, "lightDir"),
		ambient:          rl.GetShaderLocation(s, "ambient"),
		lightColor:       rl.GetShaderLocation(s, "lightColor"),
		lightIntensity:   rl.GetShaderLocation(s, "lightIntensity"),
		specularPower:    rl.GetShaderLocation(s, "specularPower"),
		specularStrength: rl.GetShaderLocation(s, "specularStrength"),
	}, nil
}

func (s shader) valid() bool {
	return s.ID != 0 && rl.IsShaderValid(s.Shader)
}

// setLighting uploads the frame uniforms (cgo-safe: local arrays).
func (s shader) setLighting(l lighting) {
	if !s.valid() {
		return
	}
	viewPos, dir, col, amb := l.viewPos, l.dir, l.color, l.ambient
	if s.viewPos >= 0 {
		rl.SetShaderValueV(s.Shader, s.viewPos, viewPos[:], rl.ShaderUniformVec3, 1)
	}
	if s.lightDir >= 0 {
		rl.SetShaderValueV(s.Shader, s.lightDir, dir[:], rl.ShaderUniformVec3, 1)
	}
	if s.lightColor >= 0 {
		rl.SetShaderValueV(s.Shader, s.lightColor, col[:], rl.ShaderUniformVec3, 1)
	}
	if s.ambient >= 0 {
		rl.SetShaderValueV(s.Shader, s.ambient, amb[:], rl.ShaderUniformVec3, 1)
	}
	if s.lightIntensity >= 0 {
		rl.SetShaderValue(s.Shader, s.lightIntensity, []float32{l.intensity}, rl.ShaderUniformFloat)
	}
}

// setSurface uploads the per-mesh specular terms.
func (s shader) setSurface(shininess float32) {
	if !s.valid() {
		return
	}
	power, strength := specular(shininess)
	if s.specularPower >= 0 {
		rl.SetShaderValue(s.Shader, s.specularPower, []float32{power}, rl.ShaderUniformFloat)
	}
	if s.specularStrength >= 0 {
		rl.SetShaderValue(s.Shader, s.specularStrength, []float32{strength}, rl.ShaderUniformFloat)
	}
}
