package scene3d

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera places the camera above and behind the board, swaying a
// little around the vertical axis as t (radians) advances.
func OrbitCamera(width, height int, t float64) (position, target rl.Vector3) {
	span := float64(max(width, height)) * float64(cellSize)
	angle := 0.25 * math.Sin(t)
	dist := span * 0.9

	position = rl.NewVector3(
		float32(dist*math.Sin(angle)),
		float32(span*0.9),
		float32(dist*math.Cos(angle)),
	)
	return position, rl.NewVector3(0, 0, 0)
}

const defaultVertexShader = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;

uniform mat4 mvp;

out vec2 fragTexCoord;
out vec4 fragColor;
out vec3 fragPosition;

void main()
{
    fragTexCoord = vertexTexCoord;
    fragColor = vertexColor;
    fragPosition = vertexPosition;
    gl_Position = mvp*vec4(vertexPosition, 1.0);
}
`

// Shades cube faces by height so the top reads brighter than the sides
const defaultFragmentShader = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
in vec3 fragPosition;

uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 tint;

out vec4 finalColor;

void main()
{
    vec4 texel = texture(texture0, fragTexCoord);
    float shade = 0.6 + 0.4*clamp(fragPosition.y, 0.0, 1.0);
    vec3 base = mix(fragColor.rgb, tint, 0.2);
    finalColor = vec4(base*shade, fragColor.a)*texel*colDiffuse;
}
`
