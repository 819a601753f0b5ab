package compose

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/scene"
)

// RigConfig places a camera inside a yaw/pitch rig.
type RigConfig struct {
	// Position is applied to the camera itself.
	Position mgl32.Vec3 `yaml:"position"`
	// Rotation is (pitch, yaw, roll) in radians: X goes to the pitch group,
	// Y to the yaw group and Z to the camera.
	Rotation mgl32.Vec3 `yaml:"rotation,omitempty"`
	Tweak    bool       `yaml:"tweak,omitempty"`
}

// Rig is a camera nested as yaw -> pitch -> camera. Rotating Yaw about Y
// never changes the axis Pitch rotates about.
type Rig struct {
	Yaw    *scene.Node
	Pitch  *scene.Node
	Camera *scene.Node
}

// ConfigureCameraRig wraps cam in the two rig groups and attaches the yaw
// group to the scene root. cam is detached from any previous parent.
func ConfigureCameraRig(svc Services, sc *scene.Scene, cam *scene.Node, cfg RigConfig) *Rig {
	r := &Rig{
		Yaw:    scene.NewGroup("cameraYaw"),
		Pitch:  scene.NewGroup("cameraPitch"),
		Camera: cam,
	}
	r.Yaw.Add(r.Pitch)
	r.Pitch.Add(cam)
	sc.Add(r.Yaw)

	cam.Position = cfg.Position
	cam.Rotation = mgl32.Vec3{0, 0, cfg.Rotation.Z()}
	r.Pitch.Rotation = mgl32.Vec3{cfg.Rotation.X(), 0, 0}
	r.Yaw.Rotation = mgl32.Vec3{0, cfg.Rotation.Y(), 0}

	if p := svc.panel(cfg.Tweak); p != nil {
		f := p.AddFolder("Camera")
		f.AddNumber("position.x", &cam.Position[0], positionRange)
		f.AddNumber("position.y", &cam.Position[1], positionRange)
		f.AddNumber("position.z", &cam.Position[2], positionRange)
		f.AddNumber("pitch", &r.Pitch.Rotation[0], angleRange)
		f.AddNumber("yaw", &r.Yaw.Rotation[1], angleRange)
		f.AddNumber("roll", &cam.Rotation[2], angleRange)
	}
	return r
}
