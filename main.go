/*
This is an example of application that drives the material engine
through a headless software backend.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/materia/engine"
	"github.com/spaghettifunk/materia/engine/core"
	"github.com/spaghettifunk/materia/engine/renderer/metadata"
	"github.com/spaghettifunk/materia/testbed"
)

func main() {
	config := engine.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := engine.LoadConfig(os.Args[1])
		if err != nil {
			core.LogFatal(err.Error())
		}
		config = loaded
	}

	backend := testbed.NewSoftwareBackend(metadata.HardwareCaps{
		MaxBones:              64,
		MaxSimultaneousLights: 8,
	})
	backend.CompileLatencyFrames = 2

	e, err := engine.New(config, backend)
	if err != nil {
		core.LogFatal(err.Error())
	}

	game := testbed.NewGame(e, backend)
	if err := game.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	for frame := uint64(1); frame <= 20; frame++ {
		game.Frame(frame)
	}

	fps, frameTime := game.Metrics()
	core.LogInfo("done: %.0f fps, %.3f ms avg frame time", fps, frameTime)

	if err := e.Shutdown(); err != nil {
		core.LogFatal(err.Error())
	}
}
