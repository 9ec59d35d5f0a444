// Command preparation opens a window and brings up the rendering context on
// it, then idles until the window is closed.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/andewx/dieselcore"
	"github.com/andewx/dieselcore/logging"
	"github.com/andewx/dieselcore/vkdriver"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "Test Application"

	profileEnv = "DIESEL_PROFILE"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	profileName := flag.String("profile", "", "operating profile: dev, editor or shipping (default $"+profileEnv+", then dev)")
	dev := flag.Bool("dev", false, "development profile")
	editor := flag.Bool("editor", false, "editor profile")
	shipping := flag.Bool("shipping", false, "shipping profile")
	logDir := flag.String("logdir", logging.DefaultDirectory, "directory of the engine log")
	flag.Parse()

	profile, err := resolveProfile(*profileName, os.Getenv(profileEnv), *dev, *editor, *shipping)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if err := glfw.Init(); err != nil {
		dieselcore.Fatal(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		dieselcore.Fatal(err, glfw.Terminate)
	}

	engine, err := dieselcore.NewEngine(
		vkdriver.Load(glfw.GetVulkanGetInstanceProcAddress()),
		window,
		dieselcore.EngineOptions{
			Profile:      profile,
			LogDirectory: *logDir,
		},
	)
	if err != nil {
		dieselcore.Fatal(err, window.Destroy, glfw.Terminate)
	}
	vkdriver.SetLogger(engine.Logger())

	// One cleanup keeps the order fixed: context before window before GLFW.
	closer.Bind(func() {
		if err := engine.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
		window.Destroy()
		glfw.Terminate()
	})
	defer closer.Close()
	// Runs before closer.Close, which recovers the re-raised panic.
	defer logging.LogPanic(engine.Logger())

	for !window.ShouldClose() {
		glfw.PollEvents()
	}
}

// resolveProfile picks the profile from the boolean flags, then the -profile
// flag, then the environment. Development is the fallback.
func resolveProfile(name, env string, dev, editor, shipping bool) (logging.Profile, error) {
	if dev || editor || shipping {
		if name != "" {
			return logging.Invalid, logging.ErrProfileConflict
		}
		return logging.ProfileFromFlags(dev, editor, shipping)
	}
	if name == "" {
		name = env
	}
	if name == "" {
		return logging.Development, nil
	}
	return logging.ParseProfile(name)
}
