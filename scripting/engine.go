// Package scripting binds celeste objects into a gopher-lua VM.
package scripting

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/celeste2d/celeste"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM bound to a Game.
// Single-goroutine access only (game loop).
type Engine struct {
	vm    *lua.LState
	game  *celeste.Game
	log   *zap.Logger
	timer celeste.EventHandle
}

// NewEngine creates a Lua VM with the GameObject, Transform and Component
// types and the Scene and Game globals registered. If the scripts define a
// global on_update(dt) function it is called once per game Update.
func NewEngine(game *celeste.Game) *Engine {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, game: game, log: game.Logger().Named("lua")}
	e.registerGameObject()
	e.registerTransform()
	e.registerComponent()
	e.registerGlobals()
	e.timer = game.Timers().Subscribe(e.onUpdate)
	return e
}

// Close detaches the engine from the game and closes the VM.
func (e *Engine) Close() {
	e.game.Timers().Unsubscribe(e.timer)
	e.vm.Close()
}

// State exposes the VM for custom bindings.
func (e *Engine) State() *lua.LState { return e.vm }

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// DoFile runs the Lua file at path.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// RunGameScript runs the configured game script under the resources
// directory. A missing script is not an error.
func (e *Engine) RunGameScript() error {
	cfg := e.game.Config().Game
	path := filepath.Join(cfg.ResourcesDir, cfg.GameScript)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.log.Debug("no game script", zap.String("file", path))
			return nil
		}
		return fmt.Errorf("stat game script: %w", err)
	}
	return e.DoFile(path)
}

// Call invokes the global function name with args. Missing functions are
// ignored. Lua errors are logged and returned.
func (e *Engine) Call(name string, args ...lua.LValue) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua call failed", zap.String("func", name), zap.Error(err))
		return err
	}
	return nil
}

func (e *Engine) onUpdate(dt float64) {
	_ = e.Call("on_update", lua.LNumber(dt))
}

// registerGlobals installs the Scene and Game tables.
func (e *Engine) registerGlobals() {
	L := e.vm

	scene := L.NewTable()
	L.SetFuncs(scene, map[string]lua.LGFunction{
		"find": func(L *lua.LState) int {
			e.pushGameObject(e.game.Scenes().Find(L.CheckString(1)))
			return 1
		},
		"load": func(L *lua.LState) int {
			path := L.CheckString(1)
			if _, err := e.game.Scenes().Load(path); err != nil {
				e.log.Warn("lua scene load failed", zap.String("path", path), zap.Error(err))
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LTrue)
			return 1
		},
		"unload": func(L *lua.LState) int {
			L.Push(lua.LBool(e.game.Scenes().Unload(L.CheckString(1))))
			return 1
		},
		"spawn": func(L *lua.LState) int {
			s := e.game.Scenes().Screen(L.CheckString(1))
			if s == nil {
				L.Push(lua.LNil)
				return 1
			}
			e.pushGameObject(s.AllocateGameObject())
			return 1
		},
	})
	L.SetGlobal("Scene", scene)

	game := L.NewTable()
	L.SetFuncs(game, map[string]lua.LGFunction{
		"exit": func(L *lua.LState) int {
			e.game.Exit()
			return 0
		},
		"elapsed": func(L *lua.LState) int {
			L.Push(lua.LNumber(e.game.Clock().Elapsed()))
			return 1
		},
		"isKeyDown": func(L *lua.LState) int {
			k, err := celeste.ParseKey(L.CheckString(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			L.Push(lua.LBool(e.game.Input().Keyboard().IsDown(k)))
			return 1
		},
	})
	L.SetGlobal("Game", game)
}
