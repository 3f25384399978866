package scripting

import (
	"github.com/celeste2d/celeste"
	lua "github.com/yuin/gopher-lua"
)

const (
	gameObjectType = "GameObject"
	transformType  = "Transform"
	componentType  = "Component"
)

// Lua indices are 1-based; the Go accessors are 0-based.

func (e *Engine) pushUserData(v any, typeName string) {
	ud := e.vm.NewUserData()
	ud.Value = v
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(typeName))
	e.vm.Push(ud)
}

func (e *Engine) pushGameObject(g *celeste.GameObject) {
	if g == nil {
		e.vm.Push(lua.LNil)
		return
	}
	e.pushUserData(celeste.RefTo(g), gameObjectType)
}

func (e *Engine) pushTransform(t *celeste.Transform) {
	if t == nil {
		e.vm.Push(lua.LNil)
		return
	}
	e.pushUserData(t, transformType)
}

func (e *Engine) pushComponent(c celeste.Component) {
	if c == nil {
		e.vm.Push(lua.LNil)
		return
	}
	e.pushUserData(c, componentType)
}

// GameObject userdata holds a celeste.ObjectRef, so a script that keeps an
// object past its death never reaches whatever reuses the pool slot.

func checkObjectRef(L *lua.LState, n int) celeste.ObjectRef {
	ud := L.CheckUserData(n)
	if ref, ok := ud.Value.(celeste.ObjectRef); ok {
		return ref
	}
	L.ArgError(n, "GameObject expected")
	return celeste.ObjectRef{}
}

// checkGameObject raises a Lua error when the reference is stale.
func checkGameObject(L *lua.LState, n int) *celeste.GameObject {
	ref := checkObjectRef(L, n)
	g := ref.Get()
	if g == nil {
		L.RaiseError("GameObject %d is no longer valid", ref.ID())
	}
	return g
}

// optGameObject accepts a GameObject or nil.
func optGameObject(L *lua.LState, n int) *celeste.GameObject {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return checkGameObject(L, n)
}

func checkTransform(L *lua.LState, n int) *celeste.Transform {
	ud := L.CheckUserData(n)
	if t, ok := ud.Value.(*celeste.Transform); ok {
		return t
	}
	L.ArgError(n, "Transform expected")
	return nil
}

func optTransform(L *lua.LState, n int) *celeste.Transform {
	if L.Get(n) == lua.LNil {
		return nil
	}
	return checkTransform(L, n)
}

func checkComponent(L *lua.LState, n int) celeste.Component {
	ud := L.CheckUserData(n)
	if c, ok := ud.Value.(celeste.Component); ok {
		return c
	}
	L.ArgError(n, "Component expected")
	return nil
}

func pushVec3(L *lua.LState, v celeste.Vec3) int {
	L.Push(lua.LNumber(v.X))
	L.Push(lua.LNumber(v.Y))
	L.Push(lua.LNumber(v.Z))
	return 3
}

// checkVec3 reads x, y and an optional z starting at argument n.
func checkVec3(L *lua.LState, n int, z float64) celeste.Vec3 {
	return celeste.Vec3{
		X: float64(L.CheckNumber(n)),
		Y: float64(L.CheckNumber(n + 1)),
		Z: float64(L.OptNumber(n+2, lua.LNumber(z))),
	}
}

func (e *Engine) registerType(name string, methods map[string]lua.LGFunction) {
	L := e.vm
	mt := L.NewTypeMetatable(name)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), methods))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(name))
		return 1
	}))
}

// --- GameObject ---

func (e *Engine) registerGameObject() {
	e.registerType(gameObjectType, map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkGameObject(L, 1).ID()))
			return 1
		},
		"getName": func(L *lua.LState) int {
			L.Push(lua.LString(checkGameObject(L, 1).Name()))
			return 1
		},
		"setName": func(L *lua.LState) int {
			checkGameObject(L, 1).SetName(L.CheckString(2))
			return 0
		},
		"getTag": func(L *lua.LState) int {
			L.Push(lua.LString(checkGameObject(L, 1).Tag()))
			return 1
		},
		"setTag": func(L *lua.LState) int {
			checkGameObject(L, 1).SetTag(L.CheckString(2))
			return 0
		},
		"isAlive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkObjectRef(L, 1).IsAlive()))
			return 1
		},
		"isActive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkGameObject(L, 1).IsActive()))
			return 1
		},
		"setActive": func(L *lua.LState) int {
			checkGameObject(L, 1).SetActive(L.CheckBool(2))
			return 0
		},
		"shouldRender": func(L *lua.LState) int {
			L.Push(lua.LBool(checkGameObject(L, 1).ShouldRender()))
			return 1
		},
		"setShouldRender": func(L *lua.LState) int {
			checkGameObject(L, 1).SetShouldRender(L.CheckBool(2))
			return 0
		},
		"getParent": func(L *lua.LState) int {
			e.pushGameObject(checkGameObject(L, 1).Parent())
			return 1
		},
		"setParent": func(L *lua.LState) int {
			g := checkGameObject(L, 1)
			if p := optGameObject(L, 2); p != nil {
				g.SetParent(p)
			} else {
				g.SetParentTransform(nil)
			}
			return 0
		},
		"getTransform": func(L *lua.LState) int {
			e.pushTransform(checkGameObject(L, 1).Transform())
			return 1
		},
		"getComponentCount": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkGameObject(L, 1).ComponentCount()))
			return 1
		},
		"getComponent": func(L *lua.LState) int {
			g := checkGameObject(L, 1)
			e.pushComponent(g.Component(L.CheckInt(2) - 1))
			return 1
		},
		"addComponent": func(L *lua.LState) int {
			g := checkGameObject(L, 1)
			e.pushComponent(g.AddComponentByName(L.CheckString(2)))
			return 1
		},
		"getChildCount": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkGameObject(L, 1).ChildCount()))
			return 1
		},
		"getChild": func(L *lua.LState) int {
			g := checkGameObject(L, 1)
			e.pushGameObject(g.ChildGameObject(L.CheckInt(2) - 1))
			return 1
		},
		"findChild": func(L *lua.LState) int {
			g := checkGameObject(L, 1)
			e.pushGameObject(g.FindChildNamed(L.CheckString(2)))
			return 1
		},
		"die": func(L *lua.LState) int {
			if g := checkObjectRef(L, 1).Get(); g != nil {
				g.Die()
			}
			return 0
		},
	})
}

// --- Transform ---

func (e *Engine) registerTransform() {
	e.registerType(transformType, map[string]lua.LGFunction{
		"getGameObject": func(L *lua.LState) int {
			e.pushGameObject(checkTransform(L, 1).GameObject())
			return 1
		},
		"getParent": func(L *lua.LState) int {
			e.pushTransform(checkTransform(L, 1).Parent())
			return 1
		},
		"setParent": func(L *lua.LState) int {
			checkTransform(L, 1).SetParent(optTransform(L, 2))
			return 0
		},
		"getTranslation": func(L *lua.LState) int {
			return pushVec3(L, checkTransform(L, 1).Translation())
		},
		"setTranslation": func(L *lua.LState) int {
			t := checkTransform(L, 1)
			t.SetTranslation(checkVec3(L, 2, t.Translation().Z))
			return 0
		},
		"getWorldTranslation": func(L *lua.LState) int {
			return pushVec3(L, checkTransform(L, 1).WorldTranslation())
		},
		"setWorldTranslation": func(L *lua.LState) int {
			t := checkTransform(L, 1)
			t.SetWorldTranslation(checkVec3(L, 2, t.WorldTranslation().Z))
			return 0
		},
		"translate": func(L *lua.LState) int {
			t := checkTransform(L, 1)
			t.Translate(celeste.Vec2{X: float64(L.CheckNumber(2)), Y: float64(L.CheckNumber(3))})
			return 0
		},
		"getRotation": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkTransform(L, 1).Rotation()))
			return 1
		},
		"setRotation": func(L *lua.LState) int {
			checkTransform(L, 1).SetRotation(float64(L.CheckNumber(2)))
			return 0
		},
		"getWorldRotation": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkTransform(L, 1).WorldRotation()))
			return 1
		},
		"setWorldRotation": func(L *lua.LState) int {
			checkTransform(L, 1).SetWorldRotation(float64(L.CheckNumber(2)))
			return 0
		},
		"rotate": func(L *lua.LState) int {
			checkTransform(L, 1).Rotate(float64(L.CheckNumber(2)))
			return 0
		},
		"getScale": func(L *lua.LState) int {
			return pushVec3(L, checkTransform(L, 1).Scale())
		},
		"setScale": func(L *lua.LState) int {
			t := checkTransform(L, 1)
			t.SetScale(checkVec3(L, 2, t.Scale().Z))
			return 0
		},
		"getWorldScale": func(L *lua.LState) int {
			return pushVec3(L, checkTransform(L, 1).WorldScale())
		},
		"setWorldScale": func(L *lua.LState) int {
			t := checkTransform(L, 1)
			t.SetWorldScale(checkVec3(L, 2, t.WorldScale().Z))
			return 0
		},
	})
}

// --- Component ---

func (e *Engine) registerComponent() {
	e.registerType(componentType, map[string]lua.LGFunction{
		"isActive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkComponent(L, 1).IsActive()))
			return 1
		},
		"setActive": func(L *lua.LState) int {
			checkComponent(L, 1).SetActive(L.CheckBool(2))
			return 0
		},
		"isAlive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkComponent(L, 1).IsAlive()))
			return 1
		},
		"getGameObject": func(L *lua.LState) int {
			e.pushGameObject(checkComponent(L, 1).GameObject())
			return 1
		},
		"die": func(L *lua.LState) int {
			checkComponent(L, 1).Die()
			return 0
		},
	})
}
