//go:build js && wasm

// Command wasm exposes the universe to JavaScript.
//
//	GOOS=js GOARCH=wasm go build -o simlife.wasm ./src/wasm
//
// After the module starts, globalThis.simlife.create(width, height, seed)
// returns a handle with tick, render, width, height, cells, setWidth,
// setHeight, setCells, toggleCell, liveCells and free. Arguments are optional;
// an omitted seed picks a random one. cells returns a Uint8Array where cell
// row*width+col is bit (i % 8) of byte i / 8, least significant bit first.
//
// Unlike Universe.Cells in Go, the array is a copy, not a view: Go code cannot
// reach the instance memory, so it must be fetched again after every tick or
// resize. free releases the handle's callbacks; the handle is unusable
// afterwards. Failures are returned as Error objects instead of throwing.
package main

import (
	"encoding/binary"
	"fmt"
	"syscall/js"

	"bitlife/src/universe"
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("create", js.FuncOf(create))
	js.Global().Set("simlife", api)
	select {}
}

func jsError(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}

func uintArg(args []js.Value, i int, def uint32) (uint32, error) {
	if len(args) <= i || args[i].IsUndefined() || args[i].IsNull() {
		return def, nil
	}
	if args[i].Type() != js.TypeNumber {
		return 0, fmt.Errorf("argument %d: want a number, got %s", i, args[i].Type())
	}
	f := args[i].Float()
	if f < 0 || f > float64(^uint32(0)) || f != float64(uint32(f)) {
		return 0, fmt.Errorf("argument %d: %v is not an unsigned 32-bit integer", i, f)
	}
	return uint32(f), nil
}

func create(_ js.Value, args []js.Value) any {
	w, err := uintArg(args, 0, universe.DefWidth)
	if err != nil {
		return jsError(err)
	}
	h, err := uintArg(args, 1, universe.DefHeight)
	if err != nil {
		return jsError(err)
	}
	seed, err := uintArg(args, 2, 0)
	if err != nil {
		return jsError(err)
	}
	u, err := universe.New(universe.WithSize(w, h), universe.WithSeed(uint64(seed)))
	if err != nil {
		return jsError(err)
	}
	return handle(u)
}

func handle(u *universe.Universe) js.Value {
	obj := js.Global().Get("Object").New()
	var names []string
	var funcs []js.Func
	method := func(name string, fn func(args []js.Value) any) {
		f := js.FuncOf(func(_ js.Value, args []js.Value) any { return fn(args) })
		names = append(names, name)
		funcs = append(funcs, f)
		obj.Set(name, f)
	}

	method("tick", func([]js.Value) any {
		u.Tick()
		return nil
	})
	method("render", func([]js.Value) any { return u.Render() })
	method("width", func([]js.Value) any { return u.Width() })
	method("height", func([]js.Value) any { return u.Height() })
	method("liveCells", func([]js.Value) any { return u.LiveCells() })
	method("cells", func([]js.Value) any {
		words := u.Cells()
		n := (int(u.Width())*int(u.Height()) + 7) / 8
		buf := make([]byte, len(words)*4)
		for i, w := range words {
			binary.LittleEndian.PutUint32(buf[i*4:], w)
		}
		arr := js.Global().Get("Uint8Array").New(n)
		js.CopyBytesToJS(arr, buf[:n])
		return arr
	})
	method("setWidth", func(args []js.Value) any {
		w, err := uintArg(args, 0, u.Width())
		if err != nil {
			return jsError(err)
		}
		u.SetWidth(w)
		return nil
	})
	method("setHeight", func(args []js.Value) any {
		h, err := uintArg(args, 0, u.Height())
		if err != nil {
			return jsError(err)
		}
		u.SetHeight(h)
		return nil
	})
	method("setCells", func(args []js.Value) any {
		if len(args) == 0 || args[0].Type() != js.TypeObject {
			return jsError(fmt.Errorf("setCells: want an array of [row, col] pairs"))
		}
		list := args[0]
		coords := make([]universe.Coord, list.Length())
		for i := range coords {
			pair := list.Index(i)
			row, err := uintArg([]js.Value{pair.Index(0)}, 0, 0)
			if err != nil {
				return jsError(fmt.Errorf("setCells[%d] row: %w", i, err))
			}
			col, err := uintArg([]js.Value{pair.Index(1)}, 0, 0)
			if err != nil {
				return jsError(fmt.Errorf("setCells[%d] col: %w", i, err))
			}
			coords[i] = universe.Coord{Row: row, Col: col}
		}
		if err := u.SetCells(coords); err != nil {
			return jsError(err)
		}
		return nil
	})
	method("toggleCell", func(args []js.Value) any {
		row, err := uintArg(args, 0, 0)
		if err != nil {
			return jsError(err)
		}
		col, err := uintArg(args, 1, 0)
		if err != nil {
			return jsError(err)
		}
		if err := u.ToggleCell(row, col); err != nil {
			return jsError(err)
		}
		return nil
	})
	method("free", func([]js.Value) any {
		for _, n := range names {
			obj.Delete(n)
		}
		for _, f := range funcs {
			f.Release()
		}
		names, funcs = nil, nil
		return nil
	})
	return obj
}
