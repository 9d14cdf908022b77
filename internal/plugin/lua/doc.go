// Package lua runs editor plugins written in Lua.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, the code loaders are removed and
// print is routed to the plugin logger. Each script run and callback is
// bounded by an execution timeout.
//
// A script declares its commands, pipeline stages and listeners through the
// global scribe module. LoadFile returns a Plugin that installs those
// declarations into an editor:
//
//	p, err := lua.LoadFile("plugins/shout.lua", lua.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ed.Use(p)
//
// Discover and LoadAll find scripts in plugin directories. A directory
// contributes each *.lua file and each subdirectory holding an init.lua.
package lua
