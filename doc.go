// Package rowan runs interactive virtual prototypes from declarative
// bundles.
//
// A bundle packages a scene export and a small set of JSON documents
// describing interaction elements (buttons, sliders, rotatables, touch
// areas, movables), visualization elements (lights, screens, sound sources,
// animations, particles), the prototype's states, and the transitions
// between them. Rowan loads the bundle, binds each declared element to a
// scene node by name, routes pointer poses to the bound elements, and walks
// the state machine the documents declare.
//
// # Quick start
//
//	proto, err := rowan.LoadPrototype("toaster")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer proto.Unload()
//
//	if err := proto.Start(); err != nil {
//		log.Fatal(err)
//	}
//	for range ticker.C {
//		proto.Update(1.0 / 60)
//	}
//
// Pointer input flows in through [Prototype.InteractionStart],
// [Prototype.InteractionContinue], and [Prototype.InteractionEnd]; each
// pointer carries a caller-chosen id and a world-space [Pose]. Register a
// [Listener] to observe state changes and element events.
//
// # Concurrency
//
// The runtime is cooperative and single-threaded. All methods on
// [Prototype], [StateMachine], and the live elements must be called from
// one goroutine; the runtime never spawns its own. The only exception is
// [Watcher], which reports bundle edits on channels from a background
// goroutine so a host can decide when to call [Prototype.Reload].
package rowan
